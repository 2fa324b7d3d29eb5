package model

import (
	"encoding/base64"
	"html"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	Postcode string `json:"postcode,omitempty"`
}

type LineItem struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID int64           `json:"category_id"`
	ImageURL   string          `json:"image_url"`
}

const (
	ClientDesktop = 0
	ClientMobile  = 1
)

// OrderApplication is assembled at checkout, encrypted and sent; it is
// never stored.
type OrderApplication struct {
	MerchantCID     string
	FirstName       string
	LastName        string
	Phone           string
	Email           string
	BillingAddress  Address
	ShippingAddress Address
	LineItems       []LineItem
	TotalPrice      decimal.Decimal
	CurrencyFlag    int
	MerchantOrderID int64
	ClientType      int
	Version         string
}

// ApplicationPayload is the exact JSON document the bank decrypts.
type ApplicationPayload struct {
	UniCID        string `json:"unicid"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	BillingStreet string `json:"address2"`
	BillingCity   string `json:"address2city"`
	Postcode      string `json:"postcode"`
	Price         string `json:"price"`
	ShipStreet    string `json:"address"`
	ShipCity      string `json:"addresscity"`
	ProductIDs    string `json:"products_id"`
	ProductNames  string `json:"products_name"`
	Quantities    string `json:"products_q"`
	ClientType    int    `json:"type_client"`
	Prices        string `json:"products_p"`
	Version       string `json:"version"`
	ShopOrderID   int64  `json:"shoporder_id"`
	Categories    string `json:"products_c"`
	Manufacturers string `json:"products_m"`
	Images        string `json:"products_i"`
	Currency      int    `json:"currency"`
}

func (a OrderApplication) Payload() ApplicationPayload {
	n := len(a.LineItems)
	ids := make([]string, 0, n)
	names := make([]string, 0, n)
	qty := make([]string, 0, n)
	prices := make([]string, 0, n)
	cats := make([]string, 0, n)
	images := make([]string, 0, n)

	for _, item := range a.LineItems {
		ids = append(ids, strconv.FormatInt(item.ProductID, 10))
		names = append(names, cleanText(item.Name))
		qty = append(qty, strconv.Itoa(item.Quantity))
		prices = append(prices, item.UnitPrice.StringFixed(2))
		cats = append(cats, strconv.FormatInt(item.CategoryID, 10))
		images = append(images, base64.StdEncoding.EncodeToString([]byte(item.ImageURL)))
	}

	return ApplicationPayload{
		UniCID:        a.MerchantCID,
		FirstName:     strings.TrimSpace(a.FirstName),
		LastName:      strings.TrimSpace(a.LastName),
		Phone:         a.Phone,
		Email:         a.Email,
		BillingStreet: cleanText(a.BillingAddress.Street),
		BillingCity:   cleanText(a.BillingAddress.City),
		Postcode:      a.BillingAddress.Postcode,
		Price:         a.TotalPrice.StringFixed(2),
		ShipStreet:    cleanText(a.ShippingAddress.Street),
		ShipCity:      cleanText(a.ShippingAddress.City),
		ProductIDs:    strings.Join(ids, "_"),
		ProductNames:  strings.Join(names, "_"),
		Quantities:    strings.Join(qty, "_"),
		ClientType:    a.ClientType,
		Prices:        strings.Join(prices, "_"),
		Version:       a.Version,
		ShopOrderID:   a.MerchantOrderID,
		Categories:    strings.Join(cats, "_"),
		Manufacturers: "",
		Images:        strings.Join(images, "_"),
		Currency:      a.CurrencyFlag,
	}
}

// cleanText unescapes HTML entities and drops quote characters, which the
// bank's parser rejects.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "'", "")
	return strings.ReplaceAll(s, `"`, "")
}
