package model

import (
	"github.com/shopspring/decimal"
)

// MinMaxLimits is the response of getminmax.
type MinMaxLimits struct {
	ConversionMode      Int             `json:"dsk_eur"`
	MinAmount           decimal.Decimal `json:"dsk_minstojnost"`
	MaxAmount           decimal.Decimal `json:"dsk_maxstojnost"`
	MinZeroPercent      decimal.Decimal `json:"dsk_min_000"`
	StatusFlag          Int             `json:"dsk_status"`
	InterestPercent     decimal.Decimal `json:"dsk_purcent"`
	DefaultInstallments Int             `json:"dsk_vnoski_default"`
}

func (MinMaxLimits) RequiredFields() []string {
	return []string{"dsk_eur", "dsk_minstojnost", "dsk_maxstojnost", "dsk_min_000", "dsk_status", "dsk_purcent", "dsk_vnoski_default"}
}

// EurMode is the response of geteur.
type EurMode struct {
	ConversionMode Int `json:"dsk_eur"`
}

func (EurMode) RequiredFields() []string {
	return []string{"dsk_eur"}
}

// CreditQuote is the per-product calculation returned by getproduct.
type CreditQuote struct {
	MinAmount              decimal.Decimal `json:"dsk_minstojnost"`
	MaxAmount              decimal.Decimal `json:"dsk_maxstojnost"`
	InstallmentCount       Int             `json:"dsk_vnoski_default"`
	MonthlyPayment         decimal.Decimal `json:"dsk_vnoska"`
	APR                    decimal.Decimal `json:"dsk_gpr"`
	CurrencyConversionMode Int             `json:"dsk_eur"`
	VisibilityBitmask      Int             `json:"dsk_vnoski_visible"`
	StatusFlag             Int             `json:"dsk_status"`

	Title              string `json:"dsk_zaglavie"`
	AdvertisementID    string `json:"dsk_reklama"`
	ButtonStatus       Int    `json:"dsk_button_status"`
	CustomButtonStatus Int    `json:"dsk_custom_button_status"`
	Options            Bool   `json:"dsk_options"`
	IsVisible          Bool   `json:"dsk_is_visible"`
	ShowInstallment    Int    `json:"dsk_isvnoska"`
}

func (CreditQuote) RequiredFields() []string {
	return []string{"dsk_vnoski_default", "dsk_vnoska", "dsk_gpr", "dsk_vnoski_visible", "dsk_status"}
}

// Advertisement is the floating banner payload returned by getrek.
type Advertisement struct {
	StatusFlag      Int    `json:"dsk_status"`
	ContainerStatus Int    `json:"dsk_container_status"`
	Picture         string `json:"dsk_picture"`
	Text1           string `json:"dsk_container_txt1"`
	Text2           string `json:"dsk_container_txt2"`
	LogoURL         string `json:"dsk_logo_url"`
}

func (Advertisement) RequiredFields() []string {
	return []string{"dsk_status", "dsk_container_status"}
}

// AddOrderResponse is returned by addorders. A zero OrderID means the bank
// already holds an application for the merchant order.
type AddOrderResponse struct {
	OrderID Int `json:"order_id"`
}

func (AddOrderResponse) RequiredFields() []string {
	return nil
}
