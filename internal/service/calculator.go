package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"dskcredit/internal/config"
	"dskcredit/internal/currency"
	"dskcredit/internal/installment"
	"dskcredit/internal/model"
)

// QuoteView is what the product and cart widgets render.
type QuoteView struct {
	Available      bool            `json:"available"`
	Title          string          `json:"title,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Currency       string          `json:"currency"`
	Installments   int             `json:"installments"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
	APR            decimal.Decimal `json:"apr"`
	MaxAmount      decimal.Decimal `json:"max_amount"`
	VisibleMonths  []int           `json:"visible_months"`
	ShowButton     bool            `json:"show_button"`
	ShowMonthly    bool            `json:"show_monthly"`
	CustomButton   bool            `json:"custom_button"`
	Buttons        ButtonImages    `json:"buttons"`
	PictureURL     string          `json:"picture_url,omitempty"`
}

type ButtonImages struct {
	Normal string `json:"normal"`
	Hover  string `json:"hover"`
}

// Calculator turns bank quotes into widget data.
type Calculator struct {
	bank                 *BankClient
	pluginEnabled        bool
	advertisementEnabled bool
}

func NewCalculator(cfg *config.Config, bank *BankClient) *Calculator {
	return &Calculator{
		bank:                 bank,
		pluginEnabled:        cfg.PluginEnabled,
		advertisementEnabled: cfg.AdvertisementEnabled,
	}
}

// Quote returns ErrNoData when the widget must stay hidden.
func (c *Calculator) Quote(ctx context.Context, price decimal.Decimal, code string, productID int64, mobile bool) (*QuoteView, error) {
	if !c.pluginEnabled || !currency.Supported(code) {
		return nil, ErrNoData
	}

	eur, err := c.bank.EurMode(ctx)
	if err != nil {
		slog.Debug("eur mode lookup failed", "error", err)
		return nil, err
	}
	mode := currency.Mode(eur.ConversionMode)
	converted := currency.Convert(price, mode, code)

	q, err := c.bank.ProductQuote(ctx, converted, productID)
	if err != nil {
		slog.Debug("product quote failed", "product_id", productID, "error", err)
		return nil, err
	}

	installments := int(q.InstallmentCount)
	monthly := q.MonthlyPayment.Round(2)

	view := &QuoteView{
		Available:      true,
		Title:          q.Title,
		Price:          converted,
		Currency:       currency.Target(mode, code),
		Installments:   installments,
		MonthlyPayment: monthly,
		TotalPayable:   monthly.Mul(decimal.NewFromInt(int64(installments))).Round(2),
		APR:            q.APR.Round(2),
		MaxAmount:      q.MaxAmount.Round(2),
		VisibleMonths:  installment.VisibleMonths(int64(q.VisibilityBitmask), installments),
		ShowButton: converted.IsPositive() && bool(q.Options) && bool(q.IsVisible) &&
			q.StatusFlag == 1 && q.ButtonStatus != 0,
		ShowMonthly:  q.ShowInstallment != 0,
		CustomButton: q.CustomButtonStatus != 0,
		Buttons:      c.buttons(q.CustomButtonStatus != 0),
	}
	if q.AdvertisementID != "" {
		view.PictureURL = c.picture(q.AdvertisementID, mobile)
	}
	return view, nil
}

func (c *Calculator) buttons(custom bool) ButtonImages {
	base := c.bank.BaseURL() + "/calculators/assets/img/"
	if custom {
		return ButtonImages{
			Normal: base + "custom_buttons/" + c.bank.CID() + ".png",
			Hover:  base + "custom_buttons/" + c.bank.CID() + "_hover.png",
		}
	}
	return ButtonImages{
		Normal: base + "buttons/dsk.png",
		Hover:  base + "buttons/dsk-hover.png",
	}
}

func (c *Calculator) picture(id string, mobile bool) string {
	prefix := "dsk"
	if mobile {
		prefix = "dskm"
	}
	return c.bank.BaseURL() + "/calculators/assets/img/" + prefix + id + ".png"
}

// Advertisement returns ErrNoData unless the bank has an active banner for
// this merchant.
func (c *Calculator) Advertisement(ctx context.Context) (*model.Advertisement, error) {
	if !c.pluginEnabled || !c.advertisementEnabled {
		return nil, ErrNoData
	}

	ad, err := c.bank.Advertisement(ctx)
	if err != nil {
		slog.Debug("advertisement lookup failed", "error", err)
		return nil, err
	}
	if ad.StatusFlag != 1 || ad.ContainerStatus != 1 {
		return nil, ErrNoData
	}
	return ad, nil
}
