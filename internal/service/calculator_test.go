package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productBody = `{"dsk_minstojnost":"150","dsk_maxstojnost":"25000","dsk_vnoski_default":"12",
	"dsk_vnoska":"9.166","dsk_gpr":"12.681","dsk_vnoski_visible":1,"dsk_status":1,
	"dsk_zaglavie":"Buy on credit","dsk_reklama":"7","dsk_button_status":1,
	"dsk_custom_button_status":0,"dsk_options":true,"dsk_is_visible":"1","dsk_isvnoska":1,"dsk_eur":2}`

func TestCalculatorQuote(t *testing.T) {
	fb := newFakeBank(t, map[string]string{
		EndpointEur:     `{"dsk_eur":2}`,
		EndpointProduct: productBody,
	})
	calc := NewCalculator(testConfig(), fb.client())

	view, err := calc.Quote(context.Background(), decimal.RequireFromString("195.58"), "BGN", 31, false)
	require.NoError(t, err)

	q := fb.query(EndpointProduct)
	assert.Equal(t, "cid-42", q.Get("cid"))
	assert.Equal(t, "100.00", q.Get("price"))
	assert.Equal(t, "31", q.Get("product_id"))

	assert.True(t, view.Available)
	assert.Equal(t, "Buy on credit", view.Title)
	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, "100", view.Price.String())
	assert.Equal(t, 12, view.Installments)
	assert.Equal(t, "9.17", view.MonthlyPayment.String())
	assert.Equal(t, "110.04", view.TotalPayable.String())
	assert.Equal(t, "12.68", view.APR.String())
	assert.Equal(t, []int{3, 12}, view.VisibleMonths)
	assert.True(t, view.ShowButton)
	assert.True(t, view.ShowMonthly)
	assert.False(t, view.CustomButton)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/buttons/dsk.png", view.Buttons.Normal)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/buttons/dsk-hover.png", view.Buttons.Hover)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/dsk7.png", view.PictureURL)
}

func TestCalculatorQuoteVariants(t *testing.T) {
	custom := `{"dsk_vnoski_default":6,"dsk_vnoska":"20","dsk_gpr":"0","dsk_vnoski_visible":0,"dsk_status":1,
		"dsk_reklama":"3","dsk_button_status":0,"dsk_custom_button_status":1,"dsk_options":1,"dsk_is_visible":1}`
	fb := newFakeBank(t, map[string]string{
		EndpointEur:     `{"dsk_eur":0}`,
		EndpointProduct: custom,
	})
	calc := NewCalculator(testConfig(), fb.client())

	view, err := calc.Quote(context.Background(), decimal.NewFromInt(120), "EUR", 5, true)
	require.NoError(t, err)

	assert.Equal(t, "EUR", view.Currency)
	assert.Equal(t, []int{6}, view.VisibleMonths)
	assert.False(t, view.ShowButton, "button status 0 hides the button")
	assert.True(t, view.CustomButton)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/custom_buttons/cid-42.png", view.Buttons.Normal)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/custom_buttons/cid-42_hover.png", view.Buttons.Hover)
	assert.Equal(t, fb.srv.URL+"/calculators/assets/img/dskm3.png", view.PictureURL)

	view, err = calc.Quote(context.Background(), decimal.Zero, "EUR", 5, false)
	require.NoError(t, err)
	assert.False(t, view.ShowButton, "zero price hides the button")
}

func TestCalculatorQuoteUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		bodies   map[string]string
		currency string
		plugin   bool
	}{
		{"unsupported currency", map[string]string{EndpointEur: `{"dsk_eur":0}`, EndpointProduct: productBody}, "USD", true},
		{"plugin disabled", map[string]string{EndpointEur: `{"dsk_eur":0}`, EndpointProduct: productBody}, "BGN", false},
		{"eur mode down", map[string]string{EndpointProduct: productBody}, "BGN", true},
		{"product quote down", map[string]string{EndpointEur: `{"dsk_eur":0}`}, "BGN", true},
		{"product quote incomplete", map[string]string{EndpointEur: `{"dsk_eur":0}`, EndpointProduct: `{"dsk_vnoska":"1"}`}, "BGN", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBank(t, tt.bodies)
			cfg := testConfig()
			cfg.PluginEnabled = tt.plugin

			view, err := NewCalculator(cfg, fb.client()).Quote(context.Background(), decimal.NewFromInt(500), tt.currency, 1, false)
			assert.Nil(t, view)
			assert.True(t, errors.Is(err, ErrNoData), "got %v", err)
		})
	}
}

func TestCalculatorAdvertisement(t *testing.T) {
	active := `{"dsk_status":1,"dsk_container_status":"1","dsk_picture":"https://bank/img.png",
		"dsk_container_txt1":"Credit","dsk_container_txt2":"in minutes","dsk_logo_url":"https://bank/more"}`

	tests := []struct {
		name    string
		body    string
		enabled bool
		wantErr bool
	}{
		{"active banner", active, true, false},
		{"setting off", active, false, true},
		{"container hidden", `{"dsk_status":1,"dsk_container_status":0}`, true, true},
		{"status off", `{"dsk_status":0,"dsk_container_status":1}`, true, true},
		{"bank empty", `null`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := newFakeBank(t, map[string]string{EndpointAdvertisement: tt.body})
			cfg := testConfig()
			cfg.AdvertisementEnabled = tt.enabled

			ad, err := NewCalculator(cfg, fb.client()).Advertisement(context.Background())
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrNoData))
				assert.Nil(t, ad)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "https://bank/img.png", ad.Picture)
			assert.Equal(t, "Credit", ad.Text1)
			assert.Equal(t, "https://bank/more", ad.LogoURL)
		})
	}
}
