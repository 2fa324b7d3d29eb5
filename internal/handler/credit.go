package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/shopspring/decimal"

	"dskcredit/internal/service"
	"dskcredit/internal/useragent"
)

func AvailabilityHandler(policy *service.AvailabilityPolicy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := parseAmount(r.URL.Query().Get("total"))
		if err != nil {
			http.Error(w, "invalid total", http.StatusBadRequest)
			return
		}

		decision := policy.Decide(r.Context(), total, currencyParam(r))
		render.JSON(w, r, decision)
	}
}

func QuoteHandler(calc *service.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		price, err := parseAmount(q.Get("price"))
		if err != nil {
			http.Error(w, "invalid price", http.StatusBadRequest)
			return
		}

		var productID int64
		if raw := q.Get("product_id"); raw != "" {
			productID, err = strconv.ParseInt(raw, 10, 64)
			if err != nil || productID < 0 {
				http.Error(w, "invalid product_id", http.StatusBadRequest)
				return
			}
		}

		view, err := calc.Quote(r.Context(), price, currencyParam(r), productID, useragent.IsMobile(r.UserAgent()))
		if err != nil {
			if !errors.Is(err, service.ErrNoData) {
				slog.Error("quote failed", "error", err)
			}
			render.JSON(w, r, map[string]bool{"available": false})
			return
		}

		render.JSON(w, r, view)
	}
}

func AdvertisementHandler(calc *service.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ad, err := calc.Advertisement(r.Context())
		if err != nil {
			render.NoContent(w, r)
			return
		}
		render.JSON(w, r, ad)
	}
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("negative amount")
	}
	return d, nil
}

func currencyParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
}
