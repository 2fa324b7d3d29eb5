package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"dskcredit/internal/service"
	"dskcredit/internal/useragent"
)

type noticeResponse struct {
	Outcome string `json:"outcome"`
	Notice  string `json:"notice"`
}

func SubmitApplicationHandler(checkout *service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.CheckoutRequest
		if err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, 1<<20), &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		req.Mobile = useragent.IsMobile(r.UserAgent())

		res, err := checkout.Submit(r.Context(), req)
		if err != nil {
			var dup *service.DuplicateError
			switch {
			case errors.As(err, &dup):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, noticeResponse{Outcome: "duplicate", Notice: dup.Error()})
			case errors.Is(err, service.ErrInvalidApplication):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, service.ErrEncryption):
				slog.Error("application encryption failed", "order_id", req.OrderID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			default:
				slog.Error("application submit failed", "order_id", req.OrderID, "error", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if res.Outcome == service.SubmitPendingReview {
			render.Status(r, http.StatusAccepted)
		}
		render.JSON(w, r, res)
	}
}
