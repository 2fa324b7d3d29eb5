package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dskcredit/internal/model"
	"dskcredit/internal/service"
)

func ListOrdersHandler(orders *service.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		status, err := strconv.Atoi(q.Get("status"))
		if err != nil || status < model.StatusCreated || status > model.StatusCreditDisbursed {
			http.Error(w, "status must be between 0 and 8", http.StatusBadRequest)
			return
		}

		limit := 0
		if raw := q.Get("limit"); raw != "" {
			limit, err = strconv.Atoi(raw)
			if err != nil || limit < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
		}

		list, err := orders.ListByStatus(r.Context(), status, limit)
		if err != nil {
			slog.Error("list orders failed", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if len(list) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		render.JSON(w, r, list)
	}
}

func GetOrderHandler(orders *service.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		o, err := orders.Get(r.Context(), orderID)
		if err != nil {
			if errors.Is(err, service.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			slog.Error("get order failed", "order_id", orderID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, o)
	}
}

func DeleteOrderHandler(orders *service.OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, ok := orderIDParam(w, r)
		if !ok {
			return
		}

		if err := orders.Delete(r.Context(), orderID); err != nil {
			if errors.Is(err, service.ErrOrderNotFound) {
				http.Error(w, "order not found", http.StatusNotFound)
				return
			}
			slog.Error("delete order failed", "order_id", orderID, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		slog.Info("credit order removed", "order_id", orderID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func StatusLabelsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, model.StatusLabels())
	}
}

func orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return 0, false
	}
	return orderID, true
}
