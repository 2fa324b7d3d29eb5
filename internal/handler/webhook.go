package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"dskcredit/internal/metrics"
	"dskcredit/internal/model"
	"dskcredit/internal/service"
)

type updateOrderResponse struct {
	Success      string `json:"success"`
	OrderID      string `json:"dskapi_order_id"`
	Status       string `json:"dskapi_status"`
	CalculatorID string `json:"dskapi_calculator_id"`
}

// UpdateOrderHandler receives the bank's status callback. It always answers
// 200 and reports the outcome in the body.
func UpdateOrderHandler(orders *service.OrderStore, cid string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := updateOrderResponse{
			Success:      "unsuccess",
			OrderID:      r.FormValue("order_id"),
			Status:       r.FormValue("status"),
			CalculatorID: r.FormValue("calculator_id"),
		}
		if resp.Status == "" {
			resp.Status = "0"
		}

		result := "rejected"
		switch {
		case resp.CalculatorID == "" || resp.CalculatorID != cid:
			slog.Warn("status callback with unknown calculator id", "calculator_id", resp.CalculatorID)
		default:
			orderID, errID := strconv.ParseInt(strings.TrimSpace(resp.OrderID), 10, 64)
			status, errStatus := strconv.Atoi(strings.TrimSpace(resp.Status))
			if errID != nil || errStatus != nil || orderID <= 0 ||
				status < model.StatusCreated || status > model.StatusCreditDisbursed {
				slog.Warn("malformed status callback", "order_id", resp.OrderID, "status", resp.Status)
				break
			}

			if err := orders.Create(r.Context(), orderID, status); err != nil {
				slog.Error("status callback store failed", "order_id", orderID, "error", err)
				result = "error"
				break
			}

			slog.Info("order status updated", "order_id", orderID, "status", status, "label", model.StatusLabel(status))
			resp.Success = "success"
			result = "success"
		}

		metrics.StatusCallbacksTotal.WithLabelValues(result).Inc()
		render.JSON(w, r, resp)
	}
}
