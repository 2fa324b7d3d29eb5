package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"dskcredit/internal/metrics"
	"dskcredit/internal/model"
)

type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[int]int, error)
}

// StatusGaugeWorker periodically exports how many tracked applications sit
// in each bank status.
type StatusGaugeWorker struct {
	orders   StatusCounter
	interval time.Duration
}

func NewStatusGaugeWorker(orders StatusCounter, interval time.Duration) *StatusGaugeWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &StatusGaugeWorker{
		orders:   orders,
		interval: interval,
	}
}

func (w *StatusGaugeWorker) Start(ctx context.Context) {
	slog.Info("starting status gauge worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.collect(ctx); err != nil {
		slog.Error("status gauge refresh failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("status gauge worker stopped")
			return
		case <-ticker.C:
			if err := w.collect(ctx); err != nil {
				slog.Error("status gauge refresh failed", "error", err)
			}
		}
	}
}

func (w *StatusGaugeWorker) collect(ctx context.Context) error {
	counts, err := w.orders.CountByStatus(ctx)
	if err != nil {
		return fmt.Errorf("count orders: %w", err)
	}

	for status := model.StatusCreated; status <= model.StatusCreditDisbursed; status++ {
		metrics.OrdersByStatus.WithLabelValues(strconv.Itoa(status)).Set(float64(counts[status]))
	}
	return nil
}
