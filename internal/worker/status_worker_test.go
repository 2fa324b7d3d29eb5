package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dskcredit/internal/metrics"
)

type fakeCounter struct {
	counts map[int]int
	err    error
	calls  atomic.Int32
}

func (f *fakeCounter) CountByStatus(context.Context) (map[int]int, error) {
	f.calls.Add(1)
	return f.counts, f.err
}

func TestStatusGaugeWorkerCollect(t *testing.T) {
	w := NewStatusGaugeWorker(&fakeCounter{counts: map[int]int{0: 4, 3: 2, 8: 1}}, time.Minute)
	require.NoError(t, w.collect(context.Background()))

	assert.Equal(t, 4.0, testutil.ToFloat64(metrics.OrdersByStatus.WithLabelValues("0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.OrdersByStatus.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OrdersByStatus.WithLabelValues("8")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.OrdersByStatus.WithLabelValues("5")))

	failing := NewStatusGaugeWorker(&fakeCounter{err: errors.New("db down")}, time.Minute)
	assert.ErrorContains(t, failing.collect(context.Background()), "db down")
}

func TestStatusGaugeWorkerStartStops(t *testing.T) {
	counter := &fakeCounter{counts: map[int]int{}}
	w := NewStatusGaugeWorker(counter, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return counter.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestNewStatusGaugeWorkerDefaultInterval(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewStatusGaugeWorker(&fakeCounter{}, 0).interval)
}
