package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ims/internal/dto"

	"github.com/stretchr/testify/assert"
)

type countingChecker struct {
	calls atomic.Int32
	err   error
}

func (c *countingChecker) CheckLowStock(context.Context) ([]dto.LowStockAlert, error) {
	c.calls.Add(1)
	return []dto.LowStockAlert{{ProductID: 1}}, c.err
}

func TestStartLowStockSweep_Ticks(t *testing.T) {
	c := &countingChecker{err: errors.New("partial failure")}
	ctx, cancel := context.WithCancel(context.Background())

	done := StartLowStockSweep(ctx, c, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return c.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop")
	}
}

func TestStartLowStockSweep_Disabled(t *testing.T) {
	c := &countingChecker{}
	done := StartLowStockSweep(context.Background(), c, 0)

	_, open := <-done
	assert.False(t, open)
	assert.Zero(t, c.calls.Load())
}
