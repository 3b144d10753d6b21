package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ims/internal/dto"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFunc func(ctx context.Context, raw json.RawMessage) error

func (f handlerFunc) Process(ctx context.Context, raw json.RawMessage) error { return f(ctx, raw) }

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestDispatcher_EnqueueLowStockAlert(t *testing.T) {
	rdb := newTestRedis(t)
	d := NewDispatcher(rdb)

	alert := dto.LowStockAlert{ProductID: 1, Name: "Widget", Quantity: 7, NewQuantity: 17, OrderTotal: decimal.NewFromInt(50)}
	require.NoError(t, d.EnqueueLowStockAlert(context.Background(), alert))

	raw, err := rdb.RPop(context.Background(), QueueLowStockAlert).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, jobTypeLowStockAlert, job.Type)
	assert.Zero(t, job.Attempts)

	var got dto.LowStockAlert
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, "Widget", got.Name)
	assert.Equal(t, 17, got.NewQuantity)
}

func TestPool_ProcessesJobs(t *testing.T) {
	rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	var processed atomic.Int32
	pool := NewPool(rdb)
	pool.PopTimeout = 100 * time.Millisecond
	pool.Register(QueueLowStockAlert, handlerFunc(func(context.Context, json.RawMessage) error {
		processed.Add(1)
		return nil
	}))
	pool.Start(ctx, 2)

	d := NewDispatcher(rdb)
	for i := 0; i < 3; i++ {
		require.NoError(t, d.EnqueueLowStockAlert(ctx, dto.LowStockAlert{ProductID: uint(i + 1)}))
	}

	assert.Eventually(t, func() bool { return processed.Load() == 3 }, 3*time.Second, 20*time.Millisecond)
	cancel()
	pool.Wait()
}

func TestPool_FailingJobGoesToDLQ(t *testing.T) {
	rdb := newTestRedis(t)
	ctx, cancel := context.WithCancel(context.Background())

	var attempts atomic.Int32
	pool := NewPool(rdb)
	pool.PopTimeout = 100 * time.Millisecond
	pool.Register(QueueLowStockAlert, handlerFunc(func(context.Context, json.RawMessage) error {
		attempts.Add(1)
		return errors.New("smtp down")
	}))
	pool.Start(ctx, 1)

	require.NoError(t, NewDispatcher(rdb).EnqueueLowStockAlert(ctx, dto.LowStockAlert{ProductID: 9, Name: "Cog"}))

	assert.Eventually(t, func() bool {
		n, _ := DLQLength(context.Background(), rdb, QueueLowStockAlert)
		return n == 1
	}, 3*time.Second, 20*time.Millisecond)
	cancel()
	pool.Wait()

	assert.Equal(t, int32(MaxJobAttempts), attempts.Load())
	entries, err := DLQEntries(context.Background(), rdb, QueueLowStockAlert, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "smtp down", entries[0].Reason)
	assert.Equal(t, MaxJobAttempts, entries[0].Attempts)
	assert.Equal(t, QueueLowStockAlert, entries[0].OriginalQueue)
}

func TestPool_MalformedJobIsDeadLettered(t *testing.T) {
	rdb := newTestRedis(t)
	pool := NewPool(rdb)
	pool.Register(QueueLowStockAlert, handlerFunc(func(context.Context, json.RawMessage) error { return nil }))

	pool.processJob(context.Background(), QueueLowStockAlert, "{not json")

	n, err := DLQLength(context.Background(), rdb, QueueLowStockAlert)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
