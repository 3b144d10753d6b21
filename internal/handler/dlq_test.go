package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"ims/internal/handler"
	"ims/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDLQEngine(rdb *redis.Client) *gin.Engine {
	r := newEngine()
	r.GET("/v1/admin/dlq", handler.DeadLetters(rdb))
	return r
}

func TestDeadLetters_ListsFailedJobs(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	for _, reason := range []string{"smtp down", "smtp timeout"} {
		worker.SendToDLQ(ctx, rdb, worker.QueueLowStockAlert, worker.Job{
			Type:     worker.QueueLowStockAlert,
			Payload:  json.RawMessage(`{"product_id":1}`),
			Attempts: worker.MaxJobAttempts,
		}, reason)
	}

	w := doJSON(newDLQEngine(rdb), http.MethodGet, "/v1/admin/dlq?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Total   int64             `json:"total"`
		Entries []worker.DLQEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Total)
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "smtp timeout", body.Entries[0].Reason)
}

func TestDeadLetters_BadLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	w := doJSON(newDLQEngine(rdb), http.MethodGet, "/v1/admin/dlq?limit=-3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeadLetters_RedisDisabled(t *testing.T) {
	w := doJSON(newDLQEngine(nil), http.MethodGet, "/v1/admin/dlq", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
