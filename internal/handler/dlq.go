package handler

import (
	"net/http"
	"strconv"

	"ims/internal/apierror"
	"ims/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DeadLetters lists the most recent low-stock alert jobs that exhausted
// their retries. ?limit= caps the result (default 50, max 500).
//
// @Summary  Dead-lettered alert jobs
// @Tags     admin
// @Security BearerAuth
// @Produce  json
// @Param    limit query int false "max entries"
// @Success  200 {object} map[string]interface{}
// @Failure  503 {object} apierror.APIError "redis disabled"
// @Router   /v1/admin/dlq [get]
func DeadLetters(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.JSON(http.StatusServiceUnavailable, apierror.New("job queue disabled"))
			return
		}
		limit := int64(50)
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, apierror.New("invalid limit"))
				return
			}
			limit = min(n, 500)
		}

		ctx := c.Request.Context()
		total, err := worker.DLQLength(ctx, rdb, worker.QueueLowStockAlert)
		if err != nil {
			writeError(c, err)
			return
		}
		entries, err := worker.DLQEntries(ctx, rdb, worker.QueueLowStockAlert, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"queue":   worker.QueueLowStockAlert,
			"total":   total,
			"entries": entries,
		})
	}
}
