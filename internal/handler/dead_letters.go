package handler

import (
	"net/http"
	"strconv"

	"buyonline/internal/apierror"
	"buyonline/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const maxDeadLetters = 100

// DeadLetters godoc
// @Summary Lists the most recent notifications that could not be delivered
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "entries to return (1-100)" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apierror.APIError
// @Router /v1/admin/notifications/dead-letters [get]
func DeadLetters(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil || limit < 1 || limit > maxDeadLetters {
			c.JSON(http.StatusBadRequest, apierror.New("limit must be between 1 and 100", c.Request.URL.Path))
			return
		}

		ctx := c.Request.Context()
		total, err := worker.DLQLength(ctx, rdb, worker.QueueEmail)
		if err != nil {
			writeError(c, err)
			return
		}
		entries, err := worker.PeekDLQ(ctx, rdb, worker.QueueEmail, int64(limit))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total, "entries": entries})
	}
}
