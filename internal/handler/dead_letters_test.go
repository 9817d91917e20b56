package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"buyonline/internal/handler"
	"buyonline/internal/worker"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadLetters(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		job := worker.Job{Type: worker.JobEmail, Payload: json.RawMessage(`{"subject":"product created"}`), Attempts: i}
		worker.SendToDLQ(ctx, rdb, worker.QueueEmail, job, "smtp: connection refused")
	}

	r := gin.New()
	r.GET("/dead-letters", handler.DeadLetters(rdb))

	w := send(r, http.MethodGet, "/dead-letters?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Total   int64             `json:"total"`
		Entries []worker.DLQEntry `json:"entries"`
	}
	decode(t, w, &out)
	assert.EqualValues(t, 3, out.Total)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, 3, out.Entries[0].Attempts, "newest entry first")
	assert.Equal(t, worker.QueueEmail, out.Entries[0].OriginalQueue)
	assert.Equal(t, "smtp: connection refused", out.Entries[0].Reason)

	for _, bad := range []string{"0", "101", "ten"} {
		assert.Equal(t, http.StatusBadRequest, send(r, http.MethodGet, "/dead-letters?limit="+bad, nil).Code, bad)
	}
}
