package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskResult(t *testing.T) {
	assert.Equal(t, "ok", taskResult(nil))
	assert.Equal(t, "retry", taskResult(errors.New("smtp down")))
	assert.Equal(t, "skip", taskResult(fmt.Errorf("bad payload: %w", asynq.SkipRetry)))
}

func TestAsynqMiddlewarePassesThroughError(t *testing.T) {
	want := errors.New("boom")
	h := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return want
	}))

	err := h.ProcessTask(context.Background(), asynq.NewTask("metrics:test", nil))
	require.ErrorIs(t, err, want)
	assert.Equal(t, float64(0), testutil.ToFloat64(taskInProgress.WithLabelValues("metrics:test")))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `portfolio_http_request_duration_seconds_count{method="GET",route="/ping",status="200"}`)
}
