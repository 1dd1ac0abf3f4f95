package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/shared/storage/kv"
)

func serve(svc *Service) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(&r.RouterGroup)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	return w
}

func TestReadyWithHealthyBackends(t *testing.T) {
	svc := NewService().
		Add("records", RecordStoreCheck(kv.NewMemoryStore())).
		Add("queue", QueueCheck(queue.NewMemoryQueue()))

	checks, ok := svc.Status(context.Background())
	require.True(t, ok)
	assert.Equal(t, map[string]string{"queue": "ok", "records": "ok"}, checks)

	w := serve(svc)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"queue":"ok","records":"ok"}}`, w.Body.String())
}

func TestReadyReportsFailingCheck(t *testing.T) {
	svc := NewService().
		Add("records", RecordStoreCheck(kv.NewMemoryStore())).
		Add("queue", func(context.Context) error { return errors.New("connection refused") })

	w := serve(svc)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "not_ready")
}
