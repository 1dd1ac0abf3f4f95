package health

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/queue"
	"pdfextract-backend/internal/shared/server/respond"
	"pdfextract-backend/internal/shared/storage/kv"
)

const (
	pingKey     = "health:ping"
	checkTimeout = 2 * time.Second
)

// Check pings one backend. A nil error means healthy.
type Check func(ctx context.Context) error

// Service runs named readiness checks.
type Service struct {
	checks map[string]Check
}

// NewService constructs a health service with no checks.
func NewService() *Service {
	return &Service{checks: make(map[string]Check)}
}

// Add registers a named check.
func (s *Service) Add(name string, check Check) *Service {
	s.checks[name] = check
	return s
}

// RecordStoreCheck reads a key that never exists. ErrNotFound proves the
// store answered.
func RecordStoreCheck(store kv.Store) Check {
	return func(ctx context.Context) error {
		_, err := store.Get(ctx, pingKey)
		if err == nil || errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return err
	}
}

// QueueCheck asks the queue for its depth.
func QueueCheck(q queue.WorkQueue) Check {
	return func(ctx context.Context) error {
		_, err := q.Len(ctx)
		return err
	}
}

// Status runs every check and returns per-check results.
func (s *Service) Status(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(names))
	ok := true
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			out[name] = err.Error()
			ok = false
			continue
		}
		out[name] = "ok"
	}
	return out, ok
}

// RegisterRoutes attaches GET /ready.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ready", func(c *gin.Context) {
		checks, ok := s.Status(c.Request.Context())
		if !ok {
			respond.Error(c, http.StatusServiceUnavailable, "not_ready", "backend check failed", checks)
			return
		}
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok", "checks": checks})
	})
}
