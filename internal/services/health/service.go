package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/shared/telemetry"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency that can report reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// PingContext calls f.
func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Service encapsulates health-related checks.
type Service struct {
	checks map[string]Pinger
}

// NewService constructs a new health service. Nil checks are skipped.
func NewService(checks map[string]Pinger) *Service {
	live := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			live[name] = p
		}
	}
	return &Service{checks: live}
}

// Status returns a simple liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready pings every dependency and reports each result.
func (s *Service) Ready(ctx context.Context) (bool, map[string]string) {
	ok := true
	out := make(map[string]string, len(s.checks))
	for name, p := range s.checks {
		pingCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.PingContext(pingCtx)
		cancel()
		if err != nil {
			ok = false
			out[name] = err.Error()
			telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err.Error()})
			continue
		}
		out[name] = "ok"
	}
	return ok, out
}

// RegisterRoutes attaches /health and /health/ready.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		respond.OK(c, s.Status())
	})
	rg.GET("/health/ready", func(c *gin.Context) {
		ok, checks := s.Ready(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, gin.H{"ok": ok, "checks": checks})
	})
}
