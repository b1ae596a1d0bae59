package respond

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/telemetry"
)

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error logs the failure and aborts the request with {"error": message}.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Info("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

const maxUpstreamMessage = 200

var urlCredentials = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^/\s:@]+:[^/\s@]+@`)

// Upstream reports a failed store or external call as a 500. The body is
// fallback followed by the first line of err, with URL credentials masked
// and the detail capped in length.
func Upstream(c *gin.Context, fallback string, err error) {
	Error(c, http.StatusInternalServerError, UpstreamMessage(fallback, err))
}

// UpstreamMessage builds the message Upstream sends.
func UpstreamMessage(fallback string, err error) string {
	if err == nil {
		return fallback
	}
	detail := err.Error()
	if i := strings.IndexAny(detail, "\r\n"); i >= 0 {
		detail = detail[:i]
	}
	detail = strings.TrimSpace(urlCredentials.ReplaceAllString(detail, "${1}***@"))
	if r := []rune(detail); len(r) > maxUpstreamMessage {
		detail = string(r[:maxUpstreamMessage]) + "..."
	}
	if detail == "" {
		return fallback
	}
	return fallback + ": " + detail
}
