package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestUpstreamMessage(t *testing.T) {
	long := strings.Repeat("x", maxUpstreamMessage+50)
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: "Failed"},
		{name: "plain", err: errors.New("openai: rate limited"), want: "Failed: openai: rate limited"},
		{name: "first line only", err: errors.New("boom\nstack trace"), want: "Failed: boom"},
		{
			name: "masks url credentials",
			err:  errors.New(`connect postgres://app:hunter2@db:5432/portfolio failed`),
			want: "Failed: connect postgres://***@db:5432/portfolio failed",
		},
		{name: "caps length", err: errors.New(long), want: "Failed: " + long[:maxUpstreamMessage] + "..."},
		{name: "blank detail", err: errors.New("  "), want: "Failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := UpstreamMessage("Failed", tc.err); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestUpstreamWrites500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		Upstream(c, "Failed to load", errors.New("timeout"))
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/x", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Failed to load: timeout" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}
