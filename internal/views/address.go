package views

import (
	"net"
	"net/http"
	"strings"
)

// ClientAddress resolves the viewer's address from proxy headers, falling
// back to the connection's remote host and finally to UnknownAddress.
func ClientAddress(r *http.Request) string {
	if r == nil {
		return UnknownAddress
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}
	for _, h := range []string{"X-Real-IP", "CF-Connecting-IP"} {
		if addr := strings.TrimSpace(r.Header.Get(h)); addr != "" {
			return addr
		}
	}
	if remote := strings.TrimSpace(r.RemoteAddr); remote != "" {
		host, _, err := net.SplitHostPort(remote)
		if err != nil {
			return remote
		}
		if host != "" {
			return host
		}
	}
	return UnknownAddress
}
