package auth

import (
	"net/http"
	"strings"
)

// ExtractToken pulls the bearer token from a websocket handshake or plain
// HTTP request. The handshake query parameter takes precedence over the
// Authorization header, matching what the frontend sends.
func ExtractToken(r *http.Request, queryParam string) string {
	if r == nil {
		return ""
	}
	if queryParam == "" {
		queryParam = "token"
	}
	if r.URL != nil {
		if token := strings.TrimSpace(r.URL.Query().Get(queryParam)); token != "" {
			return token
		}
	}
	return ExtractBearerTokenFromHeader(r.Header.Get("Authorization"))
}

// ExtractBearerTokenFromHeader strips the "Bearer " prefix from an
// Authorization header value, returning "" when no bearer token is present.
func ExtractBearerTokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	const prefix = "bearer "
	if strings.HasPrefix(strings.ToLower(header), prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
