package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// ExtractToken returns the bearer token of the Authorization header or, when
// absent, the queryParam query value ("token" by default). Websocket clients
// use the query form.
func ExtractToken(r *http.Request, queryParam string) string {
	if r == nil {
		return ""
	}
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if queryParam == "" {
		queryParam = "token"
	}
	if r.URL == nil {
		return ""
	}
	return strings.TrimSpace(r.URL.Query().Get(queryParam))
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
