package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// UnknownClient describes a request that sent no User-Agent.
const UnknownClient = "unknown"

type contextKeyClient struct{}

// ClientMetadata stores a short description of the calling client, derived
// from its User-Agent, so admin declarations can be attributed in logs.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), contextKeyClient{}, DescribeClient(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DescribeClient renders a User-Agent as "browser version on os".
func DescribeClient(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UnknownClient
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	desc := strings.TrimSpace(name + " " + version)
	if desc == "" {
		desc = raw
	}
	if os := ua.OS(); os != "" {
		desc += " on " + os
	}
	if ua.Bot() {
		desc += " (bot)"
	}
	return desc
}

// GetClient retrieves the client description from the context
func GetClient(ctx context.Context) string {
	client, ok := ctx.Value(contextKeyClient{}).(string)
	if !ok {
		return UnknownClient
	}
	return client
}
