package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	dirauth "github.com/fgjtam/dirauth"
)

type subjectIDContextKey struct{}

// SubjectIDFromContext returns the subject identifier injected by [Guard]
// for an authenticated request.
func SubjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(subjectIDContextKey{}).(string)
	return id, ok
}

// Guard wraps a handler with session enforcement. The bearer token must
// resolve to a live session bound to the request's client IP and
// User-Agent; anything else is a 401.
func Guard(engine *dirauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := dirauth.WithClientIP(r.Context(), clientIP(r))
			ctx = dirauth.WithUserAgent(ctx, r.UserAgent())

			subjectID, err := engine.ResolveSession(ctx, token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx = context.WithValue(ctx, subjectIDContextKey{}, subjectID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
