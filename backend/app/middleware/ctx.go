package middleware

import (
	"context"
	"net/http"

	"taskmanager/backend/app/models"
)

type ctxKey int

const (
	callerKey ctxKey = iota + 1
	infoKey
)

// requestInfo is shared between the logging middleware and the handlers it
// wraps so the access log can name the route and the caller.
type requestInfo struct {
	route    string
	callerID string
}

// WithRoute records the matched route pattern for the access log.
func WithRoute(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
			info.route = pattern
		}
		next.ServeHTTP(w, r)
	})
}

func WithCaller(ctx context.Context, u *models.User) context.Context {
	if info, ok := ctx.Value(infoKey).(*requestInfo); ok {
		info.callerID = u.ID
	}
	return context.WithValue(ctx, callerKey, u)
}

func GetCaller(ctx context.Context) *models.User {
	if v := ctx.Value(callerKey); v != nil {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
