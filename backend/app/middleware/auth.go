package middleware

import (
	"net/http"
	"strings"

	"taskmanager/backend/app/response"
	"taskmanager/backend/app/services"
)

type Auth struct{ Policy *services.AccessPolicy }

func bearer(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authz, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (a *Auth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			response.Detail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		caller, err := a.Policy.ResolveCaller(r.Context(), token)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := services.RequireAdmin(GetCaller(r.Context())); err != nil {
			response.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
