// Package response writes JSON bodies and maps service errors to HTTP
// statuses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"taskmanager/backend/app/services"
	"taskmanager/backend/global"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Detail(w http.ResponseWriter, status int, detail string) {
	JSON(w, status, errorBody{Detail: detail})
}

// Status maps err onto an HTTP status and a short message.
func Status(err error) (int, string) {
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Detail()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest, "Username or email already exists"
	case errors.Is(err, services.ErrAdminRequired):
		return http.StatusForbidden, "Admin access required"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "Permission denied"
	case errors.Is(err, services.ErrInactiveUser):
		return http.StatusUnauthorized, "User is inactive"
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, services.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, detail := Status(err)
	if status >= http.StatusInternalServerError {
		global.Logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	Detail(w, status, detail)
}
