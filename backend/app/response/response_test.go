package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/backend/app/services"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		detail string
	}{
		{fmt.Errorf("load: %w", &services.NotFoundError{Resource: "task", ID: "x"}), http.StatusNotFound, "Task not found"},
		{services.ErrConflict, http.StatusBadRequest, "Username or email already exists"},
		{services.ErrAdminRequired, http.StatusForbidden, "Admin access required"},
		{services.ErrForbidden, http.StatusForbidden, "Permission denied"},
		{services.ErrInactiveUser, http.StatusUnauthorized, "User is inactive"},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{services.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tc := range cases {
		status, detail := Status(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.detail, detail, tc.err.Error())
	}

	status, detail := Status(fmt.Errorf("%w: title is required", services.ErrValidation))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, detail, "title is required")
}

func TestErrorWritesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, httptest.NewRequest(http.MethodGet, "/", nil), services.ErrInvalidToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Invalid token"}`, rec.Body.String())
}
