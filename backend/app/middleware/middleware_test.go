package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/backend/app/models"
	"taskmanager/backend/global"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearer(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		token, ok := bearer(r)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.token, token, tc.header)
	}
}

func TestRequireAuthMissingHeader(t *testing.T) {
	a := &Auth{}
	h := a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, rec.Body.String())
}

func TestLoggingRecordsRouteAndCaller(t *testing.T) {
	var buf bytes.Buffer
	prev := global.Logger
	global.Logger = zerolog.New(&buf).With().Caller().Logger()
	t.Cleanup(func() { global.Logger = prev })

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = WithCaller(r.Context(), &models.User{ID: "u-1"})
		w.WriteHeader(http.StatusTeapot)
	})
	h := Logging(WithRoute("GET /api/tasks", inner))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"route":"GET /api/tasks"`)
	assert.Contains(t, out, `"user_id":"u-1"`)
	assert.Contains(t, out, `"caller":"`)
	assert.NotContains(t, out, `"caller":"u-1"`)
	assert.Contains(t, out, `"status":418`)
}

func TestRecover(t *testing.T) {
	prev := global.Logger
	global.Logger = zerolog.Nop()
	t.Cleanup(func() { global.Logger = prev })

	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Internal server error"}`, rec.Body.String())
}

func TestGetCallerEmpty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetCaller(r.Context()))
}
