package router

import (
	"net/http"

	"taskmanager/backend/app/controllers"
	"taskmanager/backend/app/middleware"
)

type Controllers struct {
	HTTP      *controllers.HTTPController
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Tasks     *controllers.TaskController
	Dashboard *controllers.DashboardController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, middleware.WithRoute(pattern, h))
	}
	authed := func(h http.HandlerFunc) http.Handler { return mw.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return mw.RequireAdmin(h) }

	// public
	handle("GET /{$}", http.HandlerFunc(c.HTTP.Root))
	handle("GET /healthz", http.HandlerFunc(c.HTTP.Health))
	handle("POST /api/auth/register", http.HandlerFunc(c.Auth.Register))
	handle("POST /api/auth/login", http.HandlerFunc(c.Auth.Login))

	handle("GET /api/auth/me", authed(c.Auth.Me))

	// user management (admin only)
	handle("GET /api/users", admin(c.Users.List))
	handle("POST /api/users", admin(c.Users.Create))
	handle("PUT /api/users/{id}", admin(c.Users.Update))
	handle("DELETE /api/users/{id}", admin(c.Users.Delete))

	// tasks: listing and updates are role-scoped, the rest is admin only
	handle("GET /api/tasks", authed(c.Tasks.List))
	handle("POST /api/tasks", admin(c.Tasks.Create))
	handle("PUT /api/tasks/{id}", authed(c.Tasks.Update))
	handle("DELETE /api/tasks/{id}", admin(c.Tasks.Delete))

	handle("GET /api/dashboard/stats", authed(c.Dashboard.Stats))

	return mux
}
