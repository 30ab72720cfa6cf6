package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmanager/backend/app/dto"
	"taskmanager/backend/app/password"
	"taskmanager/backend/config"
	"taskmanager/backend/initialize"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type APISuite struct {
	suite.Suite
	app *initialize.App
	srv *httptest.Server
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupSuite() {
	password.Cost = bcrypt.MinCost
}

func (s *APISuite) SetupTest() {
	cfg, err := config.Load("", nil)
	s.Require().NoError(err)
	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = ":memory:"

	store, err := initialize.OpenStore(context.Background(), cfg.Store)
	s.Require().NoError(err)
	s.app = initialize.Build(cfg, store)
	s.Require().NoError(s.app.Seed(context.Background()))
	s.srv = httptest.NewServer(s.app.Router)
}

func (s *APISuite) TearDownTest() {
	s.srv.Close()
	_ = s.app.Store.Close()
}

func (s *APISuite) do(method, path, token string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.srv.URL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *APISuite) login(username, pw string) (string, dto.UserResponse) {
	var tok dto.TokenResponse
	code := s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: pw}, &tok)
	s.Require().Equal(http.StatusOK, code)
	s.Require().Equal("bearer", tok.TokenType)
	s.Require().NotEmpty(tok.AccessToken)
	return tok.AccessToken, tok.User
}

func (s *APISuite) register(username string) dto.UserResponse {
	var u dto.UserResponse
	code := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: username, Email: username + "@example.com", FullName: username, Password: username + "-pw",
	}, &u)
	s.Require().Equal(http.StatusOK, code)
	return u
}

func (s *APISuite) TestRootAndHealth() {
	var msg dto.MessageResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/", "", nil, &msg))
	s.Equal("Welcome to my API!", msg.Message)

	var health map[string]string
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil, &health))
	s.Equal("ok", health["status"])
}

func (s *APISuite) TestRegisterNeverLeaksHash() {
	req, err := http.NewRequest(http.MethodPost, s.srv.URL+"/api/auth/register",
		bytes.NewBufferString(`{"username":"ann","email":"ann@example.com","full_name":"Ann","password":"pw"}`))
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var raw map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&raw))
	s.NotContains(raw, "password")
	s.NotContains(raw, "hashed_password")
	s.NotContains(raw, "password_hash")
	s.Equal("user", raw["role"])
	s.Equal(true, raw["is_active"])

	var e dto.ErrorResponse
	code := s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "ann", Email: "other@example.com", FullName: "x", Password: "pw",
	}, &e)
	s.Equal(http.StatusBadRequest, code)
	s.Equal("Username or email already exists", e.Detail)
}

func (s *APISuite) TestRegisterValidation() {
	var e dto.ErrorResponse
	code := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{"username": "x"}, &e)
	s.Equal(http.StatusUnprocessableEntity, code)
	s.Contains(e.Detail, "email: required")
	s.NotContains(e.Detail, "Key:")

	code = s.do(http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "x", Email: "x@example.com", FullName: "x", Password: "pw", Role: "root",
	}, &e)
	s.Equal(http.StatusUnprocessableEntity, code)
	s.Equal("validation failed: role: oneof=admin user", e.Detail)
}

func (s *APISuite) TestLoginAndMe() {
	token, user := s.login("admin", "admin123")
	s.Equal("admin", user.Role)

	var me dto.UserResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/auth/me", token, nil, &me))
	s.Equal(user.ID, me.ID)
	s.Equal("System Administrator", me.FullName)

	var e dto.ErrorResponse
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "bad"}, &e))
	s.Equal("Invalid credentials", e.Detail)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "", nil, &e))
	s.Equal("Not authenticated", e.Detail)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", "garbage", nil, &e))
	s.Equal("Invalid token", e.Detail)
}

func (s *APISuite) TestInactiveLogin() {
	adminTok, _ := s.login("admin", "admin123")
	u := s.register("ivan")
	userTok, _ := s.login("ivan", "ivan-pw")

	var updated dto.UserResponse
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/api/users/"+u.ID, adminTok, map[string]any{"is_active": false}, &updated))
	s.False(updated.IsActive)

	var e dto.ErrorResponse
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "ivan", Password: "ivan-pw"}, &e))
	s.Equal("User is inactive", e.Detail)

	// tokens issued before deactivation keep working
	var me dto.UserResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/auth/me", userTok, nil, &me))
	s.False(me.IsActive)
}

func (s *APISuite) TestUserManagementAdminOnly() {
	adminTok, _ := s.login("admin", "admin123")
	s.register("jane")
	userTok, _ := s.login("jane", "jane-pw")

	var e dto.ErrorResponse
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/api/users", userTok, nil, &e))
	s.Equal("Admin access required", e.Detail)
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/api/tasks", userTok, map[string]any{}, &e))

	var created dto.UserResponse
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/users", adminTok, dto.CreateUserRequest{
		Username: "kim", Email: "kim@example.com", FullName: "Kim", Password: "pw", Role: "admin",
	}, &created))
	s.Equal("admin", created.Role)

	var users []dto.UserResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/users", adminTok, nil, &users))
	s.Len(users, 3)

	var msg dto.MessageResponse
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/users/"+created.ID, adminTok, nil, &msg))
	s.Equal("User deleted successfully", msg.Message)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/users/"+created.ID, adminTok, nil, &e))
	s.Equal("User not found", e.Detail)
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/users/missing", adminTok, map[string]any{"full_name": "x"}, &e))
}

func (s *APISuite) TestTaskFlow() {
	adminTok, _ := s.login("admin", "admin123")
	bob := s.register("bob")
	s.register("carl")
	bobTok, _ := s.login("bob", "bob-pw")
	carlTok, _ := s.login("carl", "carl-pw")

	var task dto.TaskResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/tasks", adminTok, map[string]any{
		"title":       "Quarterly report",
		"description": "Numbers for Q3",
		"assigned_to": bob.ID,
		"deadline":    "2026-11-30T17:00:00",
	}, &task))
	s.Equal("pending", task.Status)
	s.Require().NotNil(task.AssignedToUser)
	s.Equal("bob", task.AssignedToUser.Username)
	s.Require().NotNil(task.AssignedByUser)
	s.Equal("admin", task.AssignedByUser.Username)

	var e dto.ErrorResponse
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/tasks", adminTok, map[string]any{
		"title": "x", "assigned_to": "nobody", "deadline": "2026-11-30",
	}, &e))
	s.Equal("Assigned user not found", e.Detail)

	var list []dto.TaskResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/tasks", bobTok, nil, &list))
	s.Len(list, 1)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/tasks", carlTok, nil, &list))
	s.Empty(list)

	var updated dto.TaskResponse
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/api/tasks/"+task.ID, bobTok, map[string]any{
		"title": "renamed", "status": "in_progress",
	}, &updated))
	s.Equal("Quarterly report", updated.Title)
	s.Equal("in_progress", updated.Status)

	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/api/tasks/"+task.ID, carlTok, map[string]any{"status": "completed"}, &e))
	s.Equal("Permission denied", e.Detail)
	s.Equal(http.StatusUnprocessableEntity, s.do(http.MethodPut, "/api/tasks/"+task.ID, bobTok, map[string]any{"status": "done"}, &e))
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/tasks/missing", adminTok, map[string]any{"status": "completed"}, &e))
	s.Equal("Task not found", e.Detail)

	var bobStats dto.UserStatsResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/dashboard/stats", bobTok, nil, &bobStats))
	s.Equal(dto.UserStatsResponse{MyTasks: 1, InProgressTasks: 1}, bobStats)

	var adminStats dto.AdminStatsResponse
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/api/dashboard/stats", adminTok, nil, &adminStats))
	s.Equal(dto.AdminStatsResponse{TotalUsers: 3, TotalTasks: 1, InProgressTasks: 1}, adminStats)

	s.Equal(http.StatusForbidden, s.do(http.MethodDelete, "/api/tasks/"+task.ID, bobTok, nil, &e))
	var msg dto.MessageResponse
	s.Equal(http.StatusOK, s.do(http.MethodDelete, "/api/tasks/"+task.ID, adminTok, nil, &msg))
	s.Equal("Task deleted successfully", msg.Message)
	s.Equal(http.StatusNotFound, s.do(http.MethodDelete, "/api/tasks/"+task.ID, adminTok, nil, &e))
}

func (s *APISuite) TestTaskUpdateChecksOwnershipBeforeValues() {
	adminTok, _ := s.login("admin", "admin123")
	owner := s.register("olga")
	s.register("pete")
	ownerTok, _ := s.login("olga", "olga-pw")
	otherTok, _ := s.login("pete", "pete-pw")

	var task dto.TaskResponse
	s.Require().Equal(http.StatusOK, s.do(http.MethodPost, "/api/tasks", adminTok, map[string]any{
		"title": "Inventory", "assigned_to": owner.ID, "deadline": "2026-12-01",
	}, &task))

	var e dto.ErrorResponse
	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/api/tasks/"+task.ID, otherTok, map[string]any{"status": "bogus"}, &e))
	s.Equal("Permission denied", e.Detail)
	s.Equal(http.StatusForbidden, s.do(http.MethodPut, "/api/tasks/"+task.ID, otherTok, map[string]any{"assigned_to": ""}, &e))
	s.Equal("Permission denied", e.Detail)

	var updated dto.TaskResponse
	s.Equal(http.StatusOK, s.do(http.MethodPut, "/api/tasks/"+task.ID, ownerTok, map[string]any{
		"status": "completed", "assigned_to": "", "title": "",
	}, &updated))
	s.Equal("completed", updated.Status)
	s.Equal(owner.ID, updated.AssignedTo)
	s.Equal("Inventory", updated.Title)

	s.Equal(http.StatusUnprocessableEntity, s.do(http.MethodPut, "/api/tasks/"+task.ID, adminTok, map[string]any{"status": "bogus"}, &e))
	s.Contains(e.Detail, "unknown status")
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/api/tasks/"+task.ID, adminTok, map[string]any{"assigned_to": ""}, &e))
	s.Equal(http.StatusUnprocessableEntity, s.do(http.MethodPut, "/api/tasks/"+task.ID, adminTok, map[string]any{"title": ""}, &e))
	s.Contains(e.Detail, "title")
}

func (s *APISuite) TestCORSPreflight() {
	req, err := http.NewRequest(http.MethodOptions, s.srv.URL+"/api/tasks", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.NotEmpty(resp.Header.Get("Access-Control-Allow-Origin"))
}

func (s *APISuite) TestCORSAllowList() {
	cfg := s.app.Cfg
	cfg.HTTP.CORSOrigins = []string{"http://app.example.com"}
	srv := httptest.NewServer(initialize.Build(&cfg, s.app.Store).Router)
	defer srv.Close()

	preflight := func(origin string) *http.Response {
		req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks", nil)
		s.Require().NoError(err)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		resp.Body.Close()
		return resp
	}

	resp := preflight("http://app.example.com")
	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Equal("http://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	s.Equal("true", resp.Header.Get("Access-Control-Allow-Credentials"))
	s.Contains(resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)

	resp = preflight("http://evil.example.com")
	s.Empty(resp.Header.Get("Access-Control-Allow-Origin"))
	s.Empty(resp.Header.Get("Access-Control-Allow-Credentials"))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "http://app.example.com")
	get, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	get.Body.Close()
	s.Equal(http.StatusOK, get.StatusCode)
	s.Equal("http://app.example.com", get.Header.Get("Access-Control-Allow-Origin"))
}
