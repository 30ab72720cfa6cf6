package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// User is the public user view returned by the API.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	AssignedTo     string    `json:"assigned_to"`
	AssignedToUser *User     `json:"assigned_to_user"`
	Status         string    `json:"status"`
	Deadline       time.Time `json:"deadline"`
}

// Stats holds either dashboard shape; MyTasks is set for plain users and
// TotalUsers/TotalTasks for admins.
type Stats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalTasks      int64 `json:"total_tasks"`
	MyTasks         int64 `json:"my_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

// APIError is a non-2xx response with its detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("http %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Detail, e.Status)
}

// Client talks to the task manager HTTP API and remembers the bearer token
// from the last successful login.
type Client struct {
	BaseURL string
	Token   string
	User    User
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Detail any `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		apiErr := &APIError{Status: resp.StatusCode}
		if e.Detail != nil {
			apiErr.Detail = fmt.Sprint(e.Detail)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		return User{}, err
	}
	c.Token = resp.AccessToken
	c.User = resp.User
	return resp.User, nil
}

func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &s); err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (c *Client) SetStatus(ctx context.Context, taskID, status string) (Task, error) {
	var t Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+taskID, map[string]string{"status": status}, &t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// NextStatus cycles pending -> in_progress -> completed -> pending.
func NextStatus(s string) string {
	switch s {
	case "pending":
		return "in_progress"
	case "in_progress":
		return "completed"
	}
	return "pending"
}
