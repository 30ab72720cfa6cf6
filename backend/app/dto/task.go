package dto

import (
	"time"

	"taskmanager/backend/app/services"
)

type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to" validate:"required"`
	Deadline    Timestamp `json:"deadline" validate:"required"`
}

// UpdateTaskRequest fields are all optional; assigned_by is not accepted.
// Values are checked by the task service after the caller's field filter, so
// a non-owner is refused and an owner's extra fields are dropped whatever
// they contain.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	Status      *string    `json:"status"`
	Deadline    *Timestamp `json:"deadline"`
}

func (r UpdateTaskRequest) Input() services.UpdateTaskInput {
	in := services.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		AssignedTo:  r.AssignedTo,
		Status:      r.Status,
	}
	if r.Deadline != nil {
		t := r.Deadline.Time
		in.Deadline = &t
	}
	return in
}

type TaskResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	AssignedTo     string        `json:"assigned_to"`
	AssignedBy     string        `json:"assigned_by"`
	AssignedToUser *UserResponse `json:"assigned_to_user"`
	AssignedByUser *UserResponse `json:"assigned_by_user"`
	Status         string        `json:"status"`
	Deadline       time.Time     `json:"deadline"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

func NewTaskResponse(v *services.TaskView) TaskResponse {
	r := TaskResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		AssignedTo:  v.AssignedTo,
		AssignedBy:  v.AssignedBy,
		Status:      v.Status,
		Deadline:    v.Deadline,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	if v.AssignedToUser != nil {
		u := NewUserResponse(v.AssignedToUser)
		r.AssignedToUser = &u
	}
	if v.AssignedByUser != nil {
		u := NewUserResponse(v.AssignedByUser)
		r.AssignedByUser = &u
	}
	return r
}

func NewTaskResponses(views []services.TaskView) []TaskResponse {
	out := make([]TaskResponse, 0, len(views))
	for i := range views {
		out = append(out, NewTaskResponse(&views[i]))
	}
	return out
}
