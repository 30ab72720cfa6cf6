package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskmanager/backend/app/models"
	"taskmanager/backend/app/repo"
	"taskmanager/backend/global"

	"github.com/google/uuid"
)

type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  string
	Deadline    time.Time
}

// UpdateTaskInput carries only the fields present in the request. There is
// no AssignedBy: it is fixed at creation.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	AssignedTo  *string
	Status      *string
	Deadline    *time.Time
}

func (in UpdateTaskInput) fields() repo.Fields {
	f := repo.Fields{}
	if in.Title != nil {
		f["title"] = *in.Title
	}
	if in.Description != nil {
		f["description"] = *in.Description
	}
	if in.AssignedTo != nil {
		f["assigned_to"] = *in.AssignedTo
	}
	if in.Status != nil {
		f["status"] = *in.Status
	}
	if in.Deadline != nil {
		f["deadline"] = in.Deadline.UTC()
	}
	return f
}

// TaskView is a task with its assignee and assigner resolved. Either user is
// nil when it no longer exists.
type TaskView struct {
	models.Task
	AssignedToUser *models.User
	AssignedByUser *models.User
}

type TaskService struct {
	tasks repo.TaskStore
	users repo.UserStore
	Now   func() time.Time
}

func NewTaskService(tasks repo.TaskStore, users repo.UserStore) *TaskService {
	return &TaskService{tasks: tasks, users: users, Now: time.Now}
}

func validStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusInProgress, models.StatusCompleted:
		return true
	}
	return false
}

func (s *TaskService) assignee(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("assigned user", id)
	}
	return u, err
}

// Create records a pending task assigned by admin. AssignedBy always comes
// from the authenticated admin.
func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, admin *models.User) (*TaskView, error) {
	if _, err := RequireAdmin(admin); err != nil {
		return nil, err
	}
	assigned, err := s.assignee(ctx, in.AssignedTo)
	if err != nil {
		return nil, err
	}
	now := s.Now().UTC()
	t := models.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		AssignedTo:  in.AssignedTo,
		AssignedBy:  admin.ID,
		Status:      models.StatusPending,
		Deadline:    in.Deadline.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Create(ctx, &t); err != nil {
		return nil, err
	}
	global.Logger.Info().Str("task_id", t.ID).Str("assigned_to", t.AssignedTo).Str("assigned_by", t.AssignedBy).Msg("task created")
	return &TaskView{Task: t, AssignedToUser: assigned, AssignedByUser: admin}, nil
}

// ListFor returns every task for admins and only the caller's own tasks for
// everyone else.
func (s *TaskService) ListFor(ctx context.Context, caller *models.User) ([]TaskView, error) {
	scope := caller.ID
	if caller.IsAdmin() {
		scope = ""
	}
	tasks, err := s.tasks.List(ctx, scope, ListLimit)
	if err != nil {
		return nil, err
	}
	r := newUserResolver(s.users)
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		v, err := r.view(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *TaskService) Update(ctx context.Context, id string, in UpdateTaskInput, caller *models.User) (*TaskView, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("task", id)
	}
	if err != nil {
		return nil, err
	}
	in, err = FilterTaskUpdate(caller, t, in)
	if err != nil {
		return nil, err
	}
	if in.Title != nil && *in.Title == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}
	if in.Status != nil && !validStatus(*in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
	}
	if in.AssignedTo != nil {
		if _, err := s.assignee(ctx, *in.AssignedTo); err != nil {
			return nil, err
		}
	}
	if fields := in.fields(); len(fields) > 0 {
		fields["updated_at"] = s.Now().UTC()
		if err := s.tasks.Update(ctx, id, fields); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, notFound("task", id)
			}
			return nil, err
		}
		if t, err = s.tasks.FindByID(ctx, id); err != nil {
			return nil, err
		}
	}
	v, err := newUserResolver(s.users).view(ctx, *t)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("task", id)
		}
		return err
	}
	global.Logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}

// userResolver memoizes user lookups while enriching a batch of tasks.
type userResolver struct {
	users repo.UserStore
	seen  map[string]*models.User
}

func newUserResolver(users repo.UserStore) *userResolver {
	return &userResolver{users: users, seen: map[string]*models.User{}}
}

func (r *userResolver) get(ctx context.Context, id string) (*models.User, error) {
	if u, ok := r.seen[id]; ok {
		return u, nil
	}
	u, err := r.users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		u, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.seen[id] = u
	return u, nil
}

func (r *userResolver) view(ctx context.Context, t models.Task) (TaskView, error) {
	to, err := r.get(ctx, t.AssignedTo)
	if err != nil {
		return TaskView{}, err
	}
	by, err := r.get(ctx, t.AssignedBy)
	if err != nil {
		return TaskView{}, err
	}
	return TaskView{Task: t, AssignedToUser: to, AssignedByUser: by}, nil
}
