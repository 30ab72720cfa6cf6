package repo

import (
	"context"
	"errors"

	"taskmanager/backend/app/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Fields is a partial update keyed by column/document field name.
// Values are string, bool or time.Time.
type Fields map[string]any

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Taken reports whether another user (not excludeID) already holds the
	// username or email. Empty arguments are not checked.
	Taken(ctx context.Context, username, email, excludeID string) (bool, error)
	ExistsByRole(ctx context.Context, role string) (bool, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type TaskStore interface {
	Create(ctx context.Context, t *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	// List returns tasks assigned to assignedTo, or every task when it is empty.
	List(ctx context.Context, assignedTo string, limit int) ([]models.Task, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context, assignedTo string) (models.StatusCounts, error)
}

// Store bundles the two collections of one backend.
type Store struct {
	Users UserStore
	Tasks TaskStore

	ping  func(context.Context) error
	close func() error
}

func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func tally(c *models.StatusCounts, status string, n int64) {
	c.Total += n
	switch status {
	case models.StatusPending:
		c.Pending += n
	case models.StatusInProgress:
		c.InProgress += n
	case models.StatusCompleted:
		c.Completed += n
	}
}
