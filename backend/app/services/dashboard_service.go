package services

import (
	"context"

	"taskmanager/backend/app/models"
	"taskmanager/backend/app/repo"
)

// Stats is a role-scoped summary. Admin stats cover every task and carry the
// user count; otherwise Tasks covers only the caller's tasks.
type Stats struct {
	Admin      bool
	TotalUsers int64
	Tasks      models.StatusCounts
}

type DashboardService struct {
	tasks repo.TaskStore
	users repo.UserStore
}

func NewDashboardService(tasks repo.TaskStore, users repo.UserStore) *DashboardService {
	return &DashboardService{tasks: tasks, users: users}
}

func (s *DashboardService) StatsFor(ctx context.Context, caller *models.User) (*Stats, error) {
	if !caller.IsAdmin() {
		counts, err := s.tasks.CountByStatus(ctx, caller.ID)
		if err != nil {
			return nil, err
		}
		return &Stats{Tasks: counts}, nil
	}
	counts, err := s.tasks.CountByStatus(ctx, "")
	if err != nil {
		return nil, err
	}
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Admin: true, TotalUsers: users, Tasks: counts}, nil
}
