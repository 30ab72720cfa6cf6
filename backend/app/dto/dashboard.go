package dto

import "taskmanager/backend/app/services"

type AdminStatsResponse struct {
	TotalUsers      int64 `json:"total_users"`
	TotalTasks      int64 `json:"total_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

type UserStatsResponse struct {
	MyTasks         int64 `json:"my_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
}

// NewStatsResponse picks the admin or the "my tasks" shape.
func NewStatsResponse(s *services.Stats) any {
	if s.Admin {
		return AdminStatsResponse{
			TotalUsers:      s.TotalUsers,
			TotalTasks:      s.Tasks.Total,
			PendingTasks:    s.Tasks.Pending,
			InProgressTasks: s.Tasks.InProgress,
			CompletedTasks:  s.Tasks.Completed,
		}
	}
	return UserStatsResponse{
		MyTasks:         s.Tasks.Total,
		PendingTasks:    s.Tasks.Pending,
		InProgressTasks: s.Tasks.InProgress,
		CompletedTasks:  s.Tasks.Completed,
	}
}
