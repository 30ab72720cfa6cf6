package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Task struct {
	ID          string    `gorm:"primaryKey;size:36" bson:"id"`
	Title       string    `gorm:"size:255;not null" bson:"title"`
	Description string    `gorm:"type:text" bson:"description"`
	AssignedTo  string    `gorm:"size:36;index;not null" bson:"assigned_to"`
	AssignedBy  string    `gorm:"size:36;not null" bson:"assigned_by"`
	Status      string    `gorm:"size:32;index;not null;default:pending" bson:"status"`
	Deadline    time.Time `bson:"deadline"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// StatusCounts is a per-status tally over a set of tasks.
type StatusCounts struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
}
