package domain

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Domain entity: the business object, independent of Gin, Postgres and Redis.
type Task struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	Status      Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskFilter narrows an owner-scoped task listing. Zero value means no
// filtering beyond ownership. DateFrom/DateTo are calendar dates and both
// boundaries are inclusive.
type TaskFilter struct {
	Q        string
	DateFrom *time.Time
	DateTo   *time.Time
}
