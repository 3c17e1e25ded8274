package dto

import (
	"strings"
	"time"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

const filterDateLayout = "2006-01-02"

// ParseTaskFilter builds a TaskFilter from raw query/form values. Date
// strings must be YYYY-MM-DD; anything unparseable is dropped and that
// bound is simply not applied.
func ParseTaskFilter(q, dateFrom, dateTo string) dom.TaskFilter {
	f := dom.TaskFilter{Q: strings.TrimSpace(q)}
	if d, err := time.ParseInLocation(filterDateLayout, strings.TrimSpace(dateFrom), time.UTC); err == nil {
		f.DateFrom = &d
	}
	if d, err := time.ParseInLocation(filterDateLayout, strings.TrimSpace(dateTo), time.UTC); err == nil {
		f.DateTo = &d
	}
	return f
}

// CreateTaskRequest is the JSON body for POST /api/tasks/. Field constraints
// are checked by the service, which reports them as a field-error map; the
// binding layer only decodes. There is no owner field: the owner is always
// the authenticated user.
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// UpdateTaskRequest is the JSON body for PUT/PATCH /api/tasks/{id}/.
// nil = leave unchanged, value = set.
type UpdateTaskRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// TaskResponse mirrors a task on the wire. user, created_at and updated_at
// are server-assigned and read-only.
type TaskResponse struct {
	ID          int64     `json:"id"`
	User        int64     `json:"user"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}
