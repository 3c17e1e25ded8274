package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/Gersa28/Invera-ToDo-List/internal/cache"
	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
	"github.com/Gersa28/Invera-ToDo-List/internal/repo"
)

const (
	maxNameLen        = 100
	maxDescriptionLen = 300
)

// TaskService applies validation and the ownership guard on top of TaskRepo.
// The owner always comes from the authenticated request, never from payload:
// none of the methods accept an owner inside the task data.
type TaskService struct {
	repo  repo.TaskRepo
	cache *cache.TaskCache
	log   *slog.Logger
	sf    singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, c *cache.TaskCache, log *slog.Logger) *TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &TaskService{repo: r, cache: c, log: log}
}

func validateTask(name, description string, status dom.Status) *ValidationError {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	} else if utf8.RuneCountInString(name) > maxNameLen {
		fields["name"] = "name must be at most 100 characters"
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		fields["description"] = "description must be at most 300 characters"
	}
	if !status.Valid() {
		fields["status"] = "status must be one of not_started, in_progress, completed"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create validates and inserts a task owned by userID. An empty status
// defaults to not_started. created_at and updated_at are stamped by the
// insert and start out equal.
func (s *TaskService) Create(ctx context.Context, userID int64, name, description string, status dom.Status) (dom.Task, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if status == "" {
		status = dom.StatusNotStarted
	}
	if ve := validateTask(name, description, status); ve != nil {
		s.log.Warn("task create rejected", "user_id", userID, "fields", ve.Fields)
		return dom.Task{}, ve
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      status,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.log.Info("task created", "user_id", userID, "task_id", t.ID)
	s.invalidateCache(ctx, userID)
	return t, nil
}

// List returns the tasks visible to userID under f, ordered by id. Read-only;
// an empty result is a successful result.
func (s *TaskService) List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error) {
	if s.cache != nil {
		key := cache.Key(userID, f)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.Get(ctx, key); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID, f)
			if err != nil {
				return nil, err
			}
			_ = s.cache.Set(ctx, key, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID, f)
}

func (s *TaskService) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update applies only the non-nil fields to the task, re-validates and stamps
// updated_at. The lookup is owner-scoped: a task owned by another user fails
// with ErrNotFound exactly like a missing id. created_at and the owner are
// never touched.
func (s *TaskService) Update(ctx context.Context, userID, id int64, name *string, description *string, status *dom.Status) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if name != nil {
		patch.Name = strings.TrimSpace(*name)
	}
	if description != nil {
		patch.Description = strings.TrimSpace(*description)
	}
	if status != nil {
		patch.Status = *status
	}
	if ve := validateTask(patch.Name, patch.Description, patch.Status); ve != nil {
		return dom.Task{}, ve
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.log.Info("task updated", "user_id", userID, "task_id", id)
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task. Not idempotent-success: deleting an id that is
// already gone (or never was this user's) fails with ErrNotFound.
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	n, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Info("task deleted", "user_id", userID, "task_id", id)
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
