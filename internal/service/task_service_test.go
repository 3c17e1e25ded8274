package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

// -------- test fakes --------

// fakeTaskRepo is an in-memory TaskRepo honoring the same owner-scoping and
// filter semantics as the Postgres implementation.
type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]dom.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]dom.Task{}}
}

// seed inserts a task as-is, keeping the caller's timestamps.
func (f *fakeTaskRepo) seed(t dom.Task) dom.Task {
	f.nextID++
	t.ID = f.nextID
	f.tasks[t.ID] = t
	return t
}

func (f *fakeTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return f.seed(t), nil
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTaskRepo) List(ctx context.Context, userID int64, filter dom.TaskFilter) ([]dom.Task, error) {
	var list []dom.Task
	for _, t := range f.tasks {
		if t.UserID != userID {
			continue
		}
		if filter.Q != "" {
			q := strings.ToLower(filter.Q)
			if !strings.Contains(strings.ToLower(t.Name), q) &&
				!strings.Contains(strings.ToLower(t.Description), q) {
				continue
			}
		}
		day := dateOnly(t.CreatedAt)
		if filter.DateFrom != nil && day.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && day.After(*filter.DateTo) {
			continue
		}
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (f *fakeTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Name = patch.Name
	t.Description = patch.Description
	t.Status = patch.Status
	t.UpdatedAt = time.Now().UTC()
	f.tasks[id] = t
	return t, nil
}

func (f *fakeTaskRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return 0, nil
	}
	delete(f.tasks, t.ID)
	return 1, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(s string) *time.Time {
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return &d
}

// -------- tests --------

func TestCreate_Validation(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		taskName    string
		description string
		status      dom.Status
		wantField   string
	}{
		{"empty name", "", "d", dom.StatusNotStarted, "name"},
		{"blank name", "   ", "d", dom.StatusNotStarted, "name"},
		{"name too long", strings.Repeat("x", 101), "", dom.StatusNotStarted, "name"},
		{"description too long", "ok", strings.Repeat("y", 301), dom.StatusNotStarted, "description"},
		{"unknown status", "ok", "", dom.Status("done"), "status"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, 1, tc.taskName, tc.description, tc.status)
			ve := AsValidation(err)
			require.NotNil(t, ve, "expected validation error, got %v", err)
			assert.Contains(t, ve.Fields, tc.wantField)
		})
	}
	assert.Empty(t, repo.tasks, "validation failures must not write anything")
}

func TestCreate_DefaultsAndStamps(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)

	before := time.Now().UTC()
	created, err := svc.Create(context.Background(), 7, "Task 1", "d", "")
	require.NoError(t, err)

	assert.Equal(t, int64(7), created.UserID)
	assert.Equal(t, dom.StatusNotStarted, created.Status)
	assert.False(t, created.CreatedAt.Before(before))
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := svc.GetByID(context.Background(), 7, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Task 1", got.Name)
	assert.Equal(t, "d", got.Description)
	assert.Equal(t, dom.StatusNotStarted, got.Status)
}

func TestCreate_BoundaryLengthsAccepted(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)

	_, err := svc.Create(context.Background(), 1,
		strings.Repeat("n", 100), strings.Repeat("d", 300), dom.StatusInProgress)
	require.NoError(t, err)
}

func TestList_OwnerScope(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	mine := repo.seed(dom.Task{UserID: 1, Name: "mine", Status: dom.StatusNotStarted})
	repo.seed(dom.Task{UserID: 2, Name: "theirs", Status: dom.StatusNotStarted})

	list, err := svc.List(ctx, 1, dom.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	// Unknown owner sees nothing; empty is a successful result.
	list, err = svc.List(ctx, 99, dom.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_SearchFilter(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	byName := repo.seed(dom.Task{UserID: 1, Name: "Buy Groceries", Status: dom.StatusNotStarted})
	byDesc := repo.seed(dom.Task{UserID: 1, Name: "other", Description: "weekly GROCERY run", Status: dom.StatusNotStarted})
	repo.seed(dom.Task{UserID: 1, Name: "laundry", Description: "whites", Status: dom.StatusNotStarted})
	repo.seed(dom.Task{UserID: 2, Name: "grocer visit", Status: dom.StatusNotStarted})

	list, err := svc.List(ctx, 1, dom.TaskFilter{Q: "groCer"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, byName.ID, list[0].ID)
	assert.Equal(t, byDesc.ID, list[1].ID)
}

func TestList_DateRangeInclusive(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	day := func(s string, hour int) time.Time {
		d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
		require.NoError(t, err)
		return d.Add(time.Duration(hour) * time.Hour)
	}
	early := repo.seed(dom.Task{UserID: 1, Name: "early", Status: dom.StatusNotStarted, CreatedAt: day("2024-03-01", 9)})
	onFrom := repo.seed(dom.Task{UserID: 1, Name: "on from", Status: dom.StatusNotStarted, CreatedAt: day("2024-03-10", 23)})
	mid := repo.seed(dom.Task{UserID: 1, Name: "mid", Status: dom.StatusNotStarted, CreatedAt: day("2024-03-15", 0)})
	onTo := repo.seed(dom.Task{UserID: 1, Name: "on to", Status: dom.StatusNotStarted, CreatedAt: day("2024-03-20", 0)})
	repo.seed(dom.Task{UserID: 1, Name: "late", Status: dom.StatusNotStarted, CreatedAt: day("2024-03-21", 1)})

	list, err := svc.List(ctx, 1, dom.TaskFilter{
		DateFrom: datePtr("2024-03-10"),
		DateTo:   datePtr("2024-03-20"),
	})
	require.NoError(t, err)
	ids := make([]int64, len(list))
	for i, tk := range list {
		ids[i] = tk.ID
	}
	assert.Equal(t, []int64{onFrom.ID, mid.ID, onTo.ID}, ids)
	assert.NotContains(t, ids, early.ID)
}

func TestList_FiltersIntersect(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	inWindow := repo.seed(dom.Task{UserID: 1, Name: "report draft", Status: dom.StatusNotStarted, CreatedAt: *datePtr("2024-03-15")})
	repo.seed(dom.Task{UserID: 1, Name: "report final", Status: dom.StatusNotStarted, CreatedAt: *datePtr("2024-05-01")})

	list, err := svc.List(ctx, 1, dom.TaskFilter{
		Q:        "report",
		DateFrom: datePtr("2024-03-01"),
		DateTo:   datePtr("2024-03-31"),
	})
	require.NoError(t, err)
	require.Len(t, list, 1, "a task matching q but outside the window must be excluded")
	assert.Equal(t, inWindow.ID, list[0].ID)
}

func TestUpdate_OwnershipGuard(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	theirs := repo.seed(dom.Task{UserID: 2, Name: "original", Description: "keep", Status: dom.StatusNotStarted})

	name := "hijacked"
	_, err := svc.Update(ctx, 1, theirs.ID, &name, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound, "foreign task must look nonexistent")

	unchanged := repo.tasks[theirs.ID]
	assert.Equal(t, "original", unchanged.Name)
	assert.Equal(t, "keep", unchanged.Description)
	assert.Equal(t, int64(2), unchanged.UserID)
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "Task 1", "d", dom.StatusInProgress)
	require.NoError(t, err)

	status := dom.StatusCompleted
	updated, err := svc.Update(ctx, 1, created.ID, nil, nil, &status)
	require.NoError(t, err)

	assert.Equal(t, "Task 1", updated.Name, "absent fields stay untouched")
	assert.Equal(t, "d", updated.Description)
	assert.Equal(t, dom.StatusCompleted, updated.Status)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
}

func TestUpdate_Revalidates(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "ok", "", "")
	require.NoError(t, err)

	long := strings.Repeat("x", 101)
	_, err = svc.Update(ctx, 1, created.ID, &long, nil, nil)
	ve := AsValidation(err)
	require.NotNil(t, ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Equal(t, "ok", repo.tasks[created.ID].Name)
}

func TestDelete_NotIdempotent(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, "gone soon", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, 1, created.ID), ErrNotFound,
		"second delete must report absence, not silent success")
}

func TestDelete_OwnershipGuard(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)
	ctx := context.Background()

	theirs := repo.seed(dom.Task{UserID: 2, Name: "theirs", Status: dom.StatusNotStarted})

	assert.ErrorIs(t, svc.Delete(ctx, 1, theirs.ID), ErrNotFound)
	_, ok := repo.tasks[theirs.ID]
	assert.True(t, ok, "foreign task must survive")
}

func TestGetByID_NotOwner(t *testing.T) {
	repo := newFakeTaskRepo()
	svc := NewTaskService(repo, nil, nil)

	theirs := repo.seed(dom.Task{UserID: 2, Name: "hidden", Status: dom.StatusNotStarted})

	_, err := svc.GetByID(context.Background(), 1, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
