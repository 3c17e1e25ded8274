package repo

import (
	"context"
	"strconv"

	dom "github.com/Gersa28/Invera-ToDo-List/internal/domain"
)

// TaskRepo provides task persistence. Every method that touches an existing
// row takes the owner's userID and scopes the statement to it: a row owned by
// another user is indistinguishable from a row that does not exist.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error)
	Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id int64) (int64, error)
}

type PGTaskRepo struct {
	db DB
}

func NewPGTaskRepo(db DB) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, name, description, status, created_at, updated_at`

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, name, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + taskColumns
	var out dom.Task
	err := r.db.QueryRow(ctx, query, t.UserID, t.Name, t.Description, t.Status).Scan(
		&out.ID, &out.UserID, &out.Name, &out.Description, &out.Status,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Description, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// List returns the owner's tasks, narrowed by f. The user_id predicate is
// unconditional; filters are AND-ed on top and can only narrow the set.
// Date boundaries compare calendar dates and are inclusive on both ends.
// Ordered by id ascending so results are deterministic.
func (r *PGTaskRepo) List(ctx context.Context, userID int64, f dom.TaskFilter) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []any{userID}

	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		n := strconv.Itoa(len(args))
		query += ` AND (name ILIKE $` + n + ` OR description ILIKE $` + n + `)`
	}
	if f.DateFrom != nil {
		args = append(args, *f.DateFrom)
		query += ` AND created_at::date >= $` + strconv.Itoa(len(args)) + `::date`
	}
	if f.DateTo != nil {
		args = append(args, *f.DateTo)
		query += ` AND created_at::date <= $` + strconv.Itoa(len(args)) + `::date`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.Status,
			&t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks SET name = $3, description = $4, status = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID, patch.Name, patch.Description, patch.Status).Scan(
		&t.ID, &t.UserID, &t.Name, &t.Description, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Delete removes the row and reports how many rows were affected. 0 means
// the id does not exist for this owner.
func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
