package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskSelect = `SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
		t.assigned_to, COALESCE(a.name, ''), COALESCE(a.email, ''),
		t.project_id, t.created_by, COALESCE(c.name, ''), COALESCE(c.email, ''),
		t.created_at, t.updated_at
	FROM tasks t
	LEFT JOIN users a ON a.id = t.assigned_to
	LEFT JOIN users c ON c.id = t.created_by`

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, title, description, status, priority, due_date,
				assigned_to, project_id, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.DueDate,
		nullableID(t.AssigneeID()),
		t.Project,
		t.CreatedBy.ID,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFoundOr(err, "task")
	}
	return t, nil
}

// Update overwrites every mutable column. Concurrent writers are last-write-wins.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, status = $3, priority = $4,
		     due_date = $5, assigned_to = $6, updated_at = $7
		 WHERE id = $8`,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.DueDate,
		nullableID(t.AssigneeID()),
		t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("task not found")
	}
	return nil
}

// ListByProject returns the project's tasks, newest first.
func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, taskSelect+` WHERE t.project_id = $1 ORDER BY t.created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// DeleteCascade removes the task's comments and then the task in one transaction.
func (r *TaskRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE task_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("task not found")
	}
	return tx.Commit(ctx)
}

func (r *TaskRepository) CountByStatus(ctx context.Context, projectID string) ([]domain.GroupCount, error) {
	return r.groupCount(ctx, `SELECT status, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY status`, projectID)
}

func (r *TaskRepository) CountByPriority(ctx context.Context, projectID string) ([]domain.GroupCount, error) {
	return r.groupCount(ctx, `SELECT priority, COUNT(*) FROM tasks WHERE project_id = $1 GROUP BY priority`, projectID)
}

func (r *TaskRepository) groupCount(ctx context.Context, sql string, projectID string) ([]domain.GroupCount, error) {
	rows, err := r.db.Query(ctx, sql, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.GroupCount
	for rows.Next() {
		var g domain.GroupCount
		var n int64
		if err := rows.Scan(&g.Key, &n); err != nil {
			return nil, err
		}
		g.Count = int(n)
		res = append(res, g)
	}
	return res, rows.Err()
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                           domain.Task
		status, priority            string
		assigneeID                  *string
		assigneeName, assigneeEmail string
	)
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&status,
		&priority,
		&t.DueDate,
		&assigneeID,
		&assigneeName,
		&assigneeEmail,
		&t.Project,
		&t.CreatedBy.ID,
		&t.CreatedBy.Name,
		&t.CreatedBy.Email,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Status = domain.Status(status)
	t.Priority = domain.Priority(priority)
	if assigneeID != nil {
		t.AssignedTo = &domain.UserRef{ID: *assigneeID, Name: assigneeName, Email: assigneeEmail}
	}
	return &t, nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
