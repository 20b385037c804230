package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentRepository struct {
	db *pgxpool.Pool
}

func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

const commentSelect = `SELECT c.id, c.task_id, c.user_id, COALESCE(u.name, ''), COALESCE(u.email, ''),
		c.message, c.created_at, c.updated_at
	FROM comments c
	LEFT JOIN users u ON u.id = c.user_id`

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO comments (id, task_id, user_id, message, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Task, c.User.ID, c.Message, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFoundOr(err, "comment")
	}
	return c, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE comments SET message = $1, updated_at = $2 WHERE id = $3`,
		c.Message, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("comment not found")
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("comment not found")
	}
	return nil
}

// ListByTask returns the task's comments newest first, each joined with its
// author's name and email.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	rows, err := r.db.Query(ctx, commentSelect+` WHERE c.task_id = $1 ORDER BY c.created_at DESC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(
		&c.ID,
		&c.Task,
		&c.User.ID,
		&c.User.Name,
		&c.User.Email,
		&c.Message,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
