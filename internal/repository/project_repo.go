package repository

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `p.id, p.name, p.description, p.owner_id,
		COALESCE(o.name, ''), COALESCE(o.email, ''), p.created_at, p.updated_at`

// Create inserts the project and its member list in one transaction.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Owner.ID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := insertMembers(ctx, tx, p.ID, p.MemberIDs()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByID returns the project with owner and members populated.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+projectColumns+`
		 FROM projects p
		 LEFT JOIN users o ON o.id = p.owner_id
		 WHERE p.id = $1`,
		id,
	)

	p, err := scanProject(row)
	if err != nil {
		return nil, notFoundOr(err, "project")
	}

	members, err := r.loadMembers(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Members = members[p.ID]
	return p, nil
}

// ListForUser returns projects owned by or shared with userID, newest first.
func (r *ProjectRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+projectColumns+`
		 FROM projects p
		 LEFT JOIN users o ON o.id = p.owner_id
		 WHERE p.owner_id = $1
		    OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1)
		 ORDER BY p.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Project
	var ids []string
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return res, nil
	}

	members, err := r.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range res {
		p.Members = members[p.ID]
	}
	return res, nil
}

// Update writes name, description and the member list. The owner column is
// never touched.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2, updated_at = $3 WHERE id = $4`,
		p.Name, p.Description, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("project not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, p.ID); err != nil {
		return err
	}
	if err := insertMembers(ctx, tx, p.ID, p.MemberIDs()); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteCascade removes the project's comments, tasks, members and finally the
// project row inside a single transaction, so no reader observes a deleted
// project with surviving tasks or the reverse.
func (r *ProjectRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	comments, err := tx.Exec(ctx,
		`DELETE FROM comments WHERE task_id IN (SELECT id FROM tasks WHERE project_id = $1)`, id)
	if err != nil {
		return err
	}
	tasks, err := tx.Exec(ctx, `DELETE FROM tasks WHERE project_id = $1`, id)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM project_members WHERE project_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("project not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	logger.Debug("project cascade deleted",
		"project_id", id,
		"tasks", tasks.RowsAffected(),
		"comments", comments.RowsAffected(),
	)
	return nil
}

func (r *ProjectRepository) loadMembers(ctx context.Context, projectIDs []string) (map[string][]domain.UserRef, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.project_id, m.user_id, COALESCE(u.name, ''), COALESCE(u.email, '')
		 FROM project_members m
		 LEFT JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = ANY($1)
		 ORDER BY m.project_id, m.position`,
		projectIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[string][]domain.UserRef, len(projectIDs))
	for _, id := range projectIDs {
		res[id] = []domain.UserRef{}
	}
	for rows.Next() {
		var projectID string
		var ref domain.UserRef
		if err := rows.Scan(&projectID, &ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		res[projectID] = append(res[projectID], ref)
	}
	return res, rows.Err()
}

func insertMembers(ctx context.Context, q querier, projectID string, userIDs []string) error {
	for i, uid := range userIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO project_members (project_id, user_id, position)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (project_id, user_id) DO NOTHING`,
			projectID, uid, i,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var p domain.Project
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Owner.ID,
		&p.Owner.Name,
		&p.Owner.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Members = []domain.UserRef{}
	return &p, nil
}
