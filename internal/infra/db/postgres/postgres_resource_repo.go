package postgres

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/repository"
)

var _ repository.ResourceRepository = (*resourceRepo)(nil)

type resourceRepo struct{ pool *pgxpool.Pool }

func NewResourceRepo(pool *pgxpool.Pool) *resourceRepo {
	return &resourceRepo{pool: pool}
}

func (r *resourceRepo) Save(ctx context.Context, tx repository.Tx, res *model.Resource) error {
	const q = `
INSERT INTO resources (id, title, description, category, level, resource_type, url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  title=$2, description=$3, category=$4, level=$5, resource_type=$6, url=$7;`

	_, err := execSQL(ctx, r.pool, tx, q, res.ID, res.Title, res.Description, res.Category, res.Level, res.ResourceType, res.URL, res.CreatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *resourceRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Resource, error) {
	const q = `
SELECT id, title, description, category, level, resource_type, url, created_at
  FROM resources
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Resource
	for rows.Next() {
		res := &model.Resource{}
		if err := rows.Scan(&res.ID, &res.Title, &res.Description, &res.Category, &res.Level, &res.ResourceType, &res.URL, &res.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}

func (r *resourceRepo) Assign(ctx context.Context, tx repository.Tx, studentID, resourceID string) error {
	const q = `
INSERT INTO student_resources (student_id, resource_id, assigned_at)
VALUES ($1,$2,NOW());`
	_, err := execSQL(ctx, r.pool, tx, q, studentID, resourceID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return err
		default:
			if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
				return domain.ErrAlreadyExists
			}
			return domain.ErrOperationFailed
		}
	}
	return nil
}

func (r *resourceRepo) ListAssignedToStudent(ctx context.Context, tx repository.Tx, studentID string) ([]*model.StudentResource, error) {
	const q = `
SELECT sr.id, sr.student_id, sr.resource_id, sr.assigned_at,
       r.id, r.title, r.description, r.category, r.level, r.resource_type, r.url, r.created_at
  FROM student_resources sr
  JOIN resources r ON r.id = sr.resource_id
 WHERE sr.student_id=$1
 ORDER BY sr.assigned_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, studentID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.StudentResource
	for rows.Next() {
		sr := &model.StudentResource{Resource: &model.Resource{}}
		if err := rows.Scan(&sr.ID, &sr.StudentID, &sr.ResourceID, &sr.AssignedAt,
			&sr.Resource.ID, &sr.Resource.Title, &sr.Resource.Description, &sr.Resource.Category, &sr.Resource.Level, &sr.Resource.ResourceType, &sr.Resource.URL, &sr.Resource.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return out, nil
}
