package repository

import (
	"context"

	"tutoring-platform/internal/domain/model"
)

// ResourceRepository is the port for study materials and their assignments.
type ResourceRepository interface {
	Save(ctx context.Context, tx Tx, r *model.Resource) error
	ListAll(ctx context.Context, tx Tx) ([]*model.Resource, error)
	Assign(ctx context.Context, tx Tx, studentID, resourceID string) error
	ListAssignedToStudent(ctx context.Context, tx Tx, studentID string) ([]*model.StudentResource, error)
}
