package usecase

import (
	"context"

	"tutoring-platform/internal/domain"
	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/repository"
)

var _ ResourceUseCase = (*resourceUC)(nil)

type ResourceUseCase interface {
	ListAll(ctx context.Context) ([]*model.Resource, error)
	ListForStudent(ctx context.Context, studentID string) ([]*model.StudentResource, error)
	Assign(ctx context.Context, studentID, resourceID string) error
}

type resourceUC struct {
	resources repository.ResourceRepository
}

func NewResourceUseCase(resources repository.ResourceRepository) *resourceUC {
	return &resourceUC{resources: resources}
}

func (u *resourceUC) ListAll(ctx context.Context) ([]*model.Resource, error) {
	return u.resources.ListAll(ctx, nil)
}

func (u *resourceUC) ListForStudent(ctx context.Context, studentID string) ([]*model.StudentResource, error) {
	if studentID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return u.resources.ListAssignedToStudent(ctx, nil, studentID)
}

func (u *resourceUC) Assign(ctx context.Context, studentID, resourceID string) error {
	if studentID == "" || resourceID == "" {
		return domain.ErrInvalidArgument
	}
	return u.resources.Assign(ctx, nil, studentID, resourceID)
}
