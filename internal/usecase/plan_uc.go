package usecase

import (
	"context"

	"tutoring-platform/internal/domain/model"
	"tutoring-platform/internal/domain/ports/repository"
)

var _ PlanUseCase = (*planUC)(nil)

type PlanUseCase interface {
	ListActive(ctx context.Context) ([]*model.Plan, error)
	Get(ctx context.Context, id string) (*model.Plan, error)
	Save(ctx context.Context, plan *model.Plan) error
}

type planUC struct {
	plans repository.PlanRepository
}

func NewPlanUseCase(plans repository.PlanRepository) *planUC {
	return &planUC{plans: plans}
}

func (u *planUC) ListActive(ctx context.Context) ([]*model.Plan, error) {
	return u.plans.ListActive(ctx, nil)
}

func (u *planUC) Get(ctx context.Context, id string) (*model.Plan, error) {
	return u.plans.FindByID(ctx, nil, id)
}

func (u *planUC) Save(ctx context.Context, plan *model.Plan) error {
	return u.plans.Save(ctx, nil, plan)
}
