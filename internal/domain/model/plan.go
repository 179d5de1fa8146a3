package model

import (
	"time"

	"tutoring-platform/internal/domain"
)

// Plan is a purchasable monthly plan: a price and a class allotment.
// Immutable reference data as far as the payment core is concerned.
type Plan struct {
	ID              string
	Name            string
	Description     string
	Price           int64 // minor units of Currency
	Currency        string
	ClassesPerMonth int
	Popular         bool
	Active          bool
	CreatedAt       time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, price int64, currency string, classesPerMonth int) (*Plan, error) {
	if id == "" || name == "" || currency == "" || price <= 0 || classesPerMonth <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:              id,
		Name:            name,
		Price:           price,
		Currency:        currency,
		ClassesPerMonth: classesPerMonth,
		Active:          true,
		CreatedAt:       time.Now(),
	}, nil
}
