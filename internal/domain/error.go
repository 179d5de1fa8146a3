package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrForbidden           = errors.New("caller does not own this resource")
	ErrCorrelationMissing  = errors.New("gateway payment carries no local reference")
	ErrUpstreamUnavailable = errors.New("upstream fetch failed")
	ErrNoClassesRemaining  = errors.New("no classes remaining")
	ErrPlanNotAvailable    = errors.New("plan not available")

	// Persistence errors surfaced by repositories
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
	ErrInvalidExecContext = errors.New("invalid executor context")
)
