package repository

import (
	"context"

	"github.com/Staersistemi/jorvik/internal/audit/domain"
)

// Repository is the audit log store.
type Repository interface {
	// Create persists the audit log. The entry must have ID set.
	Create(ctx context.Context, a *domain.AuditLog) error
	// GetByID returns the audit log for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	// ListByUnit returns audit logs for the given unit, newest first,
	// paginated by limit and offset.
	ListByUnit(ctx context.Context, orgUnitID string, limit, offset int32) ([]*domain.AuditLog, error)
}
