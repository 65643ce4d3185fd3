package repository

import (
	"context"
	"time"

	"github.com/Staersistemi/jorvik/internal/delegation/domain"
)

// Repository is the delegation store. Delegations are historized: ending
// one sets its end date rather than deleting the row.
type Repository interface {
	// GetByID returns the delegation for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Delegation, error)
	// CurrentByPerson returns the person's delegations active as of day.
	CurrentByPerson(ctx context.Context, personID string, day time.Time) ([]*domain.Delegation, error)
	// IDsByPerson returns the ids of every delegation of the person,
	// current or not.
	IDsByPerson(ctx context.Context, personID string) ([]string, error)
	// PresidentOf returns the id of the person currently holding the
	// manage-unit delegation for the unit, or "" if there is none.
	PresidentOf(ctx context.Context, unitID string, day time.Time) (string, error)
	// Create persists the delegation. The delegation must have ID set and
	// pass Validate.
	Create(ctx context.Context, d *domain.Delegation) error
	// End closes the delegation's window as of day.
	End(ctx context.Context, id string, day time.Time) error
}
