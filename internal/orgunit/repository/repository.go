package repository

import (
	"context"

	"github.com/Staersistemi/jorvik/internal/orgunit/domain"
)

// Repository is the org-unit store.
type Repository interface {
	// GetByID returns the unit for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.OrgUnit, error)
	// ListAll returns every unit. The tree is small (thousands of nodes at
	// most); callers build a hierarchy.Resolver from the snapshot.
	ListAll(ctx context.Context) ([]*domain.OrgUnit, error)
	// ListChildren returns the direct children of id.
	ListChildren(ctx context.Context, id string) ([]*domain.OrgUnit, error)
	// DescendantIDs returns the ids of the subtree rooted at each of the
	// given units, the roots themselves included when includeSelf is set.
	DescendantIDs(ctx context.Context, ids []string, includeSelf bool) ([]string, error)
	// Create persists the unit. The unit must have ID set.
	Create(ctx context.Context, u *domain.OrgUnit) error
	// Reparent moves the unit under newParentID (nil makes it a root).
	// Fails with hierarchy.ErrCycleDetected if the move would create a
	// cycle.
	Reparent(ctx context.Context, id string, newParentID *string) error
}
