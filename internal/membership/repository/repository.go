package repository

import (
	"context"
	"time"

	"github.com/Staersistemi/jorvik/internal/membership/domain"
	persondomain "github.com/Staersistemi/jorvik/internal/person/domain"
)

// Filter restricts current-membership queries. Zero value means no
// restriction.
type Filter struct {
	MemberKinds []domain.MemberKind
	ScopeKinds  []domain.ScopeKind
}

// Member pairs a membership with its person, resolved by the same query.
type Member struct {
	Membership domain.Membership
	Person     persondomain.Person
}

// Repository is the membership store. "Current" queries apply the validity
// predicate and the confirmed flag in the store, so bulk filtering and the
// single-record Membership.ActiveOn check agree.
type Repository interface {
	// GetByID returns the membership for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	// ListCurrentWithPersons returns current memberships at the given units
	// with their persons resolved in the same query (one round trip, not one
	// lookup per membership).
	ListCurrentWithPersons(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]*Member, error)
	// CurrentPersonIDs returns the distinct ids of persons holding a current
	// membership at the given units.
	CurrentPersonIDs(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]string, error)
	// PendingPersonIDs returns the distinct ids of persons with an
	// unconfirmed membership request at the given units.
	PendingPersonIDs(ctx context.Context, unitIDs []string) ([]string, error)
	// ExistsCurrent reports whether the person holds a current membership at
	// any of the given units.
	ExistsCurrent(ctx context.Context, unitIDs []string, personID string, day time.Time, f Filter) (bool, error)
	// ListByPerson returns every membership of the person, current or not,
	// newest window first.
	ListByPerson(ctx context.Context, personID string) ([]*domain.Membership, error)
	// CurrentIDs returns the ids of current membership records at the given
	// units; the object set card issuance and roster maintenance act on.
	CurrentIDs(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]string, error)
	// Create persists the membership. The membership must have ID set and
	// pass Validate.
	Create(ctx context.Context, m *domain.Membership) error
	// SetConfirmed flips the confirmation flag (grant/deny transitions).
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
}
