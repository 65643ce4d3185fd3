// Package service implements the membership registry: the request/grant/
// deny lifecycle and the "who is currently a member" queries, including
// sub-unit expansion.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Staersistemi/jorvik/internal/membership/domain"
	"github.com/Staersistemi/jorvik/internal/membership/repository"
	persondomain "github.com/Staersistemi/jorvik/internal/person/domain"
)

// Sentinel errors for membership transitions.
var (
	ErrNotFound         = errors.New("membership not found")
	ErrAlreadyConfirmed = errors.New("membership already confirmed")
	ErrNoApprover       = errors.New("no president found to approve the request")
)

// Repo is the membership store as needed by the registry.
type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.Membership, error)
	ListCurrentWithPersons(ctx context.Context, unitIDs []string, day time.Time, f repository.Filter) ([]*repository.Member, error)
	ExistsCurrent(ctx context.Context, unitIDs []string, personID string, day time.Time, f repository.Filter) (bool, error)
	Create(ctx context.Context, m *domain.Membership) error
	SetConfirmed(ctx context.Context, id string, confirmed bool) error
}

// UnitExpander expands unit ids to their subtrees for "including sub-units"
// queries. Implemented by the org-unit repository.
type UnitExpander interface {
	DescendantIDs(ctx context.Context, ids []string, includeSelf bool) ([]string, error)
}

// ApproverFinder locates who must approve a membership request at a unit
// (the unit's president). Implemented by the delegation repository.
type ApproverFinder interface {
	PresidentOf(ctx context.Context, unitID string, day time.Time) (string, error)
}

// Authorizer delivers an approval request to the approver. External
// collaborator (the authorization workflow); the registry only emits.
type Authorizer interface {
	RequestApproval(ctx context.Context, m *domain.Membership, approverID string) error
}

// AuditLogger records state transitions. Best-effort; see internal/audit.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgUnitID, personID, action, resource, metadata string)
}

// Registry exposes membership lifecycle and current-member queries.
type Registry struct {
	repo     Repo
	units    UnitExpander
	approver ApproverFinder
	authz    Authorizer
	audit    AuditLogger
	now      func() time.Time
}

// NewRegistry returns a Registry with the given dependencies. audit may be
// nil to disable audit logging.
func NewRegistry(repo Repo, units UnitExpander, approver ApproverFinder, authz Authorizer, audit AuditLogger) *Registry {
	return &Registry{repo: repo, units: units, approver: approver, authz: authz, audit: audit, now: time.Now}
}

// Options restrict current-member queries.
type Options struct {
	// IncludeDescendants extends the query to the units' subtrees.
	IncludeDescendants bool
	MemberKinds        []domain.MemberKind
	ScopeKinds         []domain.ScopeKind
}

func (o Options) filter() repository.Filter {
	return repository.Filter{MemberKinds: o.MemberKinds, ScopeKinds: o.ScopeKinds}
}

// Request creates an unconfirmed membership and asks the unit president to
// approve it. The membership becomes active only after Grant.
func (r *Registry) Request(ctx context.Context, m *domain.Membership) error {
	m.Confirmed = false
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now().UTC()
	}
	if err := m.Validate(); err != nil {
		return err
	}
	// The approver is whoever presides when the request is made, not
	// whoever held the seat at the window start of a back-dated record.
	approverID, err := r.approver.PresidentOf(ctx, m.OrgUnitID, r.now().UTC())
	if err != nil {
		return fmt.Errorf("find approver: %w", err)
	}
	if approverID == "" {
		return ErrNoApprover
	}
	if err := r.repo.Create(ctx, m); err != nil {
		return err
	}
	if err := r.authz.RequestApproval(ctx, m, approverID); err != nil {
		return fmt.Errorf("request approval: %w", err)
	}
	r.logEvent(ctx, m, "membership.requested", "")
	return nil
}

// Enroll creates a membership directly in the confirmed state, for records
// entered by an office that needs no approval round.
func (r *Registry) Enroll(ctx context.Context, m *domain.Membership) error {
	m.Confirmed = true
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now().UTC()
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := r.repo.Create(ctx, m); err != nil {
		return err
	}
	r.logEvent(ctx, m, "membership.enrolled", "")
	return nil
}

// Grant confirms a requested membership. Callable only in response to an
// approval from the authorization workflow.
func (r *Registry) Grant(ctx context.Context, id string) error {
	m, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if m.Confirmed {
		return ErrAlreadyConfirmed
	}
	if err := r.repo.SetConfirmed(ctx, id, true); err != nil {
		return err
	}
	r.logEvent(ctx, m, "membership.granted", "")
	return nil
}

// Deny rejects a requested membership. Terminal for this request: a new
// request must be created to retry.
func (r *Registry) Deny(ctx context.Context, id, reason string) error {
	m, err := r.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if err := r.repo.SetConfirmed(ctx, id, false); err != nil {
		return err
	}
	r.logEvent(ctx, m, "membership.denied", reason)
	return nil
}

// CurrentMemberships returns the current memberships at the given units as
// of day, persons resolved, optionally extended to sub-units.
func (r *Registry) CurrentMemberships(ctx context.Context, unitIDs []string, day time.Time, opts Options) ([]*repository.Member, error) {
	unitIDs, err := r.scope(ctx, unitIDs, opts)
	if err != nil {
		return nil, err
	}
	return r.repo.ListCurrentWithPersons(ctx, unitIDs, day, opts.filter())
}

// CurrentMembers returns the persons holding a current membership at the
// unit. Computed from the joined membership query, not per-person lookups.
func (r *Registry) CurrentMembers(ctx context.Context, unitID string, day time.Time, opts Options) ([]*persondomain.Person, error) {
	members, err := r.CurrentMemberships(ctx, []string{unitID}, day, opts)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(members))
	var out []*persondomain.Person
	for _, m := range members {
		if seen[m.Person.ID] {
			continue
		}
		seen[m.Person.ID] = true
		p := m.Person
		out = append(out, &p)
	}
	return out, nil
}

// HasMember reports whether the person holds a current membership at the
// unit, under the same filter composition as CurrentMemberships.
func (r *Registry) HasMember(ctx context.Context, unitID, personID string, day time.Time, opts Options) (bool, error) {
	unitIDs, err := r.scope(ctx, []string{unitID}, opts)
	if err != nil {
		return false, err
	}
	return r.repo.ExistsCurrent(ctx, unitIDs, personID, day, opts.filter())
}

func (r *Registry) scope(ctx context.Context, unitIDs []string, opts Options) ([]string, error) {
	if !opts.IncludeDescendants {
		return unitIDs, nil
	}
	return r.units.DescendantIDs(ctx, unitIDs, true)
}

func (r *Registry) logEvent(ctx context.Context, m *domain.Membership, action, metadata string) {
	if r.audit != nil {
		r.audit.LogEvent(ctx, m.OrgUnitID, m.PersonID, action, "membership/"+m.ID, metadata)
	}
}
