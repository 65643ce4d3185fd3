package domain

import (
	"errors"
	"time"

	"github.com/Staersistemi/jorvik/internal/validity"
)

// Membership links a person to an org unit for a validity window.
//
// A membership is "active" on a day only when it is confirmed and its
// window contains the day. Unconfirmed rows are either pending requests or
// denied/revoked ones; they are kept forever (memberships are historized,
// never hard-deleted).
type Membership struct {
	ID         string
	PersonID   string
	OrgUnitID  string
	MemberKind MemberKind
	ScopeKind  ScopeKind
	Window     validity.Window
	Confirmed  bool
	CreatedAt  time.Time
}

// MemberKind is the kind of member the person is at the unit.
type MemberKind string

const (
	MemberVolunteer MemberKind = "volunteer"
	MemberOrdinary  MemberKind = "ordinary"
	MemberEmployee  MemberKind = "employee"
)

// ScopeKind distinguishes a person's home membership from an extension to
// another unit. Extended members are visible to the host unit but managed
// by their home unit.
type ScopeKind string

const (
	ScopeNormal   ScopeKind = "normal"
	ScopeExtended ScopeKind = "extended"
)

// ActiveOn reports whether the membership is active as of day: confirmed
// and within the validity window.
func (m *Membership) ActiveOn(day time.Time) bool {
	return m.Confirmed && m.Window.ActiveOn(day)
}

// Validate validates the membership for persistence. Returns an error
// describing the first validation failure; window violations surface
// validity.ErrInvalidWindow.
func (m *Membership) Validate() error {
	if m.PersonID == "" || m.OrgUnitID == "" {
		return errors.New("person and org unit are required")
	}
	switch m.MemberKind {
	case MemberVolunteer, MemberOrdinary, MemberEmployee:
	default:
		return errors.New("unknown member kind")
	}
	switch m.ScopeKind {
	case ScopeNormal, ScopeExtended:
	default:
		return errors.New("unknown scope kind")
	}
	return m.Window.Validate()
}
