package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/validity"
)

// Delegation grants a person a capability over a target for a validity
// window. A delegation is trusted once created by an authorized granter
// (enforced by the caller, not here): it is active whenever its window
// contains the reference day, with no confirmation flag.
type Delegation struct {
	ID         string
	PersonID   string
	Capability permission.Capability
	Target     Target
	Window     validity.Window
	CreatedAt  time.Time
}

// Target is the typed reference a delegation applies to. Kind is limited
// to the entity kinds capabilities know how to expand; there is no untyped
// (type, id) pair to resolve at runtime.
type Target struct {
	Kind permission.ObjectKind
	ID   string
}

// Scope returns the target as the scope seed for expansion.
func (t Target) Scope() []permission.Ref {
	return []permission.Ref{{Kind: t.Kind, ID: t.ID}}
}

// ActiveOn reports whether the delegation is active as of day.
func (d *Delegation) ActiveOn(day time.Time) bool {
	return d.Window.ActiveOn(day)
}

// Validate validates the delegation for persistence. Returns an error
// describing the first validation failure; window violations surface
// validity.ErrInvalidWindow.
func (d *Delegation) Validate() error {
	if d.PersonID == "" {
		return errors.New("person is required")
	}
	if _, err := permission.ParseCapability(string(d.Capability)); err != nil {
		return err
	}
	if d.Target.ID == "" {
		return errors.New("target is required")
	}
	switch d.Target.Kind {
	case permission.KindOrgUnit, permission.KindActivity, permission.KindArea,
		permission.KindCourse, permission.KindGroup, permission.KindPerson:
	default:
		return fmt.Errorf("unsupported target kind %q", d.Target.Kind)
	}
	return d.Window.Validate()
}
