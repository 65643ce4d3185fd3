package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/validity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActiveOnNoConfirmationFlag(t *testing.T) {
	d := &Delegation{
		PersonID:   "p1",
		Capability: permission.CapManageUnit,
		Target:     Target{Kind: permission.KindOrgUnit, ID: "u1"},
		Window:     validity.Between(day(2024, 1, 1), day(2024, 3, 1)),
	}
	if !d.ActiveOn(day(2024, 3, 1)) {
		t.Error("delegation should be active on its inclusive end day")
	}
	if d.ActiveOn(day(2024, 3, 2)) {
		t.Error("delegation should not be active past its end")
	}
}

func TestValidate(t *testing.T) {
	d := &Delegation{
		PersonID:   "p1",
		Capability: permission.CapManageGroup,
		Target:     Target{Kind: permission.KindGroup, ID: "g1"},
		Window:     validity.Open(day(2024, 1, 1)),
	}
	if err := d.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}

	d.Capability = "rule_the_world"
	if err := d.Validate(); err == nil {
		t.Error("Validate should reject an unknown capability")
	}
	d.Capability = permission.CapManageGroup

	d.Target.Kind = permission.KindVehicle
	if err := d.Validate(); err == nil {
		t.Error("Validate should reject a target kind no capability expands")
	}
	d.Target.Kind = permission.KindGroup

	end := day(2023, 1, 1)
	d.Window = validity.Window{Start: day(2024, 1, 1), End: &end}
	if err := d.Validate(); !errors.Is(err, validity.ErrInvalidWindow) {
		t.Errorf("Validate = %v, want ErrInvalidWindow", err)
	}
}

func TestTargetScope(t *testing.T) {
	tgt := Target{Kind: permission.KindOrgUnit, ID: "u1"}
	scope := tgt.Scope()
	if len(scope) != 1 || scope[0] != (permission.Ref{Kind: permission.KindOrgUnit, ID: "u1"}) {
		t.Errorf("Scope = %v", scope)
	}
}
