package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/Staersistemi/jorvik/internal/validity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActiveOnRequiresConfirmation(t *testing.T) {
	m := &Membership{
		PersonID:   "p1",
		OrgUnitID:  "u1",
		MemberKind: MemberVolunteer,
		ScopeKind:  ScopeNormal,
		Window:     validity.Open(day(2024, 1, 1)),
		Confirmed:  false,
	}

	// Unconfirmed is inactive no matter the dates.
	for _, d := range []time.Time{day(2023, 1, 1), day(2024, 1, 1), day(2030, 1, 1)} {
		if m.ActiveOn(d) {
			t.Errorf("unconfirmed membership reported active on %v", d)
		}
	}

	m.Confirmed = true
	if !m.ActiveOn(day(2024, 6, 1)) {
		t.Error("confirmed membership inside window should be active")
	}
	if m.ActiveOn(day(2023, 12, 31)) {
		t.Error("membership before window start should not be active")
	}
}

func TestValidate(t *testing.T) {
	end := day(2023, 1, 1)
	m := &Membership{
		PersonID:   "p1",
		OrgUnitID:  "u1",
		MemberKind: MemberVolunteer,
		ScopeKind:  ScopeNormal,
		Window:     validity.Window{Start: day(2024, 1, 1), End: &end},
	}
	if err := m.Validate(); !errors.Is(err, validity.ErrInvalidWindow) {
		t.Errorf("Validate = %v, want ErrInvalidWindow", err)
	}

	m.Window = validity.Open(day(2024, 1, 1))
	if err := m.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}

	m.MemberKind = "sympathizer"
	if err := m.Validate(); err == nil {
		t.Error("Validate should reject an unknown member kind")
	}
}
