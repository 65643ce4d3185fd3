package domain

import (
	"time"

	"github.com/Staersistemi/jorvik/internal/validity"
)

// Group is a thematic group within a unit (choir, divers, ...).
type Group struct {
	ID        string
	Name      string
	OrgUnitID string
	CreatedAt time.Time
}

// GroupMembership links a person to a group for a validity window.
type GroupMembership struct {
	ID        string
	GroupID   string
	PersonID  string
	Window    validity.Window
	CreatedAt time.Time
}

// ActiveOn reports whether the group membership is active as of day.
func (m *GroupMembership) ActiveOn(day time.Time) bool {
	return m.Window.ActiveOn(day)
}
