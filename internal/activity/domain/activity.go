package domain

import "time"

// Area groups the activities of a unit by theme (health, emergency, ...).
type Area struct {
	ID        string
	Name      string
	OrgUnitID string
	CreatedAt time.Time
}

// Activity is an initiative run by a unit, optionally within an area.
// People participate through shifts; participation is what the
// manage-activity expansion reads.
type Activity struct {
	ID        string
	Name      string
	OrgUnitID string
	AreaID    *string
	CreatedAt time.Time
}

// Participation links a person to an activity.
type Participation struct {
	ID         string
	ActivityID string
	PersonID   string
	CreatedAt  time.Time
}
