package domain

import "time"

// Course is a training course organized by a unit.
type Course struct {
	ID        string
	Name      string
	OrgUnitID string
	CreatedAt time.Time
}

// Enrollment links a person to a course. Aspirant marks enrollees who are
// not yet members; course managers may edit their records, while ordinary
// enrollees are read-only to them.
type Enrollment struct {
	ID        string
	CourseID  string
	PersonID  string
	Aspirant  bool
	CreatedAt time.Time
}
