package domain

import "time"

// AuditLog records one administrative event: who did what, on which
// resource, under which unit.
type AuditLog struct {
	ID        string
	OrgUnitID string
	PersonID  string
	Action    string
	Resource  string
	Metadata  string
	CreatedAt time.Time
}
