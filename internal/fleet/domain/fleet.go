package domain

import (
	"time"

	"github.com/Staersistemi/jorvik/internal/validity"
)

// Depot is a vehicle depot run by a unit.
type Depot struct {
	ID        string
	Name      string
	OrgUnitID string
	CreatedAt time.Time
}

// VehicleStatus is the service state of a vehicle.
type VehicleStatus string

const (
	VehicleRegistering VehicleStatus = "registering"
	VehicleInService   VehicleStatus = "in_service"
	VehicleRetired     VehicleStatus = "retired"
)

// Vehicle is a registered vehicle. Only the fields the authorization core
// needs; the full registration document lives with the fleet collaborator.
type Vehicle struct {
	ID        string
	Plate     string
	ChassisNo string
	Make      string
	Model     string
	Status    VehicleStatus
	CreatedAt time.Time
}

// Placement assigns a vehicle to a depot for a validity window. A vehicle's
// current depot is the placement whose window contains the reference day.
type Placement struct {
	ID        string
	VehicleID string
	DepotID   string
	Window    validity.Window
	CreatedAt time.Time
}

// ActiveOn reports whether the placement is current as of day.
func (p *Placement) ActiveOn(day time.Time) bool {
	return p.Window.ActiveOn(day)
}
