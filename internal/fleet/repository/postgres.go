// Package repository persists depots, vehicles and placements; it serves
// the object-set queries the permission rules expand against.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Staersistemi/jorvik/internal/fleet/domain"
	"github.com/Staersistemi/jorvik/internal/validity"
)

// PostgresRepository implements the fleet store over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a fleet repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// DepotIDsByUnits returns the ids of depots run by the given units.
func (r *PostgresRepository) DepotIDsByUnits(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return r.queryIDs(ctx, `SELECT id FROM fleet_depots WHERE org_unit_id = ANY($1)`, unitIDs)
}

// VehicleIDsPlacedIn returns the distinct ids of vehicles with a current
// placement in the given depots.
func (r *PostgresRepository) VehicleIDsPlacedIn(ctx context.Context, depotIDs []string, day time.Time) ([]string, error) {
	if len(depotIDs) == 0 {
		return nil, nil
	}
	p := validity.On(day)
	return r.queryIDs(ctx,
		`SELECT DISTINCT vehicle_id FROM vehicle_placements WHERE depot_id = ANY($1) AND `+p.SQL("", 2),
		depotIDs, p.Day())
}

// CurrentPlacementIDs returns the ids of current placements in the given
// depots.
func (r *PostgresRepository) CurrentPlacementIDs(ctx context.Context, depotIDs []string, day time.Time) ([]string, error) {
	if len(depotIDs) == 0 {
		return nil, nil
	}
	p := validity.On(day)
	return r.queryIDs(ctx,
		`SELECT id FROM vehicle_placements WHERE depot_id = ANY($1) AND `+p.SQL("", 2),
		depotIDs, p.Day())
}

// CreateDepot persists the depot. The depot must have ID set.
func (r *PostgresRepository) CreateDepot(ctx context.Context, d *domain.Depot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fleet_depots (id, name, org_unit_id, created_at) VALUES ($1, $2, $3, $4)`,
		d.ID, d.Name, d.OrgUnitID, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create depot: %w", err)
	}
	return nil
}

// CreateVehicle persists the vehicle. The vehicle must have ID set.
func (r *PostgresRepository) CreateVehicle(ctx context.Context, v *domain.Vehicle) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicles (id, plate, chassis_no, make, model, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.Plate, v.ChassisNo, v.Make, v.Model, v.Status, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

// Place persists the placement. It must have ID set and a valid window.
func (r *PostgresRepository) Place(ctx context.Context, p *domain.Placement) error {
	if err := p.Window.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_placements (id, vehicle_id, depot_id, start_date, end_date, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.VehicleID, p.DepotID, p.Window.Start, p.Window.End, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("place vehicle: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
