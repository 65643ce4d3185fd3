// Package repository persists activities, areas and participations; it
// serves the object-set queries the permission rules expand against.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Staersistemi/jorvik/internal/activity/domain"
)

// PostgresRepository implements the activity store over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an activity repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IDsByUnits returns the ids of activities run by the given units.
func (r *PostgresRepository) IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, r.db, `SELECT id FROM activities WHERE org_unit_id = ANY($1)`, unitIDs)
}

// IDsByAreas returns the ids of activities in the given areas.
func (r *PostgresRepository) IDsByAreas(ctx context.Context, areaIDs []string) ([]string, error) {
	if len(areaIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, r.db, `SELECT id FROM activities WHERE area_id = ANY($1)`, areaIDs)
}

// AreaIDsByUnits returns the ids of areas belonging to the given units.
func (r *PostgresRepository) AreaIDsByUnits(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, r.db, `SELECT id FROM areas WHERE org_unit_id = ANY($1)`, unitIDs)
}

// ParticipantPersonIDs returns the distinct ids of persons participating in
// the given activities.
func (r *PostgresRepository) ParticipantPersonIDs(ctx context.Context, activityIDs []string) ([]string, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	return queryIDs(ctx, r.db, `SELECT DISTINCT person_id FROM activity_participations WHERE activity_id = ANY($1)`, activityIDs)
}

// CreateArea persists the area. The area must have ID set.
func (r *PostgresRepository) CreateArea(ctx context.Context, a *domain.Area) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO areas (id, name, org_unit_id, created_at) VALUES ($1, $2, $3, $4)`,
		a.ID, a.Name, a.OrgUnitID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create area: %w", err)
	}
	return nil
}

// Create persists the activity. The activity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Activity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (id, name, org_unit_id, area_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.OrgUnitID, a.AreaID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}
	return nil
}

// AddParticipant persists the participation. It must have ID set.
func (r *PostgresRepository) AddParticipant(ctx context.Context, p *domain.Participation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_participations (id, activity_id, person_id, created_at) VALUES ($1, $2, $3, $4)`,
		p.ID, p.ActivityID, p.PersonID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func queryIDs(ctx context.Context, db *sql.DB, query string, arg any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, arg)
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
