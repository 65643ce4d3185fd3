// Package repository persists groups and their time-bounded memberships; it
// serves the object-set queries the permission rules expand against.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Staersistemi/jorvik/internal/group/domain"
	"github.com/Staersistemi/jorvik/internal/validity"
)

// PostgresRepository implements the group store over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a group repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IDsByUnits returns the ids of groups belonging to the given units.
func (r *PostgresRepository) IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return r.queryIDs(ctx, `SELECT id FROM groups WHERE org_unit_id = ANY($1)`, unitIDs)
}

// CurrentMemberPersonIDs returns the distinct ids of persons with a current
// membership in the given groups.
func (r *PostgresRepository) CurrentMemberPersonIDs(ctx context.Context, groupIDs []string, day time.Time) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	p := validity.On(day)
	return r.queryIDs(ctx,
		`SELECT DISTINCT person_id FROM group_memberships WHERE group_id = ANY($1) AND `+p.SQL("", 2),
		groupIDs, p.Day())
}

// Create persists the group. The group must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, g *domain.Group) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, org_unit_id, created_at) VALUES ($1, $2, $3, $4)`,
		g.ID, g.Name, g.OrgUnitID, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// AddMember persists the group membership. It must have ID set and a valid
// window.
func (r *PostgresRepository) AddMember(ctx context.Context, m *domain.GroupMembership) error {
	if err := m.Window.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_memberships (id, group_id, person_id, start_date, end_date, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.GroupID, m.PersonID, m.Window.Start, m.Window.End, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
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
