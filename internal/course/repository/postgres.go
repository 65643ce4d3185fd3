// Package repository persists courses and enrollments; it serves the
// object-set queries the permission rules expand against.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Staersistemi/jorvik/internal/course/domain"
)

// PostgresRepository implements the course store over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a course repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// IDsByUnits returns the ids of courses organized by the given units.
func (r *PostgresRepository) IDsByUnits(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return r.queryIDs(ctx, `SELECT id FROM courses WHERE org_unit_id = ANY($1)`, unitIDs)
}

// EnrolleePersonIDs returns the distinct ids of persons enrolled in the
// given courses, optionally restricted to aspirants.
func (r *PostgresRepository) EnrolleePersonIDs(ctx context.Context, courseIDs []string, aspirantsOnly bool) ([]string, error) {
	if len(courseIDs) == 0 {
		return nil, nil
	}
	query := `SELECT DISTINCT person_id FROM course_enrollments WHERE course_id = ANY($1)`
	if aspirantsOnly {
		query += ` AND aspirant = TRUE`
	}
	return r.queryIDs(ctx, query, courseIDs)
}

// Create persists the course. The course must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, name, org_unit_id, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.OrgUnitID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Enroll persists the enrollment. It must have ID set.
func (r *PostgresRepository) Enroll(ctx context.Context, e *domain.Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO course_enrollments (id, course_id, person_id, aspirant, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.CourseID, e.PersonID, e.Aspirant, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("enroll: %w", err)
	}
	return nil
}

func (r *PostgresRepository) queryIDs(ctx context.Context, query string, arg any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
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
