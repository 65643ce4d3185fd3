package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Staersistemi/jorvik/internal/audit/domain"
)

var _ Repository = (*PostgresRepository)(nil)

// PostgresRepository implements the audit store over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	personID := sql.NullString{String: a.PersonID, Valid: a.PersonID != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, org_unit_id, person_id, action, resource, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.OrgUnitID, personID, a.Action, a.Resource, meta, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, org_unit_id, person_id, action, resource, metadata, created_at
		 FROM audit_logs WHERE id = $1`, id)
	a, err := scanAuditLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get audit log: %w", err)
	}
	return a, nil
}

// ListByUnit returns audit logs for the given unit, newest first, paginated
// by limit and offset.
func (r *PostgresRepository) ListByUnit(ctx context.Context, orgUnitID string, limit, offset int32) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, org_unit_id, person_id, action, resource, metadata, created_at
		 FROM audit_logs WHERE org_unit_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		orgUnitID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()
	var out []*domain.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditLog(row rowScanner) (*domain.AuditLog, error) {
	var a domain.AuditLog
	var personID, meta sql.NullString
	if err := row.Scan(&a.ID, &a.OrgUnitID, &personID, &a.Action, &a.Resource, &meta, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PersonID = personID.String
	a.Metadata = meta.String
	return &a, nil
}
