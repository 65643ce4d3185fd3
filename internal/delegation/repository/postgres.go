package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Staersistemi/jorvik/internal/delegation/domain"
	"github.com/Staersistemi/jorvik/internal/permission"
	"github.com/Staersistemi/jorvik/internal/validity"
)

// PostgresRepository implements Repository over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a delegation repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const delegationColumns = `d.id, d.person_id, d.capability, d.target_kind, d.target_id, d.start_date, d.end_date, d.created_at`

func scanDelegation(row interface{ Scan(...any) error }) (*domain.Delegation, error) {
	var d domain.Delegation
	var end sql.NullTime
	err := row.Scan(&d.ID, &d.PersonID, &d.Capability, &d.Target.Kind, &d.Target.ID, &d.Window.Start, &end, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	if end.Valid {
		d.Window.End = &end.Time
	}
	return &d, nil
}

// GetByID returns the delegation for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Delegation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+delegationColumns+` FROM delegations d WHERE d.id = $1`, id)
	d, err := scanDelegation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get delegation: %w", err)
	}
	return d, nil
}

// CurrentByPerson returns the person's delegations active as of day.
func (r *PostgresRepository) CurrentByPerson(ctx context.Context, personID string, day time.Time) ([]*domain.Delegation, error) {
	p := validity.On(day)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+delegationColumns+` FROM delegations d WHERE d.person_id = $1 AND `+p.SQL("d", 2)+` ORDER BY d.start_date`,
		personID, p.Day())
	if err != nil {
		return nil, fmt.Errorf("current delegations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Delegation
	for rows.Next() {
		d, err := scanDelegation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delegation: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// IDsByPerson returns the ids of every delegation of the person.
func (r *PostgresRepository) IDsByPerson(ctx context.Context, personID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT d.id FROM delegations d WHERE d.person_id = $1`, personID)
	if err != nil {
		return nil, fmt.Errorf("delegation ids: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan delegation id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// PresidentOf returns the person currently delegated manage-unit for the
// unit, or "" if nobody is. With several (a handover day), the oldest
// delegation wins.
func (r *PostgresRepository) PresidentOf(ctx context.Context, unitID string, day time.Time) (string, error) {
	p := validity.On(day)
	var personID string
	err := r.db.QueryRowContext(ctx,
		`SELECT d.person_id FROM delegations d
		 WHERE d.capability = $1 AND d.target_kind = $2 AND d.target_id = $3 AND `+p.SQL("d", 4)+`
		 ORDER BY d.start_date LIMIT 1`,
		string(permission.CapManageUnit), string(permission.KindOrgUnit), unitID, p.Day()).Scan(&personID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("president of unit: %w", err)
	}
	return personID, nil
}

// Create persists the delegation. The delegation must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, d *domain.Delegation) error {
	if err := d.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delegations (id, person_id, capability, target_kind, target_id, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.PersonID, d.Capability, d.Target.Kind, d.Target.ID, d.Window.Start, d.Window.End, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create delegation: %w", err)
	}
	return nil
}

// End closes the delegation's window as of day.
func (r *PostgresRepository) End(ctx context.Context, id string, day time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE delegations SET end_date = $2 WHERE id = $1`, id, validity.On(day).Day())
	if err != nil {
		return fmt.Errorf("end delegation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("end delegation: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delegation not found: %s", id)
	}
	return nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
