package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Staersistemi/jorvik/internal/membership/domain"
	"github.com/Staersistemi/jorvik/internal/validity"
)

// PostgresRepository implements Repository over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a membership repository that uses the given
// db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const membershipColumns = `m.id, m.person_id, m.org_unit_id, m.member_kind, m.scope_kind, m.start_date, m.end_date, m.confirmed, m.created_at`

func scanMembership(row interface{ Scan(...any) error }, m *domain.Membership) error {
	var end sql.NullTime
	err := row.Scan(&m.ID, &m.PersonID, &m.OrgUnitID, &m.MemberKind, &m.ScopeKind, &m.Window.Start, &end, &m.Confirmed, &m.CreatedAt)
	if err != nil {
		return err
	}
	if end.Valid {
		m.Window.End = &end.Time
	}
	return nil
}

// currentClauses builds the WHERE conditions for current memberships at the
// given units: unit set, validity window (rendered from the same predicate
// the in-memory check uses), confirmation, and the optional kind filters.
func currentClauses(unitIDs []string, day time.Time, f Filter) (string, []any) {
	args := []any{unitIDs}
	conds := []string{"m.org_unit_id = ANY($1)"}

	args = append(args, validity.On(day).Day())
	conds = append(conds, validity.On(day).SQL("m", len(args)))
	conds = append(conds, "m.confirmed = TRUE")

	if len(f.MemberKinds) > 0 {
		kinds := make([]string, len(f.MemberKinds))
		for i, k := range f.MemberKinds {
			kinds[i] = string(k)
		}
		args = append(args, kinds)
		conds = append(conds, fmt.Sprintf("m.member_kind = ANY($%d)", len(args)))
	}
	if len(f.ScopeKinds) > 0 {
		scopes := make([]string, len(f.ScopeKinds))
		for i, k := range f.ScopeKinds {
			scopes[i] = string(k)
		}
		args = append(args, scopes)
		conds = append(conds, fmt.Sprintf("m.scope_kind = ANY($%d)", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

// GetByID returns the membership for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Membership, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+membershipColumns+` FROM memberships m WHERE m.id = $1`, id)
	var m domain.Membership
	if err := scanMembership(row, &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return &m, nil
}

// ListCurrentWithPersons returns current memberships at the given units,
// joined with their persons in one query.
func (r *PostgresRepository) ListCurrentWithPersons(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]*Member, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	where, args := currentClauses(unitIDs, day, f)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+membershipColumns+`,
		       p.id, p.name, p.surname, p.fiscal_code, p.birth_date, p.gender, p.status, p.created_at
		FROM memberships m
		JOIN persons p ON p.id = m.person_id
		WHERE `+where+`
		ORDER BY p.surname, p.name`, args...)
	if err != nil {
		return nil, fmt.Errorf("list current memberships: %w", err)
	}
	defer rows.Close()

	var out []*Member
	for rows.Next() {
		var mem Member
		var end sql.NullTime
		err := rows.Scan(
			&mem.Membership.ID, &mem.Membership.PersonID, &mem.Membership.OrgUnitID,
			&mem.Membership.MemberKind, &mem.Membership.ScopeKind,
			&mem.Membership.Window.Start, &end, &mem.Membership.Confirmed, &mem.Membership.CreatedAt,
			&mem.Person.ID, &mem.Person.Name, &mem.Person.Surname, &mem.Person.FiscalCode,
			&mem.Person.BirthDate, &mem.Person.Gender, &mem.Person.Status, &mem.Person.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		if end.Valid {
			mem.Membership.Window.End = &end.Time
		}
		out = append(out, &mem)
	}
	return out, rows.Err()
}

// CurrentPersonIDs returns the distinct ids of persons with a current
// membership at the given units.
func (r *PostgresRepository) CurrentPersonIDs(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	where, args := currentClauses(unitIDs, day, f)
	return r.queryIDs(ctx, `SELECT DISTINCT m.person_id FROM memberships m WHERE `+where, args)
}

// PendingPersonIDs returns the distinct ids of persons with an unconfirmed
// membership request at the given units.
func (r *PostgresRepository) PendingPersonIDs(ctx context.Context, unitIDs []string) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	return r.queryIDs(ctx,
		`SELECT DISTINCT m.person_id FROM memberships m WHERE m.org_unit_id = ANY($1) AND m.confirmed = FALSE`,
		[]any{unitIDs})
}

// ExistsCurrent reports whether the person holds a current membership at
// any of the given units.
func (r *PostgresRepository) ExistsCurrent(ctx context.Context, unitIDs []string, personID string, day time.Time, f Filter) (bool, error) {
	if len(unitIDs) == 0 {
		return false, nil
	}
	where, args := currentClauses(unitIDs, day, f)
	args = append(args, personID)
	var exists bool
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM memberships m WHERE %s AND m.person_id = $%d)`, where, len(args)),
		args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("membership exists: %w", err)
	}
	return exists, nil
}

// ListByPerson returns every membership of the person, newest window first.
func (r *PostgresRepository) ListByPerson(ctx context.Context, personID string) ([]*domain.Membership, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+membershipColumns+` FROM memberships m WHERE m.person_id = $1 ORDER BY m.start_date DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("list memberships by person: %w", err)
	}
	defer rows.Close()

	var out []*domain.Membership
	for rows.Next() {
		var m domain.Membership
		if err := scanMembership(rows, &m); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// CurrentIDs returns the ids of current membership records at the given
// units.
func (r *PostgresRepository) CurrentIDs(ctx context.Context, unitIDs []string, day time.Time, f Filter) ([]string, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}
	where, args := currentClauses(unitIDs, day, f)
	return r.queryIDs(ctx, `SELECT m.id FROM memberships m WHERE `+where, args)
}

// Create persists the membership. The membership must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO memberships (id, person_id, org_unit_id, member_kind, scope_kind, start_date, end_date, confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.PersonID, m.OrgUnitID, m.MemberKind, m.ScopeKind, m.Window.Start, m.Window.End, m.Confirmed, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

// SetConfirmed flips the confirmation flag.
func (r *PostgresRepository) SetConfirmed(ctx context.Context, id string, confirmed bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE memberships SET confirmed = $2 WHERE id = $1`, id, confirmed)
	if err != nil {
		return fmt.Errorf("set confirmed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set confirmed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("membership not found: %s", id)
	}
	return nil
}

func (r *PostgresRepository) queryIDs(ctx context.Context, query string, args []any) ([]string, error) {
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

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
