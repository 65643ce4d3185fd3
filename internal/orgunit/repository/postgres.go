package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Staersistemi/jorvik/internal/hierarchy"
	"github.com/Staersistemi/jorvik/internal/orgunit/domain"
)

// PostgresRepository implements Repository over Postgres.
type PostgresRepository struct {
	db       *sql.DB
	maxDepth int
}

// NewPostgresRepository returns an org-unit repository that uses the given
// db for persistence. maxDepth bounds tree traversals; <= 0 selects
// hierarchy.DefaultMaxDepth.
func NewPostgresRepository(db *sql.DB, maxDepth int) *PostgresRepository {
	if maxDepth <= 0 {
		maxDepth = hierarchy.DefaultMaxDepth
	}
	return &PostgresRepository{db: db, maxDepth: maxDepth}
}

const orgUnitColumns = `id, name, kind, parent_id, tax_code, vat_number, email, phone, address, created_at`

func scanOrgUnit(row interface{ Scan(...any) error }) (*domain.OrgUnit, error) {
	var u domain.OrgUnit
	var parentID sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Kind, &parentID, &u.TaxCode, &u.VATNumber, &u.Email, &u.Phone, &u.Address, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		u.ParentID = &parentID.String
	}
	return &u, nil
}

// GetByID returns the unit for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.OrgUnit, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orgUnitColumns+` FROM org_units WHERE id = $1`, id)
	u, err := scanOrgUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get org unit: %w", err)
	}
	return u, nil
}

// ListAll returns every unit ordered by name.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*domain.OrgUnit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orgUnitColumns+` FROM org_units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list org units: %w", err)
	}
	defer rows.Close()
	return collectOrgUnits(rows)
}

// ListChildren returns the direct children of id ordered by name.
func (r *PostgresRepository) ListChildren(ctx context.Context, id string) ([]*domain.OrgUnit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orgUnitColumns+` FROM org_units WHERE parent_id = $1 ORDER BY name`, id)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	defer rows.Close()
	return collectOrgUnits(rows)
}

func collectOrgUnits(rows *sql.Rows) ([]*domain.OrgUnit, error) {
	var out []*domain.OrgUnit
	for rows.Next() {
		u, err := scanOrgUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan org unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// DescendantIDs expands the given units to their full subtrees with a
// depth-bounded recursive query. The bound mirrors the in-memory resolver's
// guard: a tree deeper than the configured maximum is treated as corrupt
// and simply stops expanding.
func (r *PostgresRepository) DescendantIDs(ctx context.Context, ids []string, includeSelf bool) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		WITH RECURSIVE subtree AS (
			SELECT id, 0 AS depth FROM org_units WHERE id = ANY($1)
			UNION ALL
			SELECT u.id, s.depth + 1 FROM org_units u
			JOIN subtree s ON u.parent_id = s.id
			WHERE s.depth < $2
		)
		SELECT DISTINCT id FROM subtree`,
		ids, r.maxDepth)
	if err != nil {
		return nil, fmt.Errorf("descendant ids: %w", err)
	}
	defer rows.Close()

	roots := make(map[string]bool, len(ids))
	for _, id := range ids {
		roots[id] = true
	}
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan descendant id: %w", err)
		}
		if !includeSelf && roots[id] {
			continue
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Create persists the unit. The unit must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.OrgUnit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO org_units (id, name, kind, parent_id, tax_code, vat_number, email, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Name, u.Kind, u.ParentID, u.TaxCode, u.VATNumber, u.Email, u.Phone, u.Address, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("create org unit: %w", err)
	}
	return nil
}

// Reparent moves the unit under newParentID after re-validating that the
// tree stays acyclic. The check loads the whole tree; re-parenting is a
// rare administrative operation.
func (r *PostgresRepository) Reparent(ctx context.Context, id string, newParentID *string) error {
	units, err := r.ListAll(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, u := range units {
		if u.ID == id {
			u.ParentID = newParentID
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("reparent: unit %s not found", id)
	}
	if err := hierarchy.NewResolver(units, r.maxDepth).ValidateAcyclic(); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE org_units SET parent_id = $2 WHERE id = $1`, id, newParentID)
	if err != nil {
		return fmt.Errorf("reparent: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
