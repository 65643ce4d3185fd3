package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Staersistemi/jorvik/internal/person/domain"
)

// PostgresRepository implements Repository over Postgres.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a person repository that uses the given db
// for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const personColumns = `id, name, surname, fiscal_code, birth_date, gender, status, created_at`

func scanPerson(row interface{ Scan(...any) error }) (*domain.Person, error) {
	var p domain.Person
	err := row.Scan(&p.ID, &p.Name, &p.Surname, &p.FiscalCode, &p.BirthDate, &p.Gender, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID returns the person for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE id = $1`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

// GetByFiscalCode returns the person with the given fiscal code, or nil if
// not found.
func (r *PostgresRepository) GetByFiscalCode(ctx context.Context, code string) (*domain.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+personColumns+` FROM persons WHERE fiscal_code = $1`, code)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person by fiscal code: %w", err)
	}
	return p, nil
}

// Create persists the person. The person must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Person) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO persons (id, name, surname, fiscal_code, birth_date, gender, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Surname, p.FiscalCode, p.BirthDate, p.Gender, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// compile-time interface check
var _ Repository = (*PostgresRepository)(nil)
