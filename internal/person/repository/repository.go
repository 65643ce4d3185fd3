package repository

import (
	"context"

	"github.com/Staersistemi/jorvik/internal/person/domain"
)

// Repository is the person store.
type Repository interface {
	// GetByID returns the person for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	// GetByFiscalCode returns the person with the given fiscal code, or nil
	// if not found. Fiscal codes are unique.
	GetByFiscalCode(ctx context.Context, code string) (*domain.Person, error)
	// Create persists the person. The person must have ID set.
	Create(ctx context.Context, p *domain.Person) error
}
