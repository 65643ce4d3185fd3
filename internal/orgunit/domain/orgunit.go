package domain

import (
	"errors"
	"time"
)

// OrgUnit is a node in the organizational tree (a committee or territorial
// unit). Exactly one unit has no parent; every other unit points to one.
type OrgUnit struct {
	ID       string
	Name     string
	Kind     Kind
	ParentID *string

	// Administrative attributes. Units without a value of their own
	// inherit the nearest ancestor's; see hierarchy.Resolver.InheritedField.
	TaxCode   string
	VATNumber string
	Email     string
	Phone     string
	Address   string

	CreatedAt time.Time
}

// Kind is the territorial extent of a unit.
type Kind string

const (
	KindTerritorial Kind = "territorial"
	KindLocal       Kind = "local"
	KindProvincial  Kind = "provincial"
	KindRegional    Kind = "regional"
	KindNational    Kind = "national"
)

// Inheritable field names accepted by Field.
const (
	FieldTaxCode   = "tax_code"
	FieldVATNumber = "vat_number"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldAddress   = "address"
)

// Validate validates the unit for persistence. Returns an error describing
// the first validation failure.
func (u *OrgUnit) Validate() error {
	if u.Name == "" {
		return errors.New("name is required")
	}
	switch u.Kind {
	case KindTerritorial, KindLocal, KindProvincial, KindRegional, KindNational:
	default:
		return errors.New("unknown unit kind")
	}
	if u.ParentID != nil && *u.ParentID == u.ID {
		return errors.New("unit cannot be its own parent")
	}
	return nil
}

// Field returns the unit's own value for an inheritable field, or "" if the
// unit has none (callers walk the ancestor chain for a fallback). Unknown
// names return "".
func (u *OrgUnit) Field(name string) string {
	switch name {
	case FieldTaxCode:
		return u.TaxCode
	case FieldVATNumber:
		return u.VATNumber
	case FieldEmail:
		return u.Email
	case FieldPhone:
		return u.Phone
	case FieldAddress:
		return u.Address
	default:
		return ""
	}
}
