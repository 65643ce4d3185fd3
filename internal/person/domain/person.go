package domain

import (
	"errors"
	"time"
)

// Person is a registry record: anyone known to the organization, whether or
// not they currently hold a membership.
type Person struct {
	ID         string
	Name       string
	Surname    string
	FiscalCode string
	BirthDate  time.Time
	Gender     Gender
	Status     Status
	CreatedAt  time.Time
}

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Status is the person's standing with the organization.
type Status string

const (
	StatusPerson    Status = "person"
	StatusAspirant  Status = "aspirant"
	StatusVolunteer Status = "volunteer"
	StatusEmployee  Status = "employee"
)

// FullName returns "Name Surname".
func (p *Person) FullName() string {
	return p.Name + " " + p.Surname
}

// Validate validates the person for persistence. Returns an error
// describing the first validation failure.
func (p *Person) Validate() error {
	if p.Name == "" || p.Surname == "" {
		return errors.New("name and surname are required")
	}
	if p.FiscalCode == "" {
		return errors.New("fiscal code is required")
	}
	if p.BirthDate.IsZero() {
		return errors.New("birth date is required")
	}
	return nil
}
