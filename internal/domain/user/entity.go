// Package user contains the User entity and its persistence contracts.
// Trainings reference users by ID; this package owns the user lifecycle.
package user

import (
	"strings"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/shared"
)

// Domain errors for the user package.
var (
	ErrUserNotFound = shared.NewDomainError("user", "Find", shared.ErrNotFound, "user not found")
	ErrEmailTaken   = shared.NewDomainError("user", "Create", shared.ErrAlreadyExists, "email already registered")
	ErrHasID        = shared.NewDomainError("user", "Create", shared.ErrInvalidInput, "user already has an identifier, update is not permitted")
	ErrInvalidUser  = shared.NewDomainError("user", "Validate", shared.ErrValidation, "invalid user data")
)

// User represents a registered account. The ID is assigned by the store on
// creation and is zero before the user has been persisted.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Birthdate time.Time
	Email     string
}

// New creates an unpersisted user after validating its fields.
func New(firstName, lastName string, birthdate time.Time, email string) (*User, error) {
	u := &User{
		FirstName: firstName,
		LastName:  lastName,
		Birthdate: birthdate,
		Email:     email,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the entity invariants.
func (u *User) Validate() error {
	if strings.TrimSpace(u.FirstName) == "" {
		return shared.NewDomainError("user", "Validate", shared.ErrValidation, "first name is required")
	}
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return shared.NewDomainError("user", "Validate", shared.ErrValidation, "a valid email address is required")
	}
	if u.Birthdate.After(time.Now()) {
		return shared.NewDomainError("user", "Validate", shared.ErrValidation, "birthdate cannot be in the future")
	}
	return nil
}

// FullName returns the display name used in listings.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Age returns the user's age in whole years at the given moment.
func (u *User) Age(now time.Time) int {
	years := now.Year() - u.Birthdate.Year()
	anniversary := u.Birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
