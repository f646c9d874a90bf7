package user

import (
	"context"
	"time"
)

// Provider is the read-only lookup capability consumed by other domains.
// Point lookups return (nil, nil) when no user exists; absence is not an
// error at this layer.
type Provider interface {
	// FindByID returns the user with the given ID, or nil if none exists.
	FindByID(ctx context.Context, id int64) (*User, error)
}

// Repository defines the interface for user persistence. Implemented by the
// infrastructure layer; the domain has no knowledge of the storage mechanism.
type Repository interface {
	Provider

	// Insert persists a new user and returns it with its assigned ID.
	Insert(ctx context.Context, u *User) (*User, error)

	// FindByEmail returns the user with the exact email, or nil if none exists.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns every user in the store's natural order.
	FindAll(ctx context.Context) ([]*User, error)

	// Save updates an existing user, keyed by its ID.
	Save(ctx context.Context, u *User) (*User, error)

	// Delete removes the user with the given ID. Deleting an unknown ID is
	// not an error.
	Delete(ctx context.Context, id int64) error

	// SearchByEmail returns users whose email contains the fragment,
	// case-insensitively.
	SearchByEmail(ctx context.Context, fragment string) ([]*User, error)

	// FindBornBefore returns users born strictly before the cutoff.
	FindBornBefore(ctx context.Context, cutoff time.Time) ([]*User, error)
}
