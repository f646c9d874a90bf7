package training

import (
	"context"
	"time"
)

// Repository defines the interface for training persistence. ID uniqueness
// and assignment are owned by the store, never by the service. Save must be
// atomic per record; the service performs no optimistic-concurrency check of
// its own.
type Repository interface {
	// Insert persists a new training and returns it with its assigned ID.
	Insert(ctx context.Context, t *Training) (*Training, error)

	// FindByID returns the training with the given ID, or nil if none exists.
	// Absence is not an error at this layer.
	FindByID(ctx context.Context, id int64) (*Training, error)

	// FindAll returns every training in the store's natural order.
	FindAll(ctx context.Context) ([]*Training, error)

	// FindByUser returns all trainings owned by the given user. Unknown
	// users yield an empty result, not an error.
	FindByUser(ctx context.Context, userID int64) ([]*Training, error)

	// FindEndedAfter returns trainings whose end time is strictly after the
	// threshold. A training ending exactly at the threshold is excluded.
	FindEndedAfter(ctx context.Context, threshold time.Time) ([]*Training, error)

	// FindByActivity returns trainings with exactly the given activity type.
	FindByActivity(ctx context.Context, activity ActivityType) ([]*Training, error)

	// Save updates an existing training keyed by its ID, or inserts it if
	// the ID is not present (upsert).
	Save(ctx context.Context, t *Training) (*Training, error)
}
