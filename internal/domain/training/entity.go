// Package training contains the Training entity, the closed activity-type
// enumeration, and the persistence contract for training records.
package training

import (
	"fmt"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/shared"
)

// Domain errors for the training package.
var (
	// ErrTrainingNotFound is returned when an operation addresses a training
	// ID that does not exist.
	ErrTrainingNotFound = shared.NewDomainError("training", "Find", shared.ErrNotFound, "training not found")

	// ErrOwnerNotFound is returned when a training references a user that
	// does not exist at creation time. Surfaced to callers as a client-input
	// error, before any store interaction.
	ErrOwnerNotFound = shared.NewDomainError("training", "ResolveOwner", shared.ErrInvalidInput, "owning user does not exist")

	// ErrOwnerMissing is returned when the owner of a persisted training no
	// longer resolves. Owner deletion is not coordinated with trainings, so
	// this state is reachable and must fail distinctly.
	ErrOwnerMissing = shared.NewDomainError("training", "Notify", shared.ErrInvalidState, "owning user no longer exists")

	// ErrEndBeforeStart is returned when a training's end time precedes its
	// start time.
	ErrEndBeforeStart = shared.NewDomainError("training", "Validate", shared.ErrInvalidInput, "end time precedes start time")
)

// ActivityType is the closed set of exercise categories.
type ActivityType string

const (
	ActivityRunning  ActivityType = "RUNNING"
	ActivityCycling  ActivityType = "CYCLING"
	ActivitySwimming ActivityType = "SWIMMING"
	ActivityWalking  ActivityType = "WALKING"
	ActivityTennis   ActivityType = "TENNIS"
	ActivityOther    ActivityType = "OTHER"
)

// displayNames holds the fixed display label for each activity type.
var displayNames = map[ActivityType]string{
	ActivityRunning:  "Running",
	ActivityCycling:  "Cycling",
	ActivitySwimming: "Swimming",
	ActivityWalking:  "Walking",
	ActivityTennis:   "Tennis",
	ActivityOther:    "Other",
}

// IsValid reports whether the activity type belongs to the enumeration.
func (a ActivityType) IsValid() bool {
	_, ok := displayNames[a]
	return ok
}

// DisplayName returns the fixed human-readable label for the activity.
func (a ActivityType) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

// String returns the wire representation of the activity type.
func (a ActivityType) String() string {
	return string(a)
}

// ParseActivityType parses a wire value into an ActivityType.
func ParseActivityType(s string) (ActivityType, error) {
	a := ActivityType(s)
	if !a.IsValid() {
		return "", shared.NewDomainError("training", "Parse", shared.ErrInvalidInput,
			fmt.Sprintf("unknown activity type %q", s))
	}
	return a, nil
}

// ActivityTypes returns all valid activity types.
func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityRunning,
		ActivityCycling,
		ActivitySwimming,
		ActivityWalking,
		ActivityTennis,
		ActivityOther,
	}
}

// Training represents a single recorded exercise session owned by one user.
// The ID is assigned by the store on creation and is zero before persistence.
// UserID is resolved at creation time and immutable thereafter.
type Training struct {
	ID           int64
	UserID       int64
	StartTime    time.Time
	EndTime      time.Time
	ActivityType ActivityType
	Distance     float64 // kilometers
	AverageSpeed float64 // km/h
}

// Validate checks the entity invariants. Distance and average speed are
// intentionally not sign-checked; they are stored as given.
func (t *Training) Validate() error {
	if t.UserID == 0 {
		return shared.NewDomainError("training", "Validate", shared.ErrInvalidID, "owning user ID is required")
	}
	if !t.ActivityType.IsValid() {
		return shared.NewDomainError("training", "Validate", shared.ErrInvalidInput,
			fmt.Sprintf("unknown activity type %q", t.ActivityType))
	}
	if t.EndTime.Before(t.StartTime) {
		return ErrEndBeforeStart
	}
	return nil
}

// Duration returns the elapsed time between start and end.
func (t *Training) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// DurationMinutes returns the duration in whole minutes, truncated.
func (t *Training) DurationMinutes() int64 {
	return int64(t.Duration() / time.Minute)
}

// Clone returns a deep copy of the training.
func (t *Training) Clone() *Training {
	c := *t
	return &c
}
