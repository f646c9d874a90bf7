package training

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/shared"
)

func TestParseActivityType(t *testing.T) {
	for _, a := range ActivityTypes() {
		parsed, err := ParseActivityType(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}

	_, err := ParseActivityType("YOGA")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = ParseActivityType("running")
	assert.Error(t, err, "activity types are case-sensitive wire values")
}

func TestActivityTypeDisplayName(t *testing.T) {
	assert.Equal(t, "Running", ActivityRunning.DisplayName())
	assert.Equal(t, "Cycling", ActivityCycling.DisplayName())
	assert.Equal(t, "Swimming", ActivitySwimming.DisplayName())
	assert.Equal(t, "Walking", ActivityWalking.DisplayName())
	assert.Equal(t, "Tennis", ActivityTennis.DisplayName())
	assert.Equal(t, "Other", ActivityOther.DisplayName())
}

func TestTrainingDuration(t *testing.T) {
	start := time.Date(2024, 1, 19, 8, 0, 0, 0, time.UTC)

	tr := &Training{StartTime: start, EndTime: start.Add(90 * time.Minute)}
	assert.Equal(t, 90*time.Minute, tr.Duration())
	assert.Equal(t, int64(90), tr.DurationMinutes())

	// Partial minutes truncate.
	tr.EndTime = start.Add(90*time.Minute + 59*time.Second)
	assert.Equal(t, int64(90), tr.DurationMinutes())

	// Zero-length trainings are legal and have zero duration.
	tr.EndTime = start
	assert.Equal(t, int64(0), tr.DurationMinutes())
}

func TestTrainingValidate(t *testing.T) {
	start := time.Date(2024, 1, 19, 8, 0, 0, 0, time.UTC)

	valid := &Training{
		UserID:       1,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		ActivityType: ActivityRunning,
		Distance:     10.5,
		AverageSpeed: 10.5,
	}
	assert.NoError(t, valid.Validate())

	noOwner := valid.Clone()
	noOwner.UserID = 0
	assert.Error(t, noOwner.Validate())

	badActivity := valid.Clone()
	badActivity.ActivityType = "YOGA"
	assert.Error(t, badActivity.Validate())

	backwards := valid.Clone()
	backwards.EndTime = start.Add(-time.Minute)
	err := backwards.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEndBeforeStart))

	// Negative distance and speed are accepted as-is.
	negative := valid.Clone()
	negative.Distance = -3
	negative.AverageSpeed = -1
	assert.NoError(t, negative.Validate())
}

func TestTrainingClone(t *testing.T) {
	original := &Training{ID: 7, UserID: 1, ActivityType: ActivityCycling, Distance: 20}

	clone := original.Clone()
	clone.Distance = 99

	assert.Equal(t, float64(20), original.Distance)
	assert.Equal(t, float64(99), clone.Distance)
}
