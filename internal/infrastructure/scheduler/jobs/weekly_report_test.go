package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/infrastructure/persistence/memory"
)

type captureSender struct {
	sent    []notification.Payload
	failFor string // recipient address whose sends fail
}

func (s *captureSender) Send(ctx context.Context, p notification.Payload) error {
	if p.RecipientAddress == s.failFor {
		return errors.New("relay unreachable")
	}
	s.sent = append(s.sent, p)
	return nil
}

func seedUser(t *testing.T, users *memory.UserRepository, email string) *user.User {
	t.Helper()

	u, err := users.Insert(context.Background(), &user.User{
		FirstName: "Emma",
		Birthdate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Email:     email,
	})
	require.NoError(t, err)
	return u
}

func seedTraining(t *testing.T, trainings *memory.TrainingRepository, userID int64, end time.Time) {
	t.Helper()

	_, err := trainings.Insert(context.Background(), &training.Training{
		UserID:       userID,
		StartTime:    end.Add(-time.Hour),
		EndTime:      end,
		ActivityType: training.ActivityRunning,
		Distance:     10,
	})
	require.NoError(t, err)
}

func TestWeeklyReportJobRun(t *testing.T) {
	users := memory.NewUserRepository()
	trainings := memory.NewTrainingRepository()
	sender := &captureSender{}

	now := time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC)

	active := seedUser(t, users, "active@domain.com")
	idle := seedUser(t, users, "idle@domain.com")

	// Two recent trainings for the active user, one stale.
	seedTraining(t, trainings, active.ID, now.Add(-24*time.Hour))
	seedTraining(t, trainings, active.ID, now.Add(-48*time.Hour))
	seedTraining(t, trainings, active.ID, now.Add(-10*24*time.Hour))

	// The idle user's only training is outside the window.
	seedTraining(t, trainings, idle.ID, now.Add(-8*24*time.Hour))

	job := NewWeeklyReportJob(users, trainings, sender, nil)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, sender.sent, 1, "users without recent trainings are skipped")
	p := sender.sent[0]
	assert.Equal(t, "active@domain.com", p.RecipientAddress)
	assert.Equal(t, "Your weekly training report", p.Subject)
	assert.Contains(t, p.Body, "Trainings finished: 2")
	assert.Contains(t, p.Body, "Total distance: 20.0 km")
	assert.Contains(t, p.Body, "Total time: 120 minutes")
}

func TestWeeklyReportJobToleratesDeliveryFailures(t *testing.T) {
	users := memory.NewUserRepository()
	trainings := memory.NewTrainingRepository()
	sender := &captureSender{failFor: "first@domain.com"}

	now := time.Date(2024, 1, 21, 12, 0, 0, 0, time.UTC)

	first := seedUser(t, users, "first@domain.com")
	second := seedUser(t, users, "second@domain.com")
	seedTraining(t, trainings, first.ID, now.Add(-time.Hour))
	seedTraining(t, trainings, second.ID, now.Add(-time.Hour))

	job := NewWeeklyReportJob(users, trainings, sender, nil)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run(context.Background()), "one failed delivery does not abort the batch")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "second@domain.com", sender.sent[0].RecipientAddress)
}

func TestWeeklyReportJobName(t *testing.T) {
	job := NewWeeklyReportJob(nil, nil, nil, nil)
	assert.Equal(t, "weekly_training_report", job.Name())
}
