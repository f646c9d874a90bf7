// Package jobs contains implementations of scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// WeeklyReportJob mails each user a summary of the trainings they finished
// in the last seven days. Users with no finished trainings are skipped.
type WeeklyReportJob struct {
	users     user.Repository
	trainings training.Repository
	sender    notification.Sender
	logger    *slog.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewWeeklyReportJob creates a WeeklyReportJob.
func NewWeeklyReportJob(users user.Repository, trainings training.Repository, sender notification.Sender, logger *slog.Logger) *WeeklyReportJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeeklyReportJob{
		users:     users,
		trainings: trainings,
		sender:    sender,
		logger:    logger,
		now:       time.Now,
	}
}

// Name implements scheduler.Job.
func (j *WeeklyReportJob) Name() string {
	return "weekly_training_report"
}

// Run composes and sends one report per user with recent activity. A
// delivery failure for one user does not abort the rest of the batch.
func (j *WeeklyReportJob) Run(ctx context.Context) error {
	since := j.now().AddDate(0, 0, -7)

	users, err := j.users.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("weekly report: listing users: %w", err)
	}

	sent := 0
	for _, u := range users {
		trainings, err := j.trainings.FindByUser(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("weekly report: listing trainings for user %d: %w", u.ID, err)
		}

		recent := endedAfter(trainings, since)
		if len(recent) == 0 {
			continue
		}

		payload := composeReport(u, recent)
		if err := j.sender.Send(ctx, payload); err != nil {
			j.logger.Warn("weekly report delivery failed", "user_id", u.ID, "error", err)
			continue
		}
		sent++
	}

	j.logger.Info("weekly reports sent", "count", sent, "since", since)
	return nil
}

func endedAfter(ts []*training.Training, since time.Time) []*training.Training {
	out := make([]*training.Training, 0, len(ts))
	for _, t := range ts {
		if t.EndTime.After(since) {
			out = append(out, t)
		}
	}
	return out
}

// composeReport builds the weekly summary payload for one user.
func composeReport(u *user.User, ts []*training.Training) notification.Payload {
	var (
		totalDistance float64
		totalMinutes  int64
	)
	for _, t := range ts {
		totalDistance += t.Distance
		totalMinutes += t.DurationMinutes()
	}

	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Here is your week in numbers:\n"+
			"- Trainings finished: %d\n"+
			"- Total distance: %.1f km\n"+
			"- Total time: %d minutes\n\n"+
			"Keep it up!\n\n"+
			"%s",
		u.FirstName, len(ts), totalDistance, totalMinutes, notification.SenderName,
	)

	return notification.Payload{
		RecipientAddress: u.Email,
		Subject:          "Your weekly training report",
		Body:             body,
	}
}
