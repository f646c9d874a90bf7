package training

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/notification"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/observability"
)

// Service orchestrates training use-cases: creation, retrieval, filtering
// queries, the two update paths, and completion-notification composition.
// The store and the user lookup are injected capabilities; the service never
// reaches for globals.
type Service struct {
	trainings training.Repository
	users     user.Provider
	mapper    *Mapper
	sender    notification.Sender
	logger    *slog.Logger
}

// NewService constructs a Service. The sender may be nil, in which case
// composed notifications are returned to the caller but not delivered.
func NewService(trainings training.Repository, users user.Provider, sender notification.Sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		trainings: trainings,
		users:     users,
		mapper:    NewMapper(users),
		sender:    sender,
		logger:    logger,
	}
}

// Mapper exposes the service's DTO mapper, for callers that convert entities
// outside the use-case flow.
func (s *Service) Mapper() *Mapper {
	return s.mapper
}

// Create validates the owner reference, persists the training, and returns
// it with the store-assigned ID. Fails with training.ErrOwnerNotFound before
// any store write when the owner does not resolve.
func (s *Service) Create(ctx context.Context, dto TrainingDTO) (TrainingDTO, error) {
	entity, err := s.mapper.ToEntity(ctx, dto)
	if err != nil {
		return TrainingDTO{}, err
	}
	entity.ID = 0 // ID assignment is owned by the store

	if err := entity.Validate(); err != nil {
		return TrainingDTO{}, err
	}

	saved, err := s.trainings.Insert(ctx, entity)
	if err != nil {
		return TrainingDTO{}, fmt.Errorf("inserting training: %w", err)
	}

	observability.TrainingCreated()
	s.logger.Info("training created",
		"training_id", saved.ID,
		"user_id", saved.UserID,
		"activity", saved.ActivityType.String(),
	)
	return s.mapper.ToDTO(saved), nil
}

// GetByID returns the training with the given ID, or nil if none exists.
// Absence is not an error at this layer; the caller decides how to surface it.
func (s *Service) GetByID(ctx context.Context, id int64) (*TrainingDTO, error) {
	t, err := s.trainings.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding training %d: %w", id, err)
	}
	if t == nil {
		return nil, nil
	}
	dto := s.mapper.ToDTO(t)
	return &dto, nil
}

// ListAll returns all trainings in the store's natural order.
func (s *Service) ListAll(ctx context.Context) ([]TrainingDTO, error) {
	ts, err := s.trainings.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trainings: %w", err)
	}
	return s.mapper.ToDTOs(ts), nil
}

// ListByUser returns the trainings owned by the given user. An unknown user
// yields an empty result; no ownership check is performed on the ID itself.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]TrainingDTO, error) {
	ts, err := s.trainings.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing trainings for user %d: %w", userID, err)
	}
	return s.mapper.ToDTOs(ts), nil
}

// ListEndedAfter returns trainings whose end time is strictly after the
// threshold. A training ending exactly at the threshold is excluded.
func (s *Service) ListEndedAfter(ctx context.Context, threshold time.Time) ([]TrainingDTO, error) {
	ts, err := s.trainings.FindEndedAfter(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("listing trainings ended after %s: %w", threshold, err)
	}
	return s.mapper.ToDTOs(ts), nil
}

// ListByActivity returns trainings with exactly the given activity type.
func (s *Service) ListByActivity(ctx context.Context, activity training.ActivityType) ([]TrainingDTO, error) {
	ts, err := s.trainings.FindByActivity(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("listing trainings for activity %s: %w", activity, err)
	}
	return s.mapper.ToDTOs(ts), nil
}

// UpdateDistance mutates only the distance of an existing training. The
// value is persisted as given; negative distances are accepted.
func (s *Service) UpdateDistance(ctx context.Context, id int64, distance float64) (TrainingDTO, error) {
	t, err := s.trainings.FindByID(ctx, id)
	if err != nil {
		return TrainingDTO{}, fmt.Errorf("finding training %d: %w", id, err)
	}
	if t == nil {
		return TrainingDTO{}, training.ErrTrainingNotFound
	}

	t.Distance = distance

	saved, err := s.trainings.Save(ctx, t)
	if err != nil {
		return TrainingDTO{}, fmt.Errorf("saving training %d: %w", id, err)
	}
	return s.mapper.ToDTO(saved), nil
}

// UpdateFull overwrites start time, end time, activity type, distance, and
// average speed of an existing training. The owner link is immutable after
// creation: a different userId in the DTO is ignored.
func (s *Service) UpdateFull(ctx context.Context, id int64, dto TrainingDTO) (TrainingDTO, error) {
	t, err := s.trainings.FindByID(ctx, id)
	if err != nil {
		return TrainingDTO{}, fmt.Errorf("finding training %d: %w", id, err)
	}
	if t == nil {
		return TrainingDTO{}, training.ErrTrainingNotFound
	}

	activity, err := training.ParseActivityType(dto.ActivityType)
	if err != nil {
		return TrainingDTO{}, err
	}

	t.StartTime = dto.StartTime
	t.EndTime = dto.EndTime
	t.ActivityType = activity
	t.Distance = dto.Distance
	t.AverageSpeed = dto.AverageSpeed

	if err := t.Validate(); err != nil {
		return TrainingDTO{}, err
	}

	saved, err := s.trainings.Save(ctx, t)
	if err != nil {
		return TrainingDTO{}, fmt.Errorf("saving training %d: %w", id, err)
	}
	return s.mapper.ToDTO(saved), nil
}

// ComposeCompletionNotification composes the completion message for a
// training and hands it to the delivery collaborator. Query-and-compose
// only: no persistence. Fails with training.ErrTrainingNotFound for unknown
// IDs and with training.ErrOwnerMissing when the owner was deleted after
// the training was created. Delivery failures are logged, not surfaced.
func (s *Service) ComposeCompletionNotification(ctx context.Context, id int64) (notification.Payload, error) {
	t, err := s.trainings.FindByID(ctx, id)
	if err != nil {
		return notification.Payload{}, fmt.Errorf("finding training %d: %w", id, err)
	}
	if t == nil {
		return notification.Payload{}, training.ErrTrainingNotFound
	}

	owner, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		return notification.Payload{}, fmt.Errorf("resolving training owner %d: %w", t.UserID, err)
	}
	if owner == nil {
		return notification.Payload{}, training.ErrOwnerMissing
	}

	payload := notification.ComposeCompletion(t, owner)
	observability.NotificationComposed()

	if s.sender != nil {
		if err := s.sender.Send(ctx, payload); err != nil {
			observability.NotificationSendFailed()
			s.logger.Warn("completion notification delivery failed",
				"training_id", t.ID,
				"recipient", payload.RecipientAddress,
				"error", err,
			)
		}
	}

	return payload, nil
}
