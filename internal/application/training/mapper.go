package training

import (
	"context"
	"fmt"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/training"
	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// Mapper converts between the wire DTO and the domain entity. Entity
// construction resolves the owning user through the injected lookup, which
// keeps invalid owner references out of the store entirely.
type Mapper struct {
	users user.Provider
}

// NewMapper creates a Mapper backed by the given user lookup.
func NewMapper(users user.Provider) *Mapper {
	return &Mapper{users: users}
}

// ToEntity converts a DTO to a domain entity. The owner reference is
// resolved first; an unknown user fails with training.ErrOwnerNotFound
// before any store interaction. The ID is carried over only when the DTO
// supplies one, so freshly created trainings stay unidentified until the
// store assigns an ID.
func (m *Mapper) ToEntity(ctx context.Context, dto TrainingDTO) (*training.Training, error) {
	owner, err := m.users.FindByID(ctx, dto.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolving training owner %d: %w", dto.UserID, err)
	}
	if owner == nil {
		return nil, training.ErrOwnerNotFound
	}

	activity, err := training.ParseActivityType(dto.ActivityType)
	if err != nil {
		return nil, err
	}

	t := &training.Training{
		UserID:       owner.ID,
		StartTime:    dto.StartTime,
		EndTime:      dto.EndTime,
		ActivityType: activity,
		Distance:     dto.Distance,
		AverageSpeed: dto.AverageSpeed,
	}
	if dto.ID != nil {
		t.ID = *dto.ID
	}
	return t, nil
}

// ToDTO converts a persisted entity to its wire representation. Total
// function: entities reaching this point are always fully populated.
func (m *Mapper) ToDTO(t *training.Training) TrainingDTO {
	id := t.ID
	return TrainingDTO{
		ID:           &id,
		UserID:       t.UserID,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		ActivityType: t.ActivityType.String(),
		Distance:     t.Distance,
		AverageSpeed: t.AverageSpeed,
	}
}

// ToDTOs maps a slice of entities.
func (m *Mapper) ToDTOs(ts []*training.Training) []TrainingDTO {
	dtos := make([]TrainingDTO, 0, len(ts))
	for _, t := range ts {
		dtos = append(dtos, m.ToDTO(t))
	}
	return dtos
}
