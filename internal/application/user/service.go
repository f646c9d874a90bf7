package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// Service orchestrates user use-cases. Deleting a user does not cascade to
// trainings: composing a notification for an orphaned training fails with a
// distinct owner-missing error on the training side.
type Service struct {
	users  user.Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(users user.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{users: users, logger: logger}
}

// Create persists a new user. A DTO carrying an ID is rejected: ID
// assignment is owned by the store.
func (s *Service) Create(ctx context.Context, dto UserDTO) (UserDTO, error) {
	if dto.ID != nil {
		return UserDTO{}, user.ErrHasID
	}

	entity := toEntity(dto)
	if err := entity.Validate(); err != nil {
		return UserDTO{}, err
	}

	saved, err := s.users.Insert(ctx, entity)
	if err != nil {
		return UserDTO{}, fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Info("user created", "user_id", saved.ID, "email", saved.Email)
	return toDTO(saved), nil
}

// GetByID returns the user with the given ID, or nil if none exists.
func (s *Service) GetByID(ctx context.Context, id int64) (*UserDTO, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding user %d: %w", id, err)
	}
	if u == nil {
		return nil, nil
	}
	dto := toDTO(u)
	return &dto, nil
}

// GetByEmail returns the user with the exact email, or nil if none exists.
func (s *Service) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	dto := toDTO(u)
	return &dto, nil
}

// ListAll returns all users.
func (s *Service) ListAll(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return toDTOs(users), nil
}

// Update overwrites the mutable fields of an existing user.
func (s *Service) Update(ctx context.Context, id int64, dto UserDTO) (UserDTO, error) {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return UserDTO{}, fmt.Errorf("finding user %d: %w", id, err)
	}
	if existing == nil {
		return UserDTO{}, user.ErrUserNotFound
	}

	existing.FirstName = dto.FirstName
	existing.LastName = dto.LastName
	existing.Birthdate = dto.Birthdate
	existing.Email = dto.Email

	if err := existing.Validate(); err != nil {
		return UserDTO{}, err
	}

	saved, err := s.users.Save(ctx, existing)
	if err != nil {
		return UserDTO{}, fmt.Errorf("saving user %d: %w", id, err)
	}
	return toDTO(saved), nil
}

// Delete removes a user. Existing trainings keep their owner reference;
// the dangling link surfaces as an owner-missing error when a notification
// is composed for them.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// SearchByEmail returns users whose email contains the fragment,
// case-insensitively.
func (s *Service) SearchByEmail(ctx context.Context, fragment string) ([]UserDTO, error) {
	users, err := s.users.SearchByEmail(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("searching users by email: %w", err)
	}
	return toDTOs(users), nil
}

// ListOlderThan returns users strictly older than the given age in years.
func (s *Service) ListOlderThan(ctx context.Context, age int) ([]UserDTO, error) {
	cutoff := time.Now().AddDate(-age, 0, 0)
	users, err := s.users.FindBornBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("listing users older than %d: %w", age, err)
	}
	return toDTOs(users), nil
}
