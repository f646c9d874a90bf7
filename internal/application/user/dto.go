// Package user implements the user management service consumed by the HTTP
// layer and, through the domain Provider interface, by the training service.
package user

import (
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// UserDTO is the flat wire representation of a user.
type UserDTO struct {
	ID        *int64    `json:"id,omitempty"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Birthdate time.Time `json:"birthdate"`
	Email     string    `json:"email"`
}

func toEntity(dto UserDTO) *user.User {
	u := &user.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Birthdate: dto.Birthdate,
		Email:     dto.Email,
	}
	if dto.ID != nil {
		u.ID = *dto.ID
	}
	return u
}

func toDTO(u *user.User) UserDTO {
	id := u.ID
	return UserDTO{
		ID:        &id,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Birthdate: u.Birthdate,
		Email:     u.Email,
	}
}

func toDTOs(users []*user.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toDTO(u))
	}
	return dtos
}
