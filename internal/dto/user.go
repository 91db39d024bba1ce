package dto

import (
	"time"

	"github.com/vastsea/vastsea-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorDTO is the author identity embedded in problem responses.
// The password hash is never part of any response shape.
type AuthorDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToAuthorDTO converts a User model to the embedded author shape
func ToAuthorDTO(user models.User) AuthorDTO {
	return AuthorDTO{
		Name:  user.Name,
		Email: user.Email,
	}
}
