package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterUserRequest struct {
	Username          string `json:"username" validate:"required,min=3,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=6"`
	Role              string `json:"role" validate:"omitempty,oneof=user agent"`
	ProfilePictureUrl string `json:"profilePictureUrl" validate:"omitempty,url"`
}

type UpdateUserRequest struct {
	Username          string `json:"username" validate:"omitempty,min=3,max=100"`
	Password          string `json:"password" validate:"omitempty,min=6"`
	ProfilePictureUrl string `json:"profilePictureUrl" validate:"omitempty,url"`
}

type UserResponse struct {
	Id                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Available         bool      `json:"available"`
	ProfilePictureUrl string    `json:"profilePictureUrl,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
