package dto

import (
	"time"

	"github.com/gestio-app/gestio/internal/model"
)

// UserResponse is the client-facing user shape. There is deliberately no
// password field: account hashes never leave the service.
type UserResponse struct {
	ID              uint      `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Tel             string    `json:"tel,omitempty"`
	Role            string    `json:"role"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// NewUserResponse maps a stored user onto the client shape.
func NewUserResponse(u *model.User) UserResponse {
	resp := UserResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Role:            u.Role,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Tel != nil {
		resp.Tel = *u.Tel
	}
	return resp
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName" binding:"omitempty,min=3,max=50"`
	LastName  string `json:"lastName" binding:"omitempty,min=3,max=50"`
	Tel       string `json:"tel" binding:"omitempty,min=6,max=20"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}
