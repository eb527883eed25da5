package user

import (
	"time"

	"github.com/wealthdash/wealthdash/pkg/dto"
)

// NewUser represents the request body for signing up.
type NewUser struct {
	Username string `json:"username" validate:"required,max=50,min=3,excludes=@"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"max=255"`
	Phone    string `json:"phone" validate:"max=32"`
}

// UpdateProfileInput represents the settings form. Absent fields are unchanged.
type UpdateProfileInput struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6,max=72"`
}

// ProfileDTO is the public view of a user.
type ProfileDTO struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProfileDTO drops the password hash.
func ToProfileDTO(u *dto.UserRead) ProfileDTO {
	return ProfileDTO{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}
