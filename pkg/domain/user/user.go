package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wealthdash/wealthdash/pkg/utils"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match a user.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrUsernameRequired is returned when signing up without a username.
	ErrUsernameRequired = errors.New("username cannot be empty")
	// ErrUsernameHasAt is returned for usernames that would be mistaken for an email at login.
	ErrUsernameHasAt = errors.New("username cannot contain '@'")
	// ErrInvalidEmail is returned when the email address does not parse.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrPasswordTooShort is returned for passwords shorter than MinPasswordLength.
	ErrPasswordTooShort = errors.New("password is too short")
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// User represents a user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created"`
	UpdatedAt time.Time `json:"updated"`
}

// NewUser validates sign-up input and creates a User with a hashed password.
func NewUser(username, email, password, fullName, phone string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if strings.Contains(username, "@") {
		return nil, ErrUsernameHasAt
	}
	email = utils.NormalizeEmail(email)
	if !utils.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FullName:  strings.TrimSpace(fullName),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return utils.CheckPasswordHash(password, u.Password)
}
