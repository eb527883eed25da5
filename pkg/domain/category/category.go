// Package category holds the labels transactions are filed under.
package category

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNameRequired is returned when a category name is empty.
	ErrNameRequired = errors.New("category name is required")
	// ErrNameTooLong is returned when a category name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("category name is too long")
	// ErrInvalidType is returned for categories that are neither Expense nor Income.
	ErrInvalidType = errors.New("invalid category type")
	// ErrDuplicate is returned when a user already has the category, including defaults.
	ErrDuplicate = errors.New("category already exists")
	// ErrReserved is returned when a user tries to register the transfer label.
	ErrReserved = errors.New("category name is reserved")
	// ErrUnknown is returned when a draft picks a category the user does not have.
	ErrUnknown = errors.New("unknown category, choose one or add a new one")
)

// MaxNameLength is the longest category name accepted.
const MaxNameLength = 50

// Transfer is the fixed label of every transfer. It cannot be registered.
const Transfer = "Transfer"

// Type groups categories by the kind of transaction they label.
type Type string

const (
	Expense Type = "Expense"
	Income  Type = "Income"
)

// Valid reports whether t is Expense or Income.
func (t Type) Valid() bool {
	return t == Expense || t == Income
}

var defaults = map[Type][]string{
	Expense: {"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health", "Education"},
	Income:  {"Salary", "Freelance", "Investments", "Gift"},
}

// Defaults returns the built-in categories for t. The slice is a copy.
func Defaults(t Type) []string {
	return append([]string(nil), defaults[t]...)
}

// DefaultFor is the category preselected for a new transaction of type t.
func DefaultFor(t Type) string {
	if d := defaults[t]; len(d) > 0 {
		return d[0]
	}
	return ""
}

// IsDefault reports whether name is a built-in category of type t, ignoring case.
func IsDefault(t Type, name string) bool {
	for _, d := range defaults[t] {
		if strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// Category is a user-defined label.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      Type
	CreatedAt time.Time
}

// New validates and constructs a user category.
func New(userID uuid.UUID, name string, t Type) (*Category, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	if strings.EqualFold(name, Transfer) {
		return nil, ErrReserved
	}
	if IsDefault(t, name) {
		return nil, ErrDuplicate
	}
	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ValidateName trims and checks a category name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if len([]rune(name)) > MaxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}

// Merge returns the defaults of t followed by the user's own names.
func Merge(t Type, custom []*Category) []string {
	names := Defaults(t)
	for _, c := range custom {
		if c.Type == t {
			names = append(names, c.Name)
		}
	}
	return names
}
