// Package events defines the notifications published after balance-changing work.
package events

import (
	"github.com/google/uuid"
)

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeTransactionCreated EventType = "Transaction.Created"
	EventTypeTransactionEdited  EventType = "Transaction.Edited"
	EventTypeTransactionDeleted EventType = "Transaction.Deleted"
	EventTypeAccountChanged     EventType = "Account.Changed"
	EventTypeResyncRequired     EventType = "Account.ResyncRequired"
)

// AllTypes lists every event type the services publish.
func AllTypes() []EventType {
	return []EventType{
		EventTypeTransactionCreated,
		EventTypeTransactionEdited,
		EventTypeTransactionDeleted,
		EventTypeAccountChanged,
		EventTypeResyncRequired,
	}
}

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// Event is anything published on the bus.
type Event interface {
	Type() string
	// Owner is the user whose derived data the event invalidates.
	Owner() uuid.UUID
}

// UserEvent carries the fields every event shares.
type UserEvent struct {
	UserID     uuid.UUID
	AccountIDs []uuid.UUID
}

func (e UserEvent) Owner() uuid.UUID { return e.UserID }

// TransactionCreated is published after a transaction and its balance effect are stored.
type TransactionCreated struct {
	UserEvent
	TransactionID uuid.UUID
}

func (TransactionCreated) Type() string { return EventTypeTransactionCreated.String() }

// TransactionEdited is published after an edit has been reconciled.
type TransactionEdited struct {
	UserEvent
	TransactionID uuid.UUID
}

func (TransactionEdited) Type() string { return EventTypeTransactionEdited.String() }

// TransactionDeleted is published after a transaction was reversed and removed.
type TransactionDeleted struct {
	UserEvent
	TransactionID uuid.UUID
}

func (TransactionDeleted) Type() string { return EventTypeTransactionDeleted.String() }

// AccountChanged is published when an account is created, renamed, resynced or removed.
type AccountChanged struct {
	UserEvent
	Action string
}

func (AccountChanged) Type() string { return EventTypeAccountChanged.String() }

// ResyncRequired is published when a failed flow could not be fully compensated.
// Balances of the listed accounts may be wrong until a resync runs.
type ResyncRequired struct {
	UserEvent
	Operation string
	Reason    string
}

func (ResyncRequired) Type() string { return EventTypeResyncRequired.String() }
