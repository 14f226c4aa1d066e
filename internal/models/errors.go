package models

import (
	"errors"
	"fmt"
)

var (
	ErrPublisherNotFound  = errors.New("publisher not found")
	ErrWebsiteNotFound    = errors.New("website not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrNoRecord           = errors.New("models: no matching record found")
)

// InvalidTransitionError reports an operation attempted from a state that
// does not permit it.
type InvalidTransitionError struct {
	Entity string
	From   string
	Action string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s in status %q does not allow %s", e.Entity, e.From, e.Action)
}

// ValidationError reports malformed or unacceptable input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// OwnershipError reports an entity that does not belong to the acting
// publisher.
type OwnershipError struct {
	Entity      string
	ID          int
	PublisherID int
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("%s %d does not belong to publisher %d", e.Entity, e.ID, e.PublisherID)
}
