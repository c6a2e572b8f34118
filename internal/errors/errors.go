// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrCampaignNotFound is returned when a campaign is not open in the service
type ErrCampaignNotFound struct {
	CampaignID string
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %s not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id string) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ValidationError is a user-correctable input problem. The operation that
// returned it did not change anything.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvariantViolation means an operation would break a structural rule of the
// campaign (winning mode, condition bijection).
type InvariantViolation struct {
	Invariant string
	Reason    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", e.Invariant, e.Reason)
}

func NewInvariantViolation(invariant, reason string) error {
	return &InvariantViolation{Invariant: invariant, Reason: reason}
}

// StorageError wraps a persistence gateway failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Invariant names
const (
	InvariantWinningMode = "winning_mode"
	InvariantConditions  = "condition_bijection"
	InvariantActions     = "action_priority"
	InvariantProfile     = "profile_lock"
)

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsInvariant(err error) bool {
	var v *InvariantViolation
	return errors.As(err, &v)
}

func IsStorage(err error) bool {
	var v *StorageError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *ErrCampaignNotFound
	return errors.As(err, &v)
}
