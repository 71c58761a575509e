package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// This is a generic version of the entity-specific not found errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrQuestionNotFound indicates that the requested question does not exist
	// or is no longer active.
	ErrQuestionNotFound = fmt.Errorf("%w: question", ErrNotFound)

	// ErrLearningStateNotFound indicates that no learning state exists yet
	// for the requested user and question.
	ErrLearningStateNotFound = fmt.Errorf("%w: learning state", ErrNotFound)

	// ErrAttemptNotFound indicates that no attempt record matches the
	// requested idempotency key.
	ErrAttemptNotFound = fmt.Errorf("%w: attempt", ErrNotFound)

	// ErrBookmarkNotFound indicates that the requested bookmark does not exist.
	ErrBookmarkNotFound = fmt.Errorf("%w: bookmark", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrDuplicateAttempt indicates that an attempt record with the same
	// (user, idempotency key) pair was already committed. This is the atomic
	// signal that a submission was processed before; callers must return the
	// previously recorded outcome instead of re-applying the update.
	ErrDuplicateAttempt = fmt.Errorf("%w: attempt", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
