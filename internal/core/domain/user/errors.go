package user

import (
	"errors"
	"fmt"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrWeakPassword          = errors.New("password does not meet the strength policy")
)

// StoreError wraps any persistence failure that is not one of the domain errors above.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("account store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
