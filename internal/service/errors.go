package service

import (
	"errors"
	"fmt"

	"github.com/KirillGluhov/gallery-api/internal/repository"
)

var (
	ErrImageNotFound = repository.ErrImageNotFound
	ErrImageRequired = errors.New("image required")
	ErrDeleteFailed  = errors.New("failed to delete image from database")
)

// StoreError marks a failed data-store query. Op names the aggregate or
// statement that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
