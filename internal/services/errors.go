package services

import (
	"errors"
	"fmt"

	"github.com/prathvinaik206-create/farmdirect/internal/storage"
)

var (
	// ErrInvalidInput marks a request the caller must correct and resubmit.
	ErrInvalidInput = errors.New("invalid input")
	// ErrStorage marks a persistence or query failure.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidCredentials is returned by Login for any credential mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

// storageErr keeps storage.ErrNotFound and storage.ErrAlreadyExists visible
// to errors.Is and marks everything else as ErrStorage.
func storageErr(op string, err error) error {
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrAlreadyExists) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
