package apperr

import (
	"errors"

	"github.com/sudo-init-do/rentaskill/internal/store"
)

// FromStore translates a store failure. what names the record, e.g. "task".
func FromStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return NotFound(what + " not found")
	case errors.Is(err, store.ErrInsufficientBalance):
		return Invalid("insufficient balance")
	case errors.Is(err, store.ErrConflict):
		return Conflict(what + " already exists")
	}
	return Upstream("failed to access "+what, err)
}
