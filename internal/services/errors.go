package services

import (
	"errors"
	"fmt"

	"github.com/anonto42/proconnect/backend/internal/repositories"
)

// Error families. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrEmailTaken        = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAlreadyPending    = fmt.Errorf("%w: connection request already pending", ErrConflict)
	ErrAlreadyConnected  = fmt.Errorf("%w: already connected", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: request already answered", ErrConflict)
	ErrAlreadyApplied    = fmt.Errorf("%w: already applied to this job", ErrConflict)
	ErrAlreadyFollowing  = fmt.Errorf("%w: already following this company", ErrConflict)
	ErrConcurrentUpdate  = fmt.Errorf("%w: resource changed concurrently, retry", ErrConflict)

	ErrJobNotFoundOrClosed = fmt.Errorf("job %w or closed", ErrNotFound)

	ErrSelfAction      = fmt.Errorf("%w: cannot target your own account", ErrValidation)
	ErrInvalidReaction = fmt.Errorf("%w: unknown reaction type", ErrValidation)
	ErrInvalidTarget   = fmt.Errorf("%w: unknown reaction target", ErrValidation)
	ErrInvalidID       = fmt.Errorf("%w: malformed id", ErrValidation)

	ErrUsersOnly     = fmt.Errorf("%w: only user accounts can do this", ErrForbidden)
	ErrCompaniesOnly = fmt.Errorf("%w: only company accounts can do this", ErrForbidden)
	ErrNotOwner      = fmt.Errorf("%w: you do not own this resource", ErrForbidden)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// storeError turns repository sentinels into domain errors; what names the
// entity, e.g. "post".
func storeError(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%s %w", what, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}
