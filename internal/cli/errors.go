package cli

import (
	"github.com/pkg/errors"

	"github.com/aidanlsb/chronify/internal/chronify"
	"github.com/aidanlsb/chronify/internal/config"
	"github.com/aidanlsb/chronify/internal/duration"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts.
const (
	// Interpretation errors
	ErrInvalidTimeExpression = "INVALID_TIME_EXPRESSION"
	ErrMalformedDuration     = "MALFORMED_DURATION"
	ErrInvalidArgument       = "INVALID_ARGUMENT"

	// Config errors
	ErrConfigInvalid = "CONFIG_INVALID"

	// File errors
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnUnresolvedTag = "UNRESOLVED_TAG"
	WarnOpenRange     = "OPEN_RANGE"
)

// errorCode maps a domain error to its stable code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, chronify.ErrInvalidTimeExpression):
		return ErrInvalidTimeExpression
	case errors.Is(err, duration.ErrMalformedDuration):
		return ErrMalformedDuration
	case errors.Is(err, duration.ErrInvalidArgument):
		return ErrInvalidArgument
	case errors.Is(err, config.ErrInvalidConfig):
		return ErrConfigInvalid
	default:
		return ErrInternal
	}
}
