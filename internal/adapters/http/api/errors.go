package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/pitcrew/internal/adapters/repository"
	service "github.com/okian/pitcrew/internal/app"
)

// ErrBadRequest tags request errors found by the handlers themselves.
var (
	ErrBadRequest = errors.New("bad request")
)

// Wrap prefixes err with the operation that failed.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with kind so it maps to a status code, keeping err in the chain.
func WrapKind(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns a new error of the given kind.
func NewKind(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

// classify maps an error to an HTTP status and an error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidContact),
		errors.Is(err, service.ErrInvalidTeam),
		errors.Is(err, service.ErrInvalidTeamType),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidBattle),
		errors.Is(err, service.ErrInvalidSide),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrInvalidCallout),
		errors.Is(err, repository.ErrInvalidOrder):
		return http.StatusBadRequest, "bad_request"
	case service.IsNotFound(err):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrBattleNotActive):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
