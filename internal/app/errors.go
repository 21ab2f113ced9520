package service

import "errors"

// Service errors. Store errors (repository.ErrTeamNotFound and friends)
// pass through unchanged.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrStopped         = errors.New("service stopped")
	ErrInvalidContact  = errors.New("contact name must not be empty")
	ErrInvalidTeam     = errors.New("team name must not be empty")
	ErrInvalidTeamType = errors.New("team type must be pro or amateur")
	ErrInvalidRole     = errors.New("unknown role")
	ErrInvalidBattle   = errors.New("battle needs a driver, a spotter and a known round")
	ErrInvalidSide     = errors.New("winner must be driver or spotter")
	ErrBattleNotActive = errors.New("battle is not the active battle")
	ErrEmptyMessage    = errors.New("message text must not be empty")
	ErrInvalidCallout  = errors.New("invalid callout")
)
