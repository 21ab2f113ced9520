package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrBattleNotFound = errors.New("battle not found")
	ErrInvalidOrder   = errors.New("order is not a permutation of the current battles")
)
