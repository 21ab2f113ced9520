// Package types contains common read shapes used across the application
package types

import "github.com/okian/pitcrew/internal/domain/model"

// BattleEntry is a battle row together with its derived status
type BattleEntry struct {
	model.Battle
	Status model.BattleStatus `json:"status"`
}

// Ack acknowledges a write that may have been deduplicated
type Ack struct {
	Status    string         `json:"status"`
	Duplicate bool           `json:"duplicate"`
	Message   *model.Message `json:"message,omitempty"`
}
