package model

import "strings"

// Round is one stage of a single-elimination bracket.
type Round string

// Bracket rounds, largest field first.
const (
	RoundTop64     Round = "Top 64"
	RoundTop32     Round = "Top 32"
	RoundTop16     Round = "Top 16"
	RoundGreat8    Round = "Great 8"
	RoundSemifinal Round = "Semifinal"
	RoundFinal     Round = "Final"
)

// Rounds is the fixed bracket order.
var Rounds = []Round{RoundTop64, RoundTop32, RoundTop16, RoundGreat8, RoundSemifinal, RoundFinal}

// Rank returns the 1-based position of r in Rounds, or 0 for an unknown round.
func (r Round) Rank() int {
	for i, v := range Rounds {
		if v == r {
			return i + 1
		}
	}
	return 0
}

// Valid reports whether r is one of the fixed rounds.
func (r Round) Valid() bool { return r.Rank() > 0 }

// ParseRound matches s against the round names, ignoring case and surrounding space.
func ParseRound(s string) (Round, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Rounds {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Side names the winner of a battle.
type Side string

// Battle sides.
const (
	SideDriver  Side = "driver"
	SideSpotter Side = "spotter"
)

// Valid reports whether s is a battle side.
func (s Side) Valid() bool { return s == SideDriver || s == SideSpotter }

// BattleStatus is derived from the whole bracket and never stored.
type BattleStatus string

// Battle statuses.
const (
	StatusCompleted BattleStatus = "Completed"
	StatusActive    BattleStatus = "Active"
	StatusUpcoming  BattleStatus = "Upcoming"
)

// Battle is a head-to-head matchup in a given round.
type Battle struct {
	ID       string `json:"id"`
	Driver   string `json:"driver"`
	Spotter  string `json:"spotter"`
	Round    Round  `json:"round"`
	Winner   *Side  `json:"winner,omitempty"`
	Favorite bool   `json:"favorite"`
	Order    int    `json:"order"`
}

// Completed reports whether a winner has been recorded.
func (b Battle) Completed() bool { return b.Winner != nil }
