// Package bracket derives battle status and display order from a bracket snapshot.
//
// Every function here is pure: callers pass a snapshot and get a fresh
// result, so status can never drift from the winner and round fields.
package bracket

import (
	"slices"

	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/internal/domain/types"
)

// Active returns the index of the active battle, or -1 when every battle
// has a winner. The active battle is the first battle without a winner
// whose round is earliest in bracket order.
func Active(battles []model.Battle) int {
	idx := -1
	best := 0
	for i, b := range battles {
		if b.Completed() {
			continue
		}
		rank := b.Round.Rank()
		if idx == -1 || rank < best {
			idx, best = i, rank
		}
	}
	return idx
}

// Status returns the derived status of the battle with the given id.
// The second result is false if id is not in battles.
func Status(battles []model.Battle, id string) (model.BattleStatus, bool) {
	active := Active(battles)
	for i, b := range battles {
		if b.ID != id {
			continue
		}
		return statusAt(battles, i, active), true
	}
	return "", false
}

// Statuses derives the status of every battle, keyed by id.
func Statuses(battles []model.Battle) map[string]model.BattleStatus {
	active := Active(battles)
	out := make(map[string]model.BattleStatus, len(battles))
	for i, b := range battles {
		out[b.ID] = statusAt(battles, i, active)
	}
	return out
}

func statusAt(battles []model.Battle, i, active int) model.BattleStatus {
	switch {
	case battles[i].Completed():
		return model.StatusCompleted
	case i == active:
		return model.StatusActive
	default:
		return model.StatusUpcoming
	}
}

// SortByRound returns a copy of battles sorted ascending by round.
// Battles in the same round keep their relative order.
func SortByRound(battles []model.Battle) []model.Battle {
	out := slices.Clone(battles)
	slices.SortStableFunc(out, func(a, b model.Battle) int {
		return a.Round.Rank() - b.Round.Rank()
	})
	return out
}

// View builds the rows shown to the user. While editing, the manual order
// is returned verbatim; otherwise rows are sorted by round.
func View(battles []model.Battle, editing bool) []types.BattleEntry {
	statuses := Statuses(battles)
	rows := battles
	if !editing {
		rows = SortByRound(battles)
	}
	out := make([]types.BattleEntry, len(rows))
	for i, b := range rows {
		out[i] = types.BattleEntry{Battle: b, Status: statuses[b.ID]}
	}
	return out
}

// IsPermutation reports whether ids names every battle exactly once.
func IsPermutation(battles []model.Battle, ids []string) bool {
	if len(ids) != len(battles) {
		return false
	}
	want := make(map[string]int, len(battles))
	for _, b := range battles {
		want[b.ID]++
	}
	for _, id := range ids {
		if want[id] == 0 {
			return false
		}
		want[id]--
	}
	return true
}
