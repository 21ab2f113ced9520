package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/okian/pitcrew/internal/domain/bracket"
	"github.com/okian/pitcrew/internal/domain/model"
)

// BattleStore holds the bracket in manual order.
type BattleStore struct {
	base
	mu      sync.RWMutex
	battles []model.Battle
}

// NewBattleStore creates an empty bracket.
func NewBattleStore(opts ...Option) *BattleStore {
	return &BattleStore{base: newBase(opts)}
}

// ValidBattle is the predicate Add uses; callers check it up front.
func ValidBattle(driver, spotter string, round model.Round) bool {
	return strings.TrimSpace(driver) != "" && strings.TrimSpace(spotter) != "" && round.Valid()
}

// Add appends a battle at the end of the manual order. It is a no-op
// returning false unless both names are set and round is valid.
func (s *BattleStore) Add(_ context.Context, driver, spotter string, round model.Round) (model.Battle, bool) {
	if !ValidBattle(driver, spotter, round) {
		return model.Battle{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := model.Battle{
		ID:      s.newID(),
		Driver:  strings.TrimSpace(driver),
		Spotter: strings.TrimSpace(spotter),
		Round:   round,
		Order:   len(s.battles),
	}
	s.battles = append(s.battles, b)
	return b, true
}

// SetWinner records side as the winner. It does not check the battle's
// status and may overwrite an earlier winner.
func (s *BattleStore) SetWinner(_ context.Context, id string, side model.Side) (model.Battle, error) {
	return s.update(id, func(b *model.Battle) {
		w := side
		b.Winner = &w
	})
}

// SetWinnerIf records side only when check accepts the current bracket.
// check runs under the store lock, so the decision and the write are atomic.
func (s *BattleStore) SetWinnerIf(_ context.Context, id string, side model.Side, check func(battles []model.Battle, id string) error) (model.Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Battle{}, ErrBattleNotFound
	}
	if err := check(s.battles, id); err != nil {
		return model.Battle{}, err
	}
	w := side
	s.battles[i].Winner = &w
	return s.battles[i], nil
}

// ToggleFavorite flips the favorite flag.
func (s *BattleStore) ToggleFavorite(_ context.Context, id string) (model.Battle, error) {
	return s.update(id, func(b *model.Battle) { b.Favorite = !b.Favorite })
}

// Delete removes a battle. Unknown ids are ignored.
func (s *BattleStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.battles = slices.DeleteFunc(s.battles, func(b model.Battle) bool { return b.ID == id })
}

// Reorder replaces the manual order with ids, which must name every
// battle exactly once. Order fields are rewritten to the new positions.
func (s *BattleStore) Reorder(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !bracket.IsPermutation(s.battles, ids) {
		return ErrInvalidOrder
	}
	byID := make(map[string]model.Battle, len(s.battles))
	for _, b := range s.battles {
		byID[b.ID] = b
	}
	next := make([]model.Battle, len(ids))
	for i, id := range ids {
		b := byID[id]
		b.Order = i
		next[i] = b
	}
	s.battles = next
	return nil
}

// List returns a snapshot in manual order.
func (s *BattleStore) List(_ context.Context) []model.Battle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Clone(s.battles)
	for i := range out {
		if out[i].Winner != nil {
			w := *out[i].Winner
			out[i].Winner = &w
		}
	}
	return out
}

// Count returns the number of battles.
func (s *BattleStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.battles)
}

func (s *BattleStore) update(id string, fn func(*model.Battle)) (model.Battle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return model.Battle{}, ErrBattleNotFound
	}
	fn(&s.battles[i])
	return s.battles[i], nil
}

func (s *BattleStore) indexOf(id string) int {
	return slices.IndexFunc(s.battles, func(b model.Battle) bool { return b.ID == id })
}
