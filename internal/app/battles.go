package service

import (
	"context"

	"github.com/okian/pitcrew/internal/domain/bracket"
	"github.com/okian/pitcrew/internal/domain/model"
	"github.com/okian/pitcrew/internal/domain/types"
	"github.com/okian/pitcrew/pkg/logger"
	"github.com/okian/pitcrew/pkg/metrics"
)

// Battles returns the bracket view: manual order while editing, round order otherwise.
func (s *Service) Battles(ctx context.Context, editing bool) []types.BattleEntry {
	return bracket.View(s.stores.Battles.List(ctx), editing)
}

// AddBattle appends a battle at the end of the manual order.
func (s *Service) AddBattle(ctx context.Context, driver, spotter string, round model.Round) (model.Battle, error) {
	b, ok := s.stores.Battles.Add(ctx, driver, spotter, round)
	if !ok {
		return model.Battle{}, ErrInvalidBattle
	}
	metrics.UpdateBattles(s.stores.Battles.Count(ctx))
	return b, nil
}

// SetWinner records the winner of a battle. With strict winners enabled
// only the active battle accepts a winner; otherwise any battle does,
// including one that already has a winner.
func (s *Service) SetWinner(ctx context.Context, id string, side model.Side) (model.Battle, error) {
	if !side.Valid() {
		return model.Battle{}, ErrInvalidSide
	}
	var wasCompleted bool
	b, err := s.stores.Battles.SetWinnerIf(ctx, id, side, func(battles []model.Battle, id string) error {
		active := bracket.Active(battles)
		for i := range battles {
			if battles[i].ID == id {
				wasCompleted = battles[i].Completed()
				if s.strictWinner && i != active {
					return ErrBattleNotActive
				}
			}
		}
		return nil
	})
	if err != nil {
		return model.Battle{}, err
	}
	if !wasCompleted {
		metrics.RecordBattleCompleted()
	}
	s.logger.Info(ctx, "winner recorded",
		logger.String("battle_id", b.ID),
		logger.String("winner", string(side)),
		logger.String("round", string(b.Round)),
	)
	return b, nil
}

// ToggleFavorite flips the favorite flag of a battle.
func (s *Service) ToggleFavorite(ctx context.Context, id string) (model.Battle, error) {
	return s.stores.Battles.ToggleFavorite(ctx, id)
}

// DeleteBattle removes a battle. Unknown ids are ignored.
func (s *Service) DeleteBattle(ctx context.Context, id string) {
	s.stores.Battles.Delete(ctx, id)
	metrics.UpdateBattles(s.stores.Battles.Count(ctx))
}

// ReorderBattles replaces the manual order. ids must be a permutation of the current battles.
func (s *Service) ReorderBattles(ctx context.Context, ids []string) error {
	return s.stores.Battles.Reorder(ctx, ids)
}
