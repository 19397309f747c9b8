package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/internal/repository"
)

// RecoveryService rehydrates in-flight games' live GameState into Redis
// from the last persisted TurnRecord on server startup.
type RecoveryService struct {
	gameRepo repository.GameRepository
	turnRepo repository.TurnRepository
	cache    repository.GameCache
}

// NewRecoveryService creates a RecoveryService.
func NewRecoveryService(gameRepo repository.GameRepository, turnRepo repository.TurnRepository, cache repository.GameCache) *RecoveryService {
	return &RecoveryService{gameRepo: gameRepo, turnRepo: turnRepo, cache: cache}
}

// RecoverActiveGames rehydrates Redis state for every active game from
// Postgres, restoring whichever TurnRecord (resolved-after or else
// unresolved-before) holds the most recent authoritative state.
func (s *RecoveryService) RecoverActiveGames(ctx context.Context) error {
	games, err := s.gameRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active games: %w", err)
	}
	if len(games) == 0 {
		log.Info().Msg("no active games to recover")
		return nil
	}

	log.Info().Int("count", len(games)).Msg("recovering active games after restart")

	for _, game := range games {
		if err := s.recoverOne(ctx, game.ID); err != nil {
			log.Error().Err(err).Str("gameId", game.ID).Msg("failed to recover game")
		}
	}
	return nil
}

func (s *RecoveryService) recoverOne(ctx context.Context, gameID string) error {
	turn, err := s.turnRepo.LatestResolvedTurn(ctx, gameID)
	if err != nil {
		return fmt.Errorf("latest resolved turn: %w", err)
	}
	if turn == nil {
		turn, err = s.turnRepo.CurrentTurn(ctx, gameID)
		if err != nil {
			return fmt.Errorf("current turn: %w", err)
		}
	}
	if turn == nil {
		log.Warn().Str("gameId", gameID).Msg("active game has no turn records, skipping")
		return nil
	}

	state := turn.StateAfter
	if state == nil {
		state = turn.StateBefore
	}
	if err := s.cache.SetGameState(ctx, gameID, state); err != nil {
		return fmt.Errorf("restore game state: %w", err)
	}
	if err := s.cache.SetTurnDeadline(ctx, gameID, turn.Deadline); err != nil {
		return fmt.Errorf("restore turn deadline: %w", err)
	}

	log.Info().Str("gameId", gameID).Int("turn", turn.TurnNumber).Msg("recovered game state")
	return nil
}
