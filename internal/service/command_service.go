package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/internal/logger"
	"github.com/barrybecker4/conquest-engine/internal/model"
	"github.com/barrybecker4/conquest-engine/internal/repository"
	"github.com/barrybecker4/conquest-engine/pkg/ai"
	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrNotInGame    = errors.New("you are not seated in this game")
	ErrWrongTurn    = errors.New("it is not your turn")
)

// CommandInput is the request payload for applying one engine command.
type CommandInput struct {
	Kind    string            `json:"kind"` // ARMY_MOVE, BUILD, END_TURN, RESIGN
	Source  int               `json:"source,omitempty"`
	Target  int               `json:"target,omitempty"`
	Count   int               `json:"count,omitempty"`
	Upgrade engine.UpgradeIndex `json:"upgrade,omitempty"`
}

// CommandService validates and applies ArmyMove/Build/EndTurn/Resign
// commands against pkg/engine, persists the result, triggers the AI
// policy when the new current player is a bot, and broadcasts the
// resulting game state update.
type CommandService struct {
	gameRepo    repository.GameRepository
	turnRepo    repository.TurnRepository
	cache       repository.GameCache
	broadcaster Broadcaster
	turnSeconds int
	aiBudget    time.Duration
}

// NewCommandService creates a CommandService.
func NewCommandService(
	gameRepo repository.GameRepository,
	turnRepo repository.TurnRepository,
	cache repository.GameCache,
	broadcaster Broadcaster,
	turnSeconds int,
	aiBudget time.Duration,
) *CommandService {
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &CommandService{
		gameRepo:    gameRepo,
		turnRepo:    turnRepo,
		cache:       cache,
		broadcaster: broadcaster,
		turnSeconds: turnSeconds,
		aiBudget:    aiBudget,
	}
}

// Apply validates that userID controls the active slot, applies in, and
// drives any trailing AI turns until a human becomes active or the game
// ends. Returns the resulting state.
func (s *CommandService) Apply(ctx context.Context, gameID, userID string, in CommandInput) (*engine.GameState, error) {
	game, st, err := s.loadActive(ctx, gameID)
	if err != nil {
		return nil, err
	}

	slot, err := slotForUser(game, userID)
	if err != nil {
		return nil, err
	}
	if in.Kind != "RESIGN" && st.CurrentPlayerSlot != slot {
		return nil, ErrWrongTurn
	}

	result := applyCommand(st, slot, in)
	if !result.Success {
		return nil, result.Err
	}
	next := result.NewState

	if err := s.persistMove(ctx, gameID, st, slot, in); err != nil {
		return nil, err
	}

	next = s.runBotTurns(ctx, gameID, game, next)

	if err := s.commit(ctx, gameID, next); err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastGameEvent(gameID, "gameStateUpdate", next)
	return next, nil
}

// ApplySystemEndTurn forces an EndTurn on behalf of whichever player is
// currently active, bypassing the acting-user check. Used by TurnTimer when
// a human's per-turn deadline expires.
func (s *CommandService) ApplySystemEndTurn(ctx context.Context, gameID string) (*engine.GameState, error) {
	game, st, err := s.loadActive(ctx, gameID)
	if err != nil {
		return nil, err
	}

	result := engine.EndTurnCommand(st)
	if !result.Success {
		return nil, result.Err
	}
	next := s.runBotTurns(ctx, gameID, game, result.NewState)

	if err := s.commit(ctx, gameID, next); err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastGameEvent(gameID, "gameStateUpdate", next)
	return next, nil
}

func applyCommand(st *engine.GameState, slot int, in CommandInput) engine.CommandResult {
	switch in.Kind {
	case "ARMY_MOVE":
		return engine.ArmyMoveCommand(st, in.Source, in.Target, in.Count)
	case "BUILD":
		return engine.BuildCommand(st, in.Source, in.Upgrade)
	case "END_TURN":
		return engine.EndTurnCommand(st)
	case "RESIGN":
		return engine.ResignCommand(st, slot)
	default:
		return engine.CommandResult{Success: false, Err: fmt.Errorf("unknown command kind %q", in.Kind)}
	}
}

// runBotTurns lets AI-controlled slots play automatically, one at a time,
// until control returns to a human or the game ends (§4.9's personality
// policy pipeline drives each bot turn to completion).
func (s *CommandService) runBotTurns(ctx context.Context, gameID string, game *model.Game, st *engine.GameState) *engine.GameState {
	for {
		if ended, _ := engine.IsGameEnded(st); ended {
			return st
		}
		player := st.Player(st.CurrentPlayerSlot)
		if player == nil || !player.IsAI {
			return st
		}

		_ = s.cache.SetAIThinking(ctx, gameID, true)
		st = ai.TakeTurn(st, player.SlotIndex, s.aiBudget)
		_ = s.cache.SetAIThinking(ctx, gameID, false)

		log.Info().Str("gameId", gameID).Int("slot", player.SlotIndex).Msg("bot turn complete")
	}
}

func (s *CommandService) loadActive(ctx context.Context, gameID string) (*model.Game, *engine.GameState, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if game == nil {
		return nil, nil, ErrGameNotFound
	}

	raw, err := s.cache.GetGameState(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("no live state cached for game %s", gameID)
	}
	var st engine.GameState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, nil, fmt.Errorf("unmarshal game state: %w", err)
	}
	return game, &st, nil
}

func (s *CommandService) persistMove(ctx context.Context, gameID string, before *engine.GameState, slot int, in CommandInput) error {
	move := model.MoveRecord{
		GameID:     gameID,
		TurnNumber: before.TurnNumber,
		SlotIndex:  slot,
		Kind:       in.Kind,
		Source:     in.Source,
		Target:     in.Target,
		Count:      in.Count,
		Upgrade:    in.Upgrade.String(),
	}
	if err := s.turnRepo.SaveMove(ctx, move); err != nil {
		return fmt.Errorf("save move: %w", err)
	}
	logger.LogCommand(log.Logger, gameID, before.TurnNumber, in.Kind)
	return nil
}

// commit writes the new live state to Redis, then either marks the game
// finished and clears the turn deadline, or sets a fresh turn deadline.
// It does not create or resolve TurnRecords.
func (s *CommandService) commit(ctx context.Context, gameID string, next *engine.GameState) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("marshal game state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, raw); err != nil {
		return fmt.Errorf("set game state: %w", err)
	}

	if ended, _ := engine.IsGameEnded(next); ended {
		winner, _ := engine.Winner(next)
		if err := s.gameRepo.SetFinished(ctx, gameID, fmt.Sprintf("%d", winner)); err != nil {
			return fmt.Errorf("set finished: %w", err)
		}
		return s.cache.ClearTurnDeadline(ctx, gameID)
	}

	deadline := time.Now().Add(time.Duration(s.turnSeconds) * time.Second)
	return s.cache.SetTurnDeadline(ctx, gameID, deadline)
}

func slotForUser(game *model.Game, userID string) (int, error) {
	for _, p := range game.Players {
		if !p.IsBot && p.UserID == userID {
			return p.SlotIndex, nil
		}
	}
	return 0, ErrNotInGame
}
