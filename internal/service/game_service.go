package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/barrybecker4/conquest-engine/internal/model"
	"github.com/barrybecker4/conquest-engine/internal/repository"
	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

var (
	ErrGameNotWaiting = errors.New("game is not in waiting status")
	ErrGameFull       = errors.New("lobby is full")
	ErrAlreadyJoined  = errors.New("already joined this game")
	ErrNotCreator     = errors.New("only the creator can do that")
	ErrGameNotActive  = errors.New("game is not active")
	ErrNotEnoughSeats = errors.New("need at least two seated players to start")
)

const maxPlayers = 6

var botPersonalities = []string{"Berserker", "Defender", "Economist", "Pacifist"}

// GameService handles lobby lifecycle: creation, joining, starting, and
// teardown. It never touches pkg/engine's in-progress rules — once a game
// is active, CommandService owns all further state transitions.
type GameService struct {
	gameRepo repository.GameRepository
	cache    repository.GameCache
}

// NewGameService creates a GameService.
func NewGameService(gameRepo repository.GameRepository, cache repository.GameCache) *GameService {
	return &GameService{gameRepo: gameRepo, cache: cache}
}

// CreateGame creates a new game in "waiting" status. The creator
// auto-joins slot 0 unless botOnly is set (useful for AI-vs-AI replays).
func (s *GameService) CreateGame(ctx context.Context, name, creatorID string, maxTurns, turnSeconds int, botOnly bool) (*model.Game, error) {
	rngSeed := fmt.Sprintf("%s-%d", creatorID, len(name))

	game, err := s.gameRepo.Create(ctx, name, creatorID, defaultMapName, maxTurns, rngSeed, turnSeconds)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	if !botOnly {
		if err := s.gameRepo.JoinGame(ctx, game.ID, creatorID, 0); err != nil {
			return nil, fmt.Errorf("seat creator: %w", err)
		}
	}

	return s.gameRepo.FindByID(ctx, game.ID)
}

// GetGame returns lobby metadata for a single game.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	return game, nil
}

// ListOpenGames returns lobbies still accepting players.
func (s *GameService) ListOpenGames(ctx context.Context) ([]model.Game, error) {
	return s.gameRepo.ListOpen(ctx)
}

// ListMyGames returns every game a player created or joined.
func (s *GameService) ListMyGames(ctx context.Context, userID string) ([]model.Game, error) {
	return s.gameRepo.ListByUser(ctx, userID)
}

// JoinGame seats a player in the next open slot of a waiting game.
func (s *GameService) JoinGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	for _, p := range game.Players {
		if p.UserID == userID {
			return ErrAlreadyJoined
		}
	}
	if len(game.Players) >= maxPlayers {
		return ErrGameFull
	}

	return s.gameRepo.JoinGame(ctx, gameID, userID, nextOpenSlot(game.Players))
}

// BackfillBots fills every remaining open slot with an AI personality,
// so a game can start even if humans stop joining. Called from StartGame
// when the creator chooses to start short of a full human lobby.
func (s *GameService) BackfillBots(ctx context.Context, gameID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	for len(game.Players) < maxPlayers {
		slot := nextOpenSlot(game.Players)
		personality := botPersonalities[slot%len(botPersonalities)]
		if err := s.gameRepo.JoinGameAsBot(ctx, gameID, slot, personality); err != nil {
			return fmt.Errorf("backfill bot at slot %d: %w", slot, err)
		}
		game.Players = append(game.Players, model.GamePlayer{GameID: gameID, SlotIndex: slot, IsBot: true, BotPersonality: personality})
	}
	return nil
}

// StartGame seeds the initial GameState, commits it to Redis, marks the
// game active in Postgres, and sets the first turn's deadline.
func (s *GameService) StartGame(ctx context.Context, gameID, userID string, turnSeconds int) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if game.Status != "waiting" {
		return nil, ErrGameNotWaiting
	}
	if len(game.Players) < 2 {
		return nil, ErrNotEnoughSeats
	}

	players := make([]engine.Player, len(game.Players))
	for i, gp := range game.Players {
		players[i] = engine.Player{
			SlotIndex:   gp.SlotIndex,
			Name:        displayNameFor(gp),
			IsAI:        gp.IsBot,
			Personality: gp.BotPersonality,
		}
	}

	st := seedInitialState(players, game.RNGSeed, game.MaxTurns)
	raw, err := json.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("marshal initial state: %w", err)
	}
	if err := s.cache.SetGameState(ctx, gameID, raw); err != nil {
		return nil, fmt.Errorf("commit initial state: %w", err)
	}
	if err := s.cache.SetTurnDeadline(ctx, gameID, time.Now().Add(time.Duration(turnSeconds)*time.Second)); err != nil {
		return nil, fmt.Errorf("set first turn deadline: %w", err)
	}
	if err := s.gameRepo.SetStarted(ctx, gameID); err != nil {
		return nil, fmt.Errorf("mark started: %w", err)
	}

	return s.gameRepo.FindByID(ctx, gameID)
}

// StopGame cancels an active game early (creator-only) and clears its
// live state from the cache.
func (s *GameService) StopGame(ctx context.Context, gameID, userID string) (*model.Game, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrGameNotFound
	}
	if game.CreatorID != userID {
		return nil, ErrNotCreator
	}
	if game.Status != "active" {
		return nil, ErrGameNotActive
	}

	if err := s.gameRepo.SetFinished(ctx, gameID, ""); err != nil {
		return nil, fmt.Errorf("mark finished: %w", err)
	}
	if err := s.cache.DeleteGameData(ctx, gameID); err != nil {
		return nil, fmt.Errorf("clear cache: %w", err)
	}
	return s.gameRepo.FindByID(ctx, gameID)
}

// DeleteGame removes a waiting lobby that never started.
func (s *GameService) DeleteGame(ctx context.Context, gameID, userID string) error {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return err
	}
	if game == nil {
		return ErrGameNotFound
	}
	if game.CreatorID != userID {
		return ErrNotCreator
	}
	if game.Status != "waiting" {
		return ErrGameNotWaiting
	}
	return s.gameRepo.Delete(ctx, gameID)
}

func nextOpenSlot(players []model.GamePlayer) int {
	taken := make(map[int]bool, len(players))
	for _, p := range players {
		taken[p.SlotIndex] = true
	}
	for slot := 0; slot < maxPlayers; slot++ {
		if !taken[slot] {
			return slot
		}
	}
	return len(players)
}

func displayNameFor(gp model.GamePlayer) string {
	if gp.IsBot {
		return fmt.Sprintf("%s Bot", gp.BotPersonality)
	}
	return gp.UserID
}
