package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/barrybecker4/conquest-engine/internal/model"
)

// GameRepository defines lobby and game/player data operations.
type GameRepository interface {
	Create(ctx context.Context, name, creatorID, mapName string, maxTurns int, rngSeed string, turnSeconds int) (*model.Game, error)
	FindByID(ctx context.Context, id string) (*model.Game, error)
	ListOpen(ctx context.Context) ([]model.Game, error)
	ListActive(ctx context.Context) ([]model.Game, error)
	ListByUser(ctx context.Context, userID string) ([]model.Game, error)
	JoinGame(ctx context.Context, gameID, userID string, slot int) error
	JoinGameAsBot(ctx context.Context, gameID string, slot int, personality string) error
	PlayerCount(ctx context.Context, gameID string) (int, error)
	SetStarted(ctx context.Context, gameID string) error
	SetFinished(ctx context.Context, gameID, winner string) error
	Delete(ctx context.Context, gameID string) error
}

// TurnRepository defines turn/move audit data operations.
type TurnRepository interface {
	CreateTurn(ctx context.Context, gameID string, turnNumber, activeSlot int, stateBefore json.RawMessage, deadline time.Time) (*model.TurnRecord, error)
	ResolveTurn(ctx context.Context, turnID string, stateAfter json.RawMessage) error
	CurrentTurn(ctx context.Context, gameID string) (*model.TurnRecord, error)
	LatestResolvedTurn(ctx context.Context, gameID string) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, gameID string) ([]model.TurnRecord, error)
	ListExpired(ctx context.Context) ([]model.TurnRecord, error)
	SaveMove(ctx context.Context, move model.MoveRecord) error
	ListMoves(ctx context.Context, gameID string, turnNumber int) ([]model.MoveRecord, error)
}

// UserRepository defines player-account data operations. A player's
// identity is owned by the external identity provider; this repository
// only tracks the local profile minted from that identity.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	Upsert(ctx context.Context, provider, providerID, displayName, avatarURL string) (*model.User, error)
}

// GameCache defines live game-state operations (Redis): the authoritative
// in-progress GameState JSON, the per-turn deadline, and an AI-thinking
// flag so a reconnecting client distinguishes "waiting on a human" from
// "waiting on AI search".
type GameCache interface {
	SetGameState(ctx context.Context, gameID string, state json.RawMessage) error
	GetGameState(ctx context.Context, gameID string) (json.RawMessage, error)
	SetTurnDeadline(ctx context.Context, gameID string, deadline time.Time) error
	ClearTurnDeadline(ctx context.Context, gameID string) error
	SetAIThinking(ctx context.Context, gameID string, thinking bool) error
	IsAIThinking(ctx context.Context, gameID string) (bool, error)
	DeleteGameData(ctx context.Context, gameID string) error
}
