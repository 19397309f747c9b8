package model

import (
	"encoding/json"
	"time"
)

// User represents a registered player, authenticated via JWT/OAuth2.
type User struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	ProviderID  string    `json:"provider_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Game is lobby metadata for a conquest game. It is NOT the authoritative
// GameState — that lives in pkg/engine and travels as json.RawMessage
// inside TurnRecord.StateBefore/StateAfter.
type Game struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	CreatorID  string       `json:"creator_id"`
	Status     string       `json:"status"` // waiting, active, finished
	Winner     string       `json:"winner,omitempty"`
	MapName    string       `json:"map_name"`
	MaxTurns   int          `json:"max_turns"`
	RNGSeed    string       `json:"rng_seed"`
	TurnSeconds int         `json:"turn_seconds"`
	CreatedAt  time.Time    `json:"created_at"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	Players    []GamePlayer `json:"players,omitempty"`
}

// GamePlayer represents a player's (human or bot) seat in a game.
type GamePlayer struct {
	GameID        string    `json:"game_id"`
	UserID        string    `json:"user_id,omitempty"` // empty for bot seats
	SlotIndex     int       `json:"slot_index"`
	IsBot         bool      `json:"is_bot"`
	BotPersonality string   `json:"bot_personality,omitempty"`
	JoinedAt      time.Time `json:"joined_at"`
}

// TurnRecord is one persisted row per completed turn: the engine state
// before and after the turn, each stored as opaque JSON produced by
// pkg/engine's own (de)serialization.
type TurnRecord struct {
	ID          string          `json:"id"`
	GameID      string          `json:"game_id"`
	TurnNumber  int             `json:"turn_number"`
	ActiveSlot  int             `json:"active_slot"`
	StateBefore json.RawMessage `json:"state_before"`
	StateAfter  json.RawMessage `json:"state_after,omitempty"`
	Deadline    time.Time       `json:"deadline"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// MoveRecord is one persisted row per applied command, kept for audit and
// replay tooling independent of the live GameState.
type MoveRecord struct {
	ID         string    `json:"id"`
	GameID     string    `json:"game_id"`
	TurnNumber int       `json:"turn_number"`
	SlotIndex  int       `json:"slot_index"`
	Kind       string    `json:"kind"` // ARMY_MOVE, BUILD, END_TURN, RESIGN
	Source     int       `json:"source,omitempty"`
	Target     int       `json:"target,omitempty"`
	Count      int       `json:"count,omitempty"`
	Upgrade    string    `json:"upgrade,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
