package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/barrybecker4/conquest-engine/internal/model"
)

// GameRepo handles games and game_players table operations.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo creates a GameRepo.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

// Create inserts a new lobby game.
func (r *GameRepo) Create(ctx context.Context, name, creatorID, mapName string, maxTurns int, rngSeed string, turnSeconds int) (*model.Game, error) {
	var g model.Game
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO games (name, creator_id, map_name, max_turns, rng_seed, turn_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, creator_id, status, map_name, max_turns, rng_seed, turn_seconds, created_at`,
		name, creatorID, mapName, maxTurns, rngSeed, turnSeconds,
	).Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.MapName, &g.MaxTurns, &g.RNGSeed, &g.TurnSeconds, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return &g, nil
}

// FindByID returns a game by ID with its players.
func (r *GameRepo) FindByID(ctx context.Context, id string) (*model.Game, error) {
	var g model.Game
	var winner sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, creator_id, status, winner, map_name, max_turns, rng_seed, turn_seconds,
		        created_at, started_at, finished_at
		 FROM games WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &winner, &g.MapName, &g.MaxTurns, &g.RNGSeed, &g.TurnSeconds,
		&g.CreatedAt, &g.StartedAt, &g.FinishedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find game: %w", err)
	}
	g.Winner = winner.String

	players, err := r.listPlayers(ctx, id)
	if err != nil {
		return nil, err
	}
	g.Players = players
	return &g, nil
}

// ListOpen returns games still in "waiting" status.
func (r *GameRepo) ListOpen(ctx context.Context) ([]model.Game, error) {
	return r.listByStatus(ctx, "waiting")
}

// ListActive returns games in "active" status, for restart recovery.
func (r *GameRepo) ListActive(ctx context.Context) ([]model.Game, error) {
	return r.listByStatus(ctx, "active")
}

func (r *GameRepo) listByStatus(ctx context.Context, status string) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, creator_id, status, map_name, max_turns, rng_seed, turn_seconds, created_at
		 FROM games WHERE status = $1 ORDER BY created_at DESC LIMIT 50`, status)
	if err != nil {
		return nil, fmt.Errorf("list games by status %q: %w", status, err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.MapName, &g.MaxTurns, &g.RNGSeed, &g.TurnSeconds, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ListByUser returns all games a user created or joined.
func (r *GameRepo) ListByUser(ctx context.Context, userID string) ([]model.Game, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT g.id, g.name, g.creator_id, g.status, g.map_name, g.max_turns, g.rng_seed, g.turn_seconds, g.created_at
		 FROM games g LEFT JOIN game_players gp ON g.id = gp.game_id AND gp.user_id = $1
		 WHERE gp.user_id = $1 OR g.creator_id = $1
		 ORDER BY g.created_at DESC LIMIT 50`, userID)
	if err != nil {
		return nil, fmt.Errorf("list games by user: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatorID, &g.Status, &g.MapName, &g.MaxTurns, &g.RNGSeed, &g.TurnSeconds, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// listPlayers returns the seats for a game.
func (r *GameRepo) listPlayers(ctx context.Context, gameID string) ([]model.GamePlayer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT game_id, user_id, slot_index, is_bot, bot_personality, joined_at
		 FROM game_players WHERE game_id = $1 ORDER BY slot_index`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []model.GamePlayer
	for rows.Next() {
		var p model.GamePlayer
		var userID, personality sql.NullString
		if err := rows.Scan(&p.GameID, &userID, &p.SlotIndex, &p.IsBot, &personality, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.UserID = userID.String
		p.BotPersonality = personality.String
		players = append(players, p)
	}
	return players, rows.Err()
}

// JoinGame seats a human player at slot.
func (r *GameRepo) JoinGame(ctx context.Context, gameID, userID string, slot int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_players (game_id, user_id, slot_index, is_bot) VALUES ($1, $2, $3, false)`,
		gameID, userID, slot)
	if err != nil {
		return fmt.Errorf("join game: %w", err)
	}
	return nil
}

// JoinGameAsBot backfills an unfilled slot with a bot personality.
func (r *GameRepo) JoinGameAsBot(ctx context.Context, gameID string, slot int, personality string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO game_players (game_id, slot_index, is_bot, bot_personality) VALUES ($1, $2, true, $3)`,
		gameID, slot, personality)
	if err != nil {
		return fmt.Errorf("join game as bot: %w", err)
	}
	return nil
}

// PlayerCount returns how many seats are filled in a game.
func (r *GameRepo) PlayerCount(ctx context.Context, gameID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM game_players WHERE game_id = $1`, gameID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return count, nil
}

// SetStarted marks a game active and stamps started_at.
func (r *GameRepo) SetStarted(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'active', started_at = now() WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("set started: %w", err)
	}
	return nil
}

// SetFinished marks a game finished with the given winner identifier.
func (r *GameRepo) SetFinished(ctx context.Context, gameID, winner string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE games SET status = 'finished', winner = $2, finished_at = now() WHERE id = $1`, gameID, winner)
	if err != nil {
		return fmt.Errorf("set finished: %w", err)
	}
	return nil
}

// Delete removes a game and its players (cascades via FK).
func (r *GameRepo) Delete(ctx context.Context, gameID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	return nil
}
