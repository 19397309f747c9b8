package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/barrybecker4/conquest-engine/internal/model"
)

// TurnRepo handles turn and move database operations.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// CreateTurn inserts a new unresolved turn record.
func (r *TurnRepo) CreateTurn(ctx context.Context, gameID string, turnNumber, activeSlot int, stateBefore json.RawMessage, deadline time.Time) (*model.TurnRecord, error) {
	var t model.TurnRecord
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO turns (game_id, turn_number, active_slot, state_before, deadline)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, game_id, turn_number, active_slot, state_before, deadline, created_at`,
		gameID, turnNumber, activeSlot, stateBefore, deadline,
	).Scan(&t.ID, &t.GameID, &t.TurnNumber, &t.ActiveSlot, &t.StateBefore, &t.Deadline, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create turn: %w", err)
	}
	return &t, nil
}

// ResolveTurn marks a turn resolved and stores the resulting state.
func (r *TurnRepo) ResolveTurn(ctx context.Context, turnID string, stateAfter json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE turns SET state_after = $1, resolved_at = now() WHERE id = $2`, stateAfter, turnID)
	if err != nil {
		return fmt.Errorf("resolve turn: %w", err)
	}
	return nil
}

// CurrentTurn returns the latest unresolved turn for a game.
func (r *TurnRepo) CurrentTurn(ctx context.Context, gameID string) (*model.TurnRecord, error) {
	return r.queryOne(ctx,
		`SELECT id, game_id, turn_number, active_slot, state_before, state_after, deadline, resolved_at, created_at
		 FROM turns WHERE game_id = $1 AND resolved_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`, gameID)
}

// LatestResolvedTurn returns the most recently resolved turn for a game,
// used to rehydrate live GameState on server restart.
func (r *TurnRepo) LatestResolvedTurn(ctx context.Context, gameID string) (*model.TurnRecord, error) {
	return r.queryOne(ctx,
		`SELECT id, game_id, turn_number, active_slot, state_before, state_after, deadline, resolved_at, created_at
		 FROM turns WHERE game_id = $1 AND resolved_at IS NOT NULL
		 ORDER BY created_at DESC LIMIT 1`, gameID)
}

func (r *TurnRepo) queryOne(ctx context.Context, query string, args ...any) (*model.TurnRecord, error) {
	var t model.TurnRecord
	var stateAfter sql.NullString
	var resolvedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&t.ID, &t.GameID, &t.TurnNumber, &t.ActiveSlot, &t.StateBefore, &stateAfter, &t.Deadline, &resolvedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query turn: %w", err)
	}
	if stateAfter.Valid {
		t.StateAfter = json.RawMessage(stateAfter.String)
	}
	if resolvedAt.Valid {
		t.ResolvedAt = &resolvedAt.Time
	}
	return &t, nil
}

// ListTurns returns all turns for a game in chronological order.
func (r *TurnRepo) ListTurns(ctx context.Context, gameID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn_number, active_slot, state_before, state_after, deadline, resolved_at, created_at
		 FROM turns WHERE game_id = $1 ORDER BY turn_number, active_slot`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

// ListExpired returns the latest unresolved turn per active game whose
// deadline has passed.
func (r *TurnRepo) ListExpired(ctx context.Context) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT ON (t.game_id) t.id, t.game_id, t.turn_number, t.active_slot,
		        t.state_before, t.state_after, t.deadline, t.resolved_at, t.created_at
		 FROM turns t
		 JOIN games g ON g.id = t.game_id
		 WHERE t.resolved_at IS NULL AND t.deadline < now() AND g.status = 'active'
		 ORDER BY t.game_id, t.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list expired turns: %w", err)
	}
	defer rows.Close()
	return scanTurns(rows)
}

func scanTurns(rows *sql.Rows) ([]model.TurnRecord, error) {
	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		var stateAfter sql.NullString
		var resolvedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.GameID, &t.TurnNumber, &t.ActiveSlot, &t.StateBefore, &stateAfter, &t.Deadline, &resolvedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if stateAfter.Valid {
			t.StateAfter = json.RawMessage(stateAfter.String)
		}
		if resolvedAt.Valid {
			t.ResolvedAt = &resolvedAt.Time
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// SaveMove inserts an audit record for one applied command.
func (r *TurnRepo) SaveMove(ctx context.Context, move model.MoveRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO moves (game_id, turn_number, slot_index, kind, source, target, count, upgrade)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		move.GameID, move.TurnNumber, move.SlotIndex, move.Kind,
		nullZero(move.Source), nullZero(move.Target), nullZero(move.Count), nullStr(move.Upgrade))
	if err != nil {
		return fmt.Errorf("save move: %w", err)
	}
	return nil
}

// ListMoves returns all move records for a given turn, in submission order.
func (r *TurnRepo) ListMoves(ctx context.Context, gameID string, turnNumber int) ([]model.MoveRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, game_id, turn_number, slot_index, kind, source, target, count, upgrade, created_at
		 FROM moves WHERE game_id = $1 AND turn_number = $2 ORDER BY created_at`, gameID, turnNumber)
	if err != nil {
		return nil, fmt.Errorf("list moves: %w", err)
	}
	defer rows.Close()

	var moves []model.MoveRecord
	for rows.Next() {
		var m model.MoveRecord
		var source, target, count sql.NullInt64
		var upgrade sql.NullString
		if err := rows.Scan(&m.ID, &m.GameID, &m.TurnNumber, &m.SlotIndex, &m.Kind, &source, &target, &count, &upgrade, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		m.Source = int(source.Int64)
		m.Target = int(target.Int64)
		m.Count = int(count.Int64)
		m.Upgrade = upgrade.String
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullZero(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
