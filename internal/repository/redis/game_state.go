package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func stateKey(gameID string) string    { return "game:" + gameID + ":state" }
func timerKey(gameID string) string    { return "game:" + gameID + ":timer" }
func thinkingKey(gameID string) string { return "game:" + gameID + ":ai_thinking" }

// turnGracePeriod is added to the timer key's TTL beyond the displayed
// deadline; the key's expiry notification is what triggers the
// auto-EndTurn, so players get a few seconds of leeway.
const turnGracePeriod = 5 * time.Second

// SetGameState stores the authoritative live GameState JSON.
func (c *Client) SetGameState(ctx context.Context, gameID string, state json.RawMessage) error {
	return c.rdb.Set(ctx, stateKey(gameID), []byte(state), 0).Err()
}

// GetGameState retrieves the live GameState JSON.
func (c *Client) GetGameState(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, stateKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	return json.RawMessage(data), nil
}

// SetTurnDeadline creates a timer key with a TTL. When the key expires,
// Redis keyspace notifications trigger the TurnTimer's auto-EndTurn.
func (c *Client) SetTurnDeadline(ctx context.Context, gameID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(gameID), deadline.Unix(), ttl).Err()
}

// ClearTurnDeadline removes the turn deadline timer for a game.
func (c *Client) ClearTurnDeadline(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, timerKey(gameID)).Err()
}

// SetAIThinking records whether AI search is in progress for the current
// turn, so a reconnecting client can distinguish "waiting on a human" from
// "waiting on AI search".
func (c *Client) SetAIThinking(ctx context.Context, gameID string, thinking bool) error {
	if !thinking {
		return c.rdb.Del(ctx, thinkingKey(gameID)).Err()
	}
	return c.rdb.Set(ctx, thinkingKey(gameID), "1", 0).Err()
}

// IsAIThinking reports whether AI search is currently running for a game.
func (c *Client) IsAIThinking(ctx context.Context, gameID string) (bool, error) {
	n, err := c.rdb.Exists(ctx, thinkingKey(gameID)).Result()
	if err != nil {
		return false, fmt.Errorf("check ai thinking: %w", err)
	}
	return n > 0, nil
}

// DeleteGameData removes all Redis data for a finished or abandoned game.
func (c *Client) DeleteGameData(ctx context.Context, gameID string) error {
	return c.rdb.Del(ctx, stateKey(gameID), timerKey(gameID), thinkingKey(gameID)).Err()
}
