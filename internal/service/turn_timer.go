package service

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/internal/repository"
)

// TurnTimer listens for Redis keyspace notifications on expired turn-deadline
// keys and auto-ends the active human player's turn. Also runs a polling
// fallback in case keyspace notifications are unavailable.
type TurnTimer struct {
	rdb      *redis.Client
	cmdSvc   *CommandService
	turnRepo repository.TurnRepository
}

// NewTurnTimer creates a TurnTimer.
func NewTurnTimer(rdb *redis.Client, cmdSvc *CommandService, turnRepo repository.TurnRepository) *TurnTimer {
	return &TurnTimer{rdb: rdb, cmdSvc: cmdSvc, turnRepo: turnRepo}
}

// Start begins listening for expired deadline keys and runs the polling
// fallback. Blocks the polling loop; call with `go`.
func (t *TurnTimer) Start(ctx context.Context) {
	go t.listenKeyspace(ctx)
	t.pollExpired(ctx)
}

func (t *TurnTimer) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	log.Info().Msg("turn timer listener started")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

func (t *TurnTimer) pollExpired(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	log.Info().Msg("turn deadline poller started (10s interval)")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("turn deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpired(ctx)
		}
	}
}

func (t *TurnTimer) checkExpired(ctx context.Context) {
	turns, err := t.turnRepo.ListExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list expired turns")
		return
	}
	for _, turn := range turns {
		t.autoEndTurn(ctx, turn.GameID, turn.ActiveSlot)
	}
}

func (t *TurnTimer) handleExpiry(ctx context.Context, key string) {
	if !strings.HasPrefix(key, "game:") || !strings.HasSuffix(key, ":timer") {
		return
	}
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 {
		return
	}
	gameID := parts[1]
	log.Info().Str("gameId", gameID).Msg("turn deadline expired, auto-ending turn")
	t.autoEndTurn(ctx, gameID, -1)
}

// autoEndTurn applies an EndTurn on behalf of whichever human is currently
// active; slot is advisory (used for logging) since CommandService re-reads
// the live state's CurrentPlayerSlot itself.
func (t *TurnTimer) autoEndTurn(ctx context.Context, gameID string, slot int) {
	if _, err := t.cmdSvc.ApplySystemEndTurn(ctx, gameID); err != nil {
		log.Error().Err(err).Str("gameId", gameID).Int("slot", slot).Msg("auto end-turn failed")
	}
}
