package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/barrybecker4/conquest-engine/internal/model"
	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

type fakeGameRepo struct {
	game *model.Game
}

func (f *fakeGameRepo) Create(context.Context, string, string, string, int, string, int) (*model.Game, error) {
	return f.game, nil
}
func (f *fakeGameRepo) FindByID(_ context.Context, id string) (*model.Game, error) {
	if f.game == nil || f.game.ID != id {
		return nil, nil
	}
	return f.game, nil
}
func (f *fakeGameRepo) ListOpen(context.Context) ([]model.Game, error)            { return nil, nil }
func (f *fakeGameRepo) ListActive(context.Context) ([]model.Game, error)         { return nil, nil }
func (f *fakeGameRepo) ListByUser(context.Context, string) ([]model.Game, error) { return nil, nil }
func (f *fakeGameRepo) JoinGame(context.Context, string, string, int) error      { return nil }
func (f *fakeGameRepo) JoinGameAsBot(context.Context, string, int, string) error { return nil }
func (f *fakeGameRepo) PlayerCount(context.Context, string) (int, error)         { return len(f.game.Players), nil }
func (f *fakeGameRepo) SetStarted(context.Context, string) error                 { return nil }
func (f *fakeGameRepo) SetFinished(_ context.Context, _ string, winner string) error {
	f.game.Status = "finished"
	f.game.Winner = winner
	return nil
}
func (f *fakeGameRepo) Delete(context.Context, string) error { return nil }

type fakeTurnRepo struct {
	moves []model.MoveRecord
}

func (f *fakeTurnRepo) CreateTurn(context.Context, string, int, int, json.RawMessage, time.Time) (*model.TurnRecord, error) {
	return nil, nil
}
func (f *fakeTurnRepo) ResolveTurn(context.Context, string, json.RawMessage) error { return nil }
func (f *fakeTurnRepo) CurrentTurn(context.Context, string) (*model.TurnRecord, error) {
	return nil, nil
}
func (f *fakeTurnRepo) LatestResolvedTurn(context.Context, string) (*model.TurnRecord, error) {
	return nil, nil
}
func (f *fakeTurnRepo) ListTurns(context.Context, string) ([]model.TurnRecord, error) {
	return nil, nil
}
func (f *fakeTurnRepo) ListExpired(context.Context) ([]model.TurnRecord, error) { return nil, nil }
func (f *fakeTurnRepo) SaveMove(_ context.Context, m model.MoveRecord) error {
	f.moves = append(f.moves, m)
	return nil
}
func (f *fakeTurnRepo) ListMoves(context.Context, string, int) ([]model.MoveRecord, error) {
	return nil, nil
}

type fakeCache struct {
	state    json.RawMessage
	thinking bool
}

func (f *fakeCache) SetGameState(_ context.Context, _ string, state json.RawMessage) error {
	f.state = state
	return nil
}
func (f *fakeCache) GetGameState(context.Context, string) (json.RawMessage, error) {
	return f.state, nil
}
func (f *fakeCache) SetTurnDeadline(context.Context, string, time.Time) error { return nil }
func (f *fakeCache) ClearTurnDeadline(context.Context, string) error         { return nil }
func (f *fakeCache) SetAIThinking(_ context.Context, _ string, thinking bool) error {
	f.thinking = thinking
	return nil
}
func (f *fakeCache) IsAIThinking(context.Context, string) (bool, error) { return f.thinking, nil }
func (f *fakeCache) DeleteGameData(context.Context, string) error       { return nil }

func newLinearTestState() *engine.GameState {
	regions := []engine.Region{
		{Index: 0, Neighbors: []int{1}},
		{Index: 1, Neighbors: []int{0}},
	}
	return &engine.GameState{
		MaxTurns:          0,
		CurrentPlayerSlot: 0,
		MovesRemaining:    3,
		Players: []engine.Player{
			{SlotIndex: 0, Name: "Human"},
			{SlotIndex: 1, Name: "Bot", IsAI: true, Personality: "Defender"},
		},
		Map:                    engine.NewRegionMap(regions),
		OwnersByRegion:         map[int]int{0: 0, 1: 1},
		SoldiersByRegion:       map[int][]engine.Soldier{0: {{ID: 1}, {ID: 2}}, 1: {{ID: 3}, {ID: 4}}},
		TemplesByRegion:        map[int]engine.Temple{},
		FaithByPlayer:          map[int]int{0: 100, 1: 100},
		ConqueredRegions:       map[int]bool{},
		EliminatedPlayers:      map[int]bool{},
		SoldiersBoughtThisTurn: map[int]int{},
		PendingAirRefund:       map[int]int{},
		RNGSeed:                "svc-test",
	}
}

func newTestCommandService(t *testing.T) (*CommandService, *fakeGameRepo, *fakeCache) {
	t.Helper()
	st := newLinearTestState()
	raw, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal test state: %v", err)
	}

	gameRepo := &fakeGameRepo{game: &model.Game{
		ID:     "game-1",
		Status: "active",
		Players: []model.GamePlayer{
			{GameID: "game-1", UserID: "user-1", SlotIndex: 0, IsBot: false},
			{GameID: "game-1", SlotIndex: 1, IsBot: true, BotPersonality: "Defender"},
		},
	}}
	cache := &fakeCache{state: raw}
	svc := NewCommandService(gameRepo, &fakeTurnRepo{}, cache, NoopBroadcaster{}, 60, 50*time.Millisecond)
	return svc, gameRepo, cache
}

func TestCommandService_AcceptsCommandFromActivePlayer(t *testing.T) {
	svc, _, _ := newTestCommandService(t)

	_, err := svc.Apply(context.Background(), "game-1", "user-1", CommandInput{Kind: "END_TURN"})
	if err != nil {
		t.Fatalf("expected slot 0's end turn to succeed, got %v", err)
	}
}

func TestCommandService_RejectsCommandFromWrongTurn(t *testing.T) {
	svc, gameRepo, _ := newTestCommandService(t)
	gameRepo.game.Players = append(gameRepo.game.Players, model.GamePlayer{
		GameID: "game-1", UserID: "user-2", SlotIndex: 2, IsBot: false,
	})

	_, err := svc.Apply(context.Background(), "game-1", "user-2", CommandInput{Kind: "END_TURN"})
	if err != ErrWrongTurn {
		t.Fatalf("expected ErrWrongTurn for a seated but inactive player, got %v", err)
	}
}

func TestCommandService_RejectsUnknownUser(t *testing.T) {
	svc, _, _ := newTestCommandService(t)

	_, err := svc.Apply(context.Background(), "game-1", "not-a-player", CommandInput{Kind: "END_TURN"})
	if err != ErrNotInGame {
		t.Fatalf("expected ErrNotInGame, got %v", err)
	}
}

func TestCommandService_EndTurnDrivesBotTurnsUntilHumanActive(t *testing.T) {
	svc, _, cache := newTestCommandService(t)

	next, err := svc.Apply(context.Background(), "game-1", "user-1", CommandInput{Kind: "END_TURN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.CurrentPlayerSlot != 0 {
		t.Fatalf("expected control to return to the human slot 0 after the bot's turn, got %d", next.CurrentPlayerSlot)
	}
	if cache.thinking {
		t.Fatal("expected ai-thinking flag cleared once the bot's turn completes")
	}
}

func TestCommandService_GameNotFound(t *testing.T) {
	svc, _, _ := newTestCommandService(t)

	_, err := svc.Apply(context.Background(), "missing-game", "user-1", CommandInput{Kind: "END_TURN"})
	if err != ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
