package reconciler

import (
	"reflect"
	"testing"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

func TestExtractMoves_PrefersTurnMovesOverLastMove(t *testing.T) {
	turnHint := MoveHint{Source: 1, Target: 2, Count: 3}
	lastHint := MoveHint{Source: 9, Target: 9, Count: 9}

	u := Update{TurnMoves: []MoveHint{turnHint}, LastMove: &lastHint}
	got, ok := ExtractMoves(u)
	if !ok || len(got) != 1 || !reflect.DeepEqual(got[0], turnHint) {
		t.Fatalf("expected the TurnMoves hint to win, got %+v ok=%v", got, ok)
	}
}

func TestExtractMoves_ReturnsEveryQueuedMoveInOrder(t *testing.T) {
	first := MoveHint{Source: 0, Target: 1, Count: 2}
	second := MoveHint{Source: 1, Target: 2, Count: 1}
	third := MoveHint{Source: 2, Target: 3, Count: 4}

	u := Update{TurnMoves: []MoveHint{first, second, third}}
	got, ok := ExtractMoves(u)
	if !ok || len(got) != 3 {
		t.Fatalf("expected all 3 queued moves, got %+v ok=%v", got, ok)
	}
	if !reflect.DeepEqual(got[0], first) || !reflect.DeepEqual(got[1], second) || !reflect.DeepEqual(got[2], third) {
		t.Fatalf("expected queued moves preserved in order, got %+v", got)
	}
}

func TestExtractMoves_FallsBackToLastMove(t *testing.T) {
	lastHint := MoveHint{Source: 4, Target: 5, Count: 1}
	u := Update{LastMove: &lastHint}

	got, ok := ExtractMoves(u)
	if !ok || len(got) != 1 || !reflect.DeepEqual(got[0], lastHint) {
		t.Fatalf("expected LastMove when no TurnMoves present, got %+v ok=%v", got, ok)
	}
}

func TestExtractMoves_NoneAvailable(t *testing.T) {
	_, ok := ExtractMoves(Update{})
	if ok {
		t.Fatal("expected no move hint to be resolvable from an empty Update")
	}
}

func TestPlanFeedback_PeacefulMoveHint(t *testing.T) {
	prev := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 0}}
	next := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 0}, ConqueredRegions: map[int]bool{}}

	hint := MoveHint{Source: 0, Target: 1, Count: 2}
	events := PlanFeedback(Update{Previous: prev, Next: next, LastMove: &hint})

	if len(events) != 1 || events[0].Type != FeedbackMovement {
		t.Fatalf("expected a single movement event, got %+v", events)
	}
}

func TestPlanFeedback_ConquestHint(t *testing.T) {
	prev := &engine.GameState{OwnersByRegion: map[int]int{0: 0}}
	next := &engine.GameState{
		OwnersByRegion:   map[int]int{0: 0, 1: 0},
		ConqueredRegions: map[int]bool{1: true},
	}

	hint := MoveHint{
		Source: 0, Target: 1, Count: 3,
		AttackSequence: []engine.AttackEvent{{FloatingText: []engine.FloatingText{{Text: "Conquered!"}}}},
	}
	events := PlanFeedback(Update{Previous: prev, Next: next, LastMove: &hint})

	if len(events) != 1 || events[0].Type != FeedbackConquest {
		t.Fatalf("expected a single conquest event, got %+v", events)
	}
}

func TestPlanFeedback_FailedAttackHint(t *testing.T) {
	prev := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 1}}
	next := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 1}, ConqueredRegions: map[int]bool{}}

	hint := MoveHint{
		Source: 0, Target: 1, Count: 3,
		AttackSequence: []engine.AttackEvent{{FloatingText: []engine.FloatingText{{Text: "Defended!"}}}},
	}
	events := PlanFeedback(Update{Previous: prev, Next: next, LastMove: &hint})

	if len(events) != 1 || events[0].Type != FeedbackFailedAttack {
		t.Fatalf("expected a single failed_attack event, got %+v", events)
	}
}

func TestPlanFeedback_UpgradeHint(t *testing.T) {
	prev := &engine.GameState{}
	next := &engine.GameState{}
	hint := MoveHint{Source: 0, Upgrade: engine.UpgradeEarth}

	events := PlanFeedback(Update{Previous: prev, Next: next, LastMove: &hint})
	if len(events) != 1 || events[0].Type != FeedbackUpgrade {
		t.Fatalf("expected a single upgrade event, got %+v", events)
	}
}

func TestPlanFeedback_RecruitmentHint(t *testing.T) {
	prev := &engine.GameState{}
	next := &engine.GameState{}
	hint := MoveHint{Source: 0, Upgrade: engine.UpgradeSoldier}

	events := PlanFeedback(Update{Previous: prev, Next: next, LastMove: &hint})
	if len(events) != 1 || events[0].Type != FeedbackRecruitment {
		t.Fatalf("expected a single recruitment event, got %+v", events)
	}
}

func TestPlanFeedback_AnimatesEveryMoveInABatchedTurn(t *testing.T) {
	prev := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 0, 2: 0}}
	next := &engine.GameState{OwnersByRegion: map[int]int{0: 0, 1: 0, 2: 0}, ConqueredRegions: map[int]bool{}}

	moves := []MoveHint{
		{Source: 0, Target: 1, Count: 2},
		{Source: 1, Target: 2, Count: 1},
	}
	events := PlanFeedback(Update{Previous: prev, Next: next, TurnMoves: moves})

	if len(events) != 2 {
		t.Fatalf("expected one feedback event per queued move, got %d: %+v", len(events), events)
	}
	if events[0].Source != 0 || events[0].Target != 1 {
		t.Fatalf("expected the first event to describe the first queued move, got %+v", events[0])
	}
	if events[1].Source != 1 || events[1].Target != 2 {
		t.Fatalf("expected the second event to describe the second queued move, got %+v", events[1])
	}
}

func TestPlanFeedback_FallsBackToDiffWithoutHint(t *testing.T) {
	prev := &engine.GameState{
		OwnersByRegion:   map[int]int{0: 0, 1: 0},
		SoldiersByRegion: map[int][]engine.Soldier{0: make([]engine.Soldier, 3), 1: {}},
	}
	next := &engine.GameState{
		OwnersByRegion:   map[int]int{0: 0, 1: 0},
		SoldiersByRegion: map[int][]engine.Soldier{0: {}, 1: make([]engine.Soldier, 3)},
	}

	events := PlanFeedback(Update{Previous: prev, Next: next})
	if len(events) == 0 {
		t.Fatal("expected the diagnostic diff fallback to produce at least one event")
	}
}
