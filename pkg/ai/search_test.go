package ai

import (
	"testing"
	"time"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

func TestGenerateMoves_IncludesPassAndCapsBranching(t *testing.T) {
	s := newTestState(20)
	for i := 0; i < 20; i++ {
		s.OwnersByRegion[i] = 0
		s.SoldiersByRegion[i] = make([]engine.Soldier, 3)
	}

	rng := s.RNG()
	moves := generateMoves(s, 0, rng)

	if len(moves) > maxCandidateMoves+1 {
		t.Fatalf("expected branching capped at %d plus the pass move, got %d", maxCandidateMoves, len(moves))
	}
	foundPass := false
	for _, m := range moves {
		if m.Source == passMarker {
			foundPass = true
		}
	}
	if !foundPass {
		t.Fatal("expected a pass move to always be present")
	}
}

func TestGenerateMoves_NoMovesWhenNoSoldiers(t *testing.T) {
	s := newTestState(3)
	s.OwnersByRegion[0] = 0
	// no soldiers anywhere.

	rng := s.RNG()
	moves := generateMoves(s, 0, rng)

	if len(moves) != 1 || moves[0].Source != passMarker {
		t.Fatalf("expected only the pass move when no soldiers can move, got %+v", moves)
	}
}

func TestGenerateMoves_IncludesFullAndHalfStackMoves(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	s.SoldiersByRegion[0] = make([]engine.Soldier, 4)

	rng := s.RNG()
	moves := generateMoves(s, 0, rng)

	foundFull, foundHalf := false, false
	for _, m := range moves {
		if m.Source != 0 || m.Target != 1 {
			continue
		}
		switch m.Count {
		case 4:
			foundFull = true
		case 2:
			foundHalf = true
		}
	}
	if !foundFull {
		t.Fatal("expected a full-stack move candidate")
	}
	if !foundHalf {
		t.Fatal("expected a half-stack move candidate alongside the full-stack one")
	}
}

func TestGenerateMoves_NoHalfMoveWhenStackTooSmall(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	s.SoldiersByRegion[0] = make([]engine.Soldier, 1)

	rng := s.RNG()
	moves := generateMoves(s, 0, rng)

	for _, m := range moves {
		if m.Source == 0 && m.Target == 1 && m.Count != 1 {
			t.Fatalf("expected only the full-stack move of 1 soldier, got count %d", m.Count)
		}
	}
}

func TestIsDumbMove_PrunesAnyAttackOutnumberedByDefenders(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.SoldiersByRegion[1] = make([]engine.Soldier, 20)

	m := Move{Source: 0, Target: 1, Count: 5}
	if !isDumbMove(s, 0, m) {
		t.Fatal("expected a 5-vs-20 attack to be pruned regardless of count being greater than 1")
	}
}

func TestIsDumbMove_SkipsHopelessAttack(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.SoldiersByRegion[1] = make([]engine.Soldier, 5)

	m := Move{Source: 0, Target: 1, Count: 1}
	if !isDumbMove(s, 0, m) {
		t.Fatal("expected a 1-vs-5 attack with no fire bonus to be pruned as dumb")
	}
}

func TestIsDumbMove_NeverFlagsPeacefulConsolidation(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0

	m := Move{Source: 0, Target: 1, Count: 1}
	if isDumbMove(s, 0, m) {
		t.Fatal("peaceful moves onto friendly territory must never be pruned")
	}
}

func TestFindBestMove_ReturnsAMoveWhenOneExists(t *testing.T) {
	s := newTestState(3)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.SoldiersByRegion[0] = make([]engine.Soldier, 5)
	s.SoldiersByRegion[1] = make([]engine.Soldier, 1)

	move, found := FindBestMove(s, 0, Rude, 50*time.Millisecond)
	if !found {
		t.Fatal("expected a completed search within a generous time budget")
	}
	if move.Source == passMarker {
		t.Fatal("expected player 0 to prefer attacking a weak neighbor over passing")
	}
}

func TestFindBestMove_PassesWhenNoMovesAvailable(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0

	move, found := FindBestMove(s, 0, Rude, 20*time.Millisecond)
	if !found || move.Source != passMarker {
		t.Fatalf("expected an immediate pass when no soldiers can move, got %+v found=%v", move, found)
	}
}
