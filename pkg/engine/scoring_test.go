package engine

import "testing"

func TestScore_Formula(t *testing.T) {
	s := newTestState("score-1", 3)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	withSoldiers(s, 0, 2)
	withSoldiers(s, 1, 3)
	s.FaithByPlayer[0] = 7

	// 1000*2 regions + 10*5 soldiers + 7 faith = 2057.
	if got := Score(s, 0); got != 2057 {
		t.Fatalf("expected 2057, got %d", got)
	}
}

func TestIsGameEnded_Elimination(t *testing.T) {
	s := newTestState("score-2", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0

	ended, reason := IsGameEnded(s)
	if !ended || reason != Elimination {
		t.Fatalf("expected elimination end (sole owner), got ended=%v reason=%v", ended, reason)
	}
}

func TestIsGameEnded_TurnLimit(t *testing.T) {
	s := newTestState("score-3", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.MaxTurns = 10
	s.TurnNumber = 9

	ended, reason := IsGameEnded(s)
	if !ended || reason != TurnLimit {
		t.Fatalf("expected turn-limit end, got ended=%v reason=%v", ended, reason)
	}
}

func TestIsGameEnded_NotEnded(t *testing.T) {
	s := newTestState("score-4", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.MaxTurns = 20
	s.TurnNumber = 3

	if ended, _ := IsGameEnded(s); ended {
		t.Fatal("expected game still in progress")
	}
}

func TestWinner_TurnLimitByScore(t *testing.T) {
	s := newTestState("score-5", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	withSoldiers(s, 0, 5)
	s.MaxTurns = 5
	s.TurnNumber = 4

	s.FaithByPlayer[0] = 100
	s.FaithByPlayer[1] = 0

	winner, draw := Winner(s)
	if draw || winner != 0 {
		t.Fatalf("expected player 0 to win by score, got winner=%d draw=%v", winner, draw)
	}
}

func TestWinner_TurnLimitExactTieIsDraw(t *testing.T) {
	s := newTestState("score-6", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.MaxTurns = 5
	s.TurnNumber = 4

	_, draw := Winner(s)
	if !draw {
		t.Fatal("expected an exact score tie among all top scorers to be a draw")
	}
}
