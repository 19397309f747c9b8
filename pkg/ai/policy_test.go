package ai

import (
	"testing"
	"time"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

func TestBestBuildAction_PrefersAffordableUpgradeOverSoldier(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = engine.Temple{Region: 0}
	s.SoldiersByRegion[0] = make([]engine.Soldier, 4)
	s.FaithByPlayer[0] = 1000

	personality := Personalities["Defender"]
	region, upgrade, ok := bestBuildAction(s, 0, personality)

	if !ok {
		t.Fatal("expected a build action to be available with abundant faith")
	}
	if region != 0 {
		t.Fatalf("expected the only temple region (0), got %d", region)
	}
	if upgrade != personality.UpgradePreference[0] {
		t.Fatalf("expected the personality's top preference %v, got %v", personality.UpgradePreference[0], upgrade)
	}
}

func TestBestBuildAction_NoActionWhenBroke(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = engine.Temple{Region: 0}
	s.FaithByPlayer[0] = 0

	_, _, ok := bestBuildAction(s, 0, Personalities["Defender"])
	if ok {
		t.Fatal("expected no build action to be affordable with 0 faith")
	}
}

func TestNextUpgradeFor_MaxedTempleReturnsNone(t *testing.T) {
	temple := &engine.Temple{Region: 0, UpgradeIndex: engine.UpgradeEarth, Level: engine.DefaultRules().MaxUpgradeLevel}
	upgrade, _ := nextUpgradeFor(temple, Personalities["Defender"])
	if upgrade != engine.UpgradeNone {
		t.Fatalf("expected UpgradeNone once a temple is maxed, got %v", upgrade)
	}
}

func TestPersonalityFor_FallsBackToDefault(t *testing.T) {
	p := PersonalityFor(&engine.Player{Personality: "NotARealPersonality"})
	if p.Name != DefaultPersonality.Name {
		t.Fatalf("expected fallback to DefaultPersonality, got %s", p.Name)
	}
}

func TestPersonalityFor_NilPlayerFallsBackToDefault(t *testing.T) {
	p := PersonalityFor(nil)
	if p.Name != DefaultPersonality.Name {
		t.Fatalf("expected fallback to DefaultPersonality for a nil player, got %s", p.Name)
	}
}

func TestTakeTurn_EndsTheTurn(t *testing.T) {
	s := newTestState(2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.CurrentPlayerSlot = 0
	s.SoldiersByRegion[0] = make([]engine.Soldier, 2)
	// Player 1 holds its region with more soldiers than player 0 can send,
	// so player 1 survives the turn and is next to act.
	s.SoldiersByRegion[1] = make([]engine.Soldier, 3)

	next := TakeTurn(s, 0, 10*time.Millisecond)

	if next.CurrentPlayerSlot != 1 {
		t.Fatalf("expected TakeTurn to end the turn and advance to player 1, got %d", next.CurrentPlayerSlot)
	}
	if s.CurrentPlayerSlot != 0 {
		t.Fatal("expected the input state to be untouched (copy-on-write)")
	}
}
