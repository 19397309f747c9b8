package engine

import (
	"errors"
	"testing"
)

func TestArmyMoveCommand_PeacefulTransferPreservesStackOrder(t *testing.T) {
	s := newTestState("cmd-1", 3)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 0
	withSoldiers(s, 0, 3) // IDs 1,2,3
	withSoldiers(s, 1, 0)

	result := ArmyMoveCommand(s, 0, 1, 2)
	if !result.Success {
		t.Fatalf("expected success, got err=%v", result.Err)
	}
	next := result.NewState

	if got := next.SoldierCountAt(0); got != 1 {
		t.Fatalf("expected 1 soldier left at source, got %d", got)
	}
	if got := next.SoldierCountAt(1); got != 2 {
		t.Fatalf("expected 2 soldiers moved to target, got %d", got)
	}
	moved := next.SoldiersByRegion[1]
	if moved[0].ID != 2 || moved[1].ID != 3 {
		t.Fatalf("expected the last 2 soldiers (IDs 2,3) to move in original order, got %+v", moved)
	}
	if next.MovesRemaining != s.MovesRemaining-1 {
		t.Fatal("expected MovesRemaining to decrement by 1")
	}
	if s.SoldierCountAt(0) != 3 {
		t.Fatal("original state must be untouched (copy-on-write)")
	}
}

func TestArmyMoveCommand_NotOwner(t *testing.T) {
	s := newTestState("cmd-2", 2)
	s.OwnersByRegion[0] = 1
	withSoldiers(s, 0, 2)

	result := ArmyMoveCommand(s, 0, 1, 1)
	if result.Success || !errors.Is(result.Err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %+v", result)
	}
}

func TestArmyMoveCommand_NotAdjacent(t *testing.T) {
	s := newTestState("cmd-3", 5)
	s.OwnersByRegion[0] = 0
	withSoldiers(s, 0, 2)

	result := ArmyMoveCommand(s, 0, 4, 1)
	if result.Success || !errors.Is(result.Err, ErrNotAdjacent) {
		t.Fatalf("expected ErrNotAdjacent, got %+v", result)
	}
}

func TestArmyMoveCommand_ConqueredThisTurnBlocksFurtherMoves(t *testing.T) {
	s := newTestState("cmd-4", 3)
	s.OwnersByRegion[0] = 0
	withSoldiers(s, 0, 2)
	s.ConqueredRegions[0] = true

	result := ArmyMoveCommand(s, 0, 1, 1)
	if result.Success || !errors.Is(result.Err, ErrConqueredThisTurn) {
		t.Fatalf("expected ErrConqueredThisTurn, got %+v", result)
	}
}

func TestArmyMoveCommand_NeutralConquestProducesNoCombatEvents(t *testing.T) {
	s := newTestState("cmd-5", 2)
	s.OwnersByRegion[0] = 0
	withSoldiers(s, 0, 3)
	// region 1 is neutral: no owner, no soldiers.

	result := ArmyMoveCommand(s, 0, 1, 3)
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Err)
	}
	for _, ev := range result.AttackSequence {
		if ev.SoundCue == SoundCombat {
			t.Fatalf("empty-defender attack must not emit a COMBAT event, got %+v", ev)
		}
	}
	owner, owned := result.NewState.OwnerOf(1)
	if !owned || owner != 0 {
		t.Fatalf("expected region 1 conquered by player 0, got owner=%d owned=%v", owner, owned)
	}
	if !result.NewState.ConqueredRegions[1] {
		t.Fatal("expected region 1 marked as conquered this turn")
	}
}

func TestBuildCommand_SoldierAppendsToEndOfStack(t *testing.T) {
	s := newTestState("cmd-6", 1)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = Temple{Region: 0}
	withSoldiers(s, 0, 2)
	s.FaithByPlayer[0] = 100

	result := BuildCommand(s, 0, UpgradeSoldier)
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Err)
	}
	stack := result.NewState.SoldiersByRegion[0]
	if len(stack) != 3 {
		t.Fatalf("expected 3 soldiers after purchase, got %d", len(stack))
	}
	if stack[0].ID != 1 || stack[1].ID != 2 || stack[2].ID != 3 {
		t.Fatalf("expected the new soldier (ID 3) appended after IDs 1,2, got %+v", stack)
	}
	if result.NewState.FaithByPlayer[0] != 100-s.Rules().SoldierCost(1) {
		t.Fatal("expected faith debited by the 1st-soldier-this-turn cost")
	}
}

func TestBuildCommand_InsufficientFaith(t *testing.T) {
	s := newTestState("cmd-7", 1)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = Temple{Region: 0}
	s.FaithByPlayer[0] = 0

	result := BuildCommand(s, 0, UpgradeSoldier)
	if result.Success || !errors.Is(result.Err, ErrInsufficientFaith) {
		t.Fatalf("expected ErrInsufficientFaith, got %+v", result)
	}
}

func TestBuildCommand_UpgradeSlotTaken(t *testing.T) {
	s := newTestState("cmd-8", 1)
	s.OwnersByRegion[0] = 0
	s.TemplesByRegion[0] = Temple{Region: 0, UpgradeIndex: UpgradeEarth, Level: 1}
	s.FaithByPlayer[0] = 1000

	result := BuildCommand(s, 0, UpgradeFire)
	if result.Success || !errors.Is(result.Err, ErrUpgradeSlotTaken) {
		t.Fatalf("expected ErrUpgradeSlotTaken, got %+v", result)
	}
}

func TestBuildCommand_NoTemple(t *testing.T) {
	s := newTestState("cmd-9", 1)
	s.OwnersByRegion[0] = 0

	result := BuildCommand(s, 0, UpgradeSoldier)
	if result.Success || !errors.Is(result.Err, ErrNoTemple) {
		t.Fatalf("expected ErrNoTemple, got %+v", result)
	}
}

func TestEndTurnCommand_PaysIncomeAndAdvances(t *testing.T) {
	s := newTestState("cmd-10", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	s.CurrentPlayerSlot = 0
	faithBefore := s.FaithByPlayer[0]

	result := EndTurnCommand(s)
	if !result.Success {
		t.Fatalf("EndTurnCommand should always succeed, got %v", result.Err)
	}
	if result.NewState.FaithByPlayer[0] != faithBefore+Income(s, 0) {
		t.Fatal("expected ending player's income to be paid")
	}
	if result.NewState.CurrentPlayerSlot != 1 {
		t.Fatalf("expected turn to advance to player 1, got %d", result.NewState.CurrentPlayerSlot)
	}
}

func TestResignCommand_ReleasesRegionsToNeutral(t *testing.T) {
	s := newTestState("cmd-11", 2)
	s.OwnersByRegion[0] = 0
	s.OwnersByRegion[1] = 1
	withSoldiers(s, 0, 3)

	result := ResignCommand(s, 0)
	if !result.Success {
		t.Fatalf("expected success, got %v", result.Err)
	}
	if _, owned := result.NewState.OwnerOf(0); owned {
		t.Fatal("expected resigned player's region to become neutral")
	}
	if result.NewState.SoldierCountAt(0) != 3 {
		t.Fatal("expected armies to remain in place after resignation")
	}
	if !result.NewState.IsEliminated(0) {
		t.Fatal("expected resigned player marked eliminated")
	}
}

func TestResignCommand_UnknownPlayer(t *testing.T) {
	s := newTestState("cmd-12", 1)

	result := ResignCommand(s, 99)
	if result.Success || !errors.Is(result.Err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %+v", result)
	}
}
