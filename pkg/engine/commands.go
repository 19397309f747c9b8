package engine

// CommandResult is the outcome of applying a command: either a new state
// (plus, for army moves, the attack sequence the combat resolver produced)
// or an error describing why the command was rejected. On failure the
// input state is untouched — callers must not use NewState.
type CommandResult struct {
	Success       bool
	NewState      *GameState
	AttackSequence []AttackEvent
	Err           error
}

func fail(err error) CommandResult { return CommandResult{Success: false, Err: err} }

// ArmyMoveCommand moves count soldiers from source to target. If both
// regions share an owner this is a peaceful transfer; otherwise combat is
// resolved (§4.2, §4.3).
func ArmyMoveCommand(s *GameState, source, target, count int) CommandResult {
	owner, owned := s.OwnerOf(source)
	if !owned || owner != s.CurrentPlayerSlot {
		return fail(ErrNotOwner)
	}
	if s.ConqueredRegions[source] {
		return fail(ErrConqueredThisTurn)
	}
	if s.Map == nil || !s.Map.AreNeighbors(source, target) {
		return fail(ErrNotAdjacent)
	}
	if count < 1 || count > s.SoldierCountAt(source) {
		return fail(ErrInvalidCount)
	}
	if s.MovesRemaining < 1 {
		return fail(ErrNoMovesRemaining)
	}
	targetOwner, targetOwned := s.OwnerOf(target)
	if targetOwned && targetOwner == owner {
		return armyMovePeaceful(s, source, target, count)
	}
	return armyMoveAttack(s, source, target, count)
}

func armyMovePeaceful(s *GameState, source, target, count int) CommandResult {
	next := s.Clone()
	moving := popSoldiers(next, source, count)
	appendSoldiers(next, target, moving)
	next.MovesRemaining--
	return CommandResult{Success: true, NewState: next}
}

func armyMoveAttack(s *GameState, source, target, count int) CommandResult {
	events, result := ResolveCombat(s, source, target, count)

	next := s.Clone()
	attackerSlot := s.CurrentPlayerSlot
	defenderCasualties := 0
	for _, ev := range events {
		defenderCasualties += ev.DefenderCasualties
	}

	if result.retreated {
		// Survivors return to source; both sides' casualties are removed by
		// truncating their stacks from the end. Ownership unchanged.
		truncateFromEnd(next, source, count-result.attackerSurvivors)
		truncateFromEnd(next, target, defenderCasualties)
		next.MovesRemaining--
		if result.airRefundAmount > 0 {
			next.PendingAirRefund[result.airRefundOwner] += result.airRefundAmount
		}
		return CommandResult{Success: true, NewState: next, AttackSequence: events}
	}

	if result.conquered {
		moving := popSoldiers(next, source, count)
		survivors := moving[len(moving)-result.attackerSurvivors:]
		clearRegionSoldiers(next, target)
		appendSoldiers(next, target, survivors)
		next.OwnersByRegion[target] = attackerSlot
		if temple, ok := next.TemplesByRegion[target]; ok {
			_ = temple // temple transfers with the region; ownership map already moved
		}
		next.ConqueredRegions[target] = true
		next.MovesRemaining--
		return CommandResult{Success: true, NewState: next, AttackSequence: events}
	}

	// Attackers eliminated without retreat: all sent soldiers are destroyed,
	// and the defenders they killed are removed from the target's stack.
	truncateFromEnd(next, source, count)
	truncateFromEnd(next, target, defenderCasualties)
	next.MovesRemaining--
	if result.airRefundAmount > 0 {
		next.PendingAirRefund[result.airRefundOwner] += result.airRefundAmount
	}
	return CommandResult{Success: true, NewState: next, AttackSequence: events}
}

// popSoldiers removes and returns the last n soldiers from region's stack.
func popSoldiers(s *GameState, region, n int) []Soldier {
	stack := s.SoldiersByRegion[region]
	if n > len(stack) {
		n = len(stack)
	}
	moving := append([]Soldier(nil), stack[len(stack)-n:]...)
	s.SoldiersByRegion[region] = stack[:len(stack)-n]
	return moving
}

// truncateFromEnd removes the last n soldiers from region's stack without
// returning them (combat casualties).
func truncateFromEnd(s *GameState, region, n int) {
	stack := s.SoldiersByRegion[region]
	if n > len(stack) {
		n = len(stack)
	}
	s.SoldiersByRegion[region] = stack[:len(stack)-n]
}

// appendSoldiers appends soldiers to the end of region's stack.
func appendSoldiers(s *GameState, region int, soldiers []Soldier) {
	s.SoldiersByRegion[region] = append(s.SoldiersByRegion[region], soldiers...)
}

// clearRegionSoldiers removes all (dead) defenders from a conquered region.
func clearRegionSoldiers(s *GameState, region int) {
	s.SoldiersByRegion[region] = nil
}

// BuildCommand purchases a soldier or levels up a temple's elemental
// upgrade at region. SOLDIER is special: it appends a soldier to the
// region's stack and does not touch the temple's elemental upgrade slot.
func BuildCommand(s *GameState, region int, upgrade UpgradeIndex) CommandResult {
	owner, owned := s.OwnerOf(region)
	if !owned || owner != s.CurrentPlayerSlot {
		return fail(ErrNotOwner)
	}
	temple, hasTemple := s.TemplesByRegion[region]
	if !hasTemple {
		return fail(ErrNoTemple)
	}

	rules := s.Rules()

	if upgrade == UpgradeSoldier {
		countThisTurn := s.SoldiersBoughtThisTurn[s.CurrentPlayerSlot] + 1
		cost := rules.SoldierCost(countThisTurn)
		if s.FaithByPlayer[s.CurrentPlayerSlot] < cost {
			return fail(ErrInsufficientFaith)
		}
		next := s.Clone()
		next.FaithByPlayer[s.CurrentPlayerSlot] -= cost
		next.SoldiersBoughtThisTurn[s.CurrentPlayerSlot] = countThisTurn
		next.NextSoldierID++
		appendSoldiers(next, region, []Soldier{{ID: next.NextSoldierID}})
		return CommandResult{Success: true, NewState: next}
	}

	if temple.UpgradeIndex != UpgradeNone && temple.UpgradeIndex != upgrade {
		return fail(ErrUpgradeSlotTaken)
	}
	if temple.UpgradeIndex == upgrade && temple.Level >= rules.MaxUpgradeLevel {
		return fail(ErrUpgradeAtMaxLevel)
	}

	cost := rules.UpgradeCost(upgrade, temple.Level)
	if s.FaithByPlayer[s.CurrentPlayerSlot] < cost {
		return fail(ErrInsufficientFaith)
	}

	next := s.Clone()
	next.FaithByPlayer[s.CurrentPlayerSlot] -= cost
	newTemple := next.TemplesByRegion[region]
	newTemple.UpgradeIndex = upgrade
	newTemple.Level = temple.Level + 1
	next.TemplesByRegion[region] = newTemple
	return CommandResult{Success: true, NewState: next}
}

// EndTurnCommand is always valid; it transitions the turn.
func EndTurnCommand(s *GameState) CommandResult {
	next := s.Clone()
	AdvanceTurn(next)
	return CommandResult{Success: true, NewState: next}
}

// ResignCommand marks slot eliminated, releases its regions to neutral
// ownership (armies remain in place, un-owned), and re-runs end detection.
func ResignCommand(s *GameState, slot int) CommandResult {
	if s.Player(slot) == nil {
		return fail(ErrUnknownPlayer)
	}
	next := s.Clone()
	next.EliminatedPlayers[slot] = true
	for region, owner := range next.OwnersByRegion {
		if owner == slot {
			delete(next.OwnersByRegion, region)
		}
	}
	for region, temple := range next.TemplesByRegion {
		if _, owned := next.OwnerOf(region); !owned {
			delete(next.TemplesByRegion, region)
			_ = temple
		}
	}
	if next.CurrentPlayerSlot == slot {
		AdvanceTurn(next)
	}
	return CommandResult{Success: true, NewState: next}
}
