package engine

// AdvanceTurn performs end-of-turn bookkeeping for the ending player and
// starts the next player's turn (§4.5):
//  1. pay the ending player's income;
//  2. detect newly eliminated players (zero owned regions);
//  3. clear ConqueredRegions;
//  4. advance CurrentPlayerSlot to the next non-eliminated slot, wrapping
//     and incrementing TurnNumber on wraparound.
//
// Mutates s in place; callers that need copy-on-write semantics clone
// first (EndTurnCommand does this).
func AdvanceTurn(s *GameState) {
	ApplyIncome(s, s.CurrentPlayerSlot)
	DetectEliminations(s)

	s.ConqueredRegions = make(map[int]bool)

	next, wrapped := nextActiveSlot(s, s.CurrentPlayerSlot)
	if wrapped {
		s.TurnNumber++
	}
	s.CurrentPlayerSlot = next

	rules := s.Rules()
	refund := s.PendingAirRefund[next]
	if refund > rules.InitialMoves {
		refund = rules.InitialMoves
	}
	s.MovesRemaining = rules.InitialMoves + refund
	delete(s.PendingAirRefund, next)

	s.SoldiersBoughtThisTurn = make(map[int]int)
}

// nextActiveSlot returns the next non-eliminated slot after from, wrapping
// around the player list, and whether that step wrapped past the last
// player (i.e. a new turn number begins). If from is the only active slot,
// the search comes back around to it and returns (from, true); it returns
// (from, false) only when every slot is eliminated.
func nextActiveSlot(s *GameState, from int) (slot int, wrapped bool) {
	if len(s.Players) == 0 {
		return from, false
	}
	order := make([]int, len(s.Players))
	for i, p := range s.Players {
		order[i] = p.SlotIndex
	}

	startIdx := 0
	for i, sl := range order {
		if sl == from {
			startIdx = i
			break
		}
	}

	for step := 1; step <= len(order); step++ {
		idx := (startIdx + step) % len(order)
		if !s.IsEliminated(order[idx]) {
			return order[idx], idx <= startIdx
		}
	}
	return from, false
}

// DetectEliminations marks any player who owns zero regions as eliminated.
// Once eliminated, a slot stays eliminated (§3 invariant 5).
func DetectEliminations(s *GameState) {
	owned := make(map[int]bool)
	for _, owner := range s.OwnersByRegion {
		owned[owner] = true
	}
	for _, p := range s.Players {
		if !owned[p.SlotIndex] {
			s.EliminatedPlayers[p.SlotIndex] = true
		}
	}
}
