package engine

// EndReason identifies why a game ended.
type EndReason int

const (
	NotEnded EndReason = iota
	TurnLimit
	Elimination
)

// Score computes a player's score: 1000 per region, 10 per soldier, plus
// raw faith. Pure function of state (§8 "idempotent scoring").
func Score(s *GameState, slot int) int {
	regions := len(s.RegionsOwnedBy(slot))
	soldiers := s.TotalSoldiers(slot)
	faith := s.FaithByPlayer[slot]
	return 1000*regions + 10*soldiers + faith
}

// IsGameEnded reports whether the game has ended and why.
func IsGameEnded(s *GameState) (bool, EndReason) {
	ownerCount := make(map[int]bool)
	for _, owner := range s.OwnersByRegion {
		ownerCount[owner] = true
	}
	if len(ownerCount) <= 1 {
		return true, Elimination
	}
	if s.MaxTurns > 0 && s.TurnNumber+1 >= s.MaxTurns {
		return true, TurnLimit
	}
	return false, NotEnded
}

// Winner returns the winning slot and whether the game is a draw. Only
// meaningful once IsGameEnded reports true. Elimination winners are
// determined directly by sole ownership; turn-limit winners are determined
// by score, with an exact tie among all top scorers counting as a draw.
func Winner(s *GameState) (slot int, isDraw bool) {
	ended, reason := IsGameEnded(s)
	if !ended {
		return -1, false
	}

	if reason == Elimination {
		ownerCount := make(map[int]bool)
		for _, owner := range s.OwnersByRegion {
			ownerCount[owner] = true
		}
		if len(ownerCount) == 0 {
			return -1, true
		}
		for owner := range ownerCount {
			return owner, false
		}
	}

	best := -1
	bestScore := 0
	tied := 0
	for _, p := range s.Players {
		if s.IsEliminated(p.SlotIndex) {
			continue
		}
		sc := Score(s, p.SlotIndex)
		switch {
		case sc > bestScore || best == -1:
			best = p.SlotIndex
			bestScore = sc
			tied = 1
		case sc == bestScore:
			tied++
		}
	}
	if tied > 1 {
		return -1, true
	}
	return best, false
}
