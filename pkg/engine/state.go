package engine

import "strconv"

// GameState is the authoritative snapshot of a game in progress. It is
// mutated only by the command processor (pkg/engine/commands.go), which
// produces a new logical state per applied command via copy-on-write.
// Every other consumer — AI search, the client reconciler — operates on a
// deep copy and must never write back into the server's GameState.
type GameState struct {
	TurnNumber        int `json:"turnNumber"`
	MaxTurns          int `json:"maxTurns"` // 0 => unlimited
	CurrentPlayerSlot int `json:"currentPlayerSlot"`
	MovesRemaining    int `json:"movesRemaining"`

	Players []Player `json:"players"`
	Map     *RegionMap `json:"-"`

	OwnersByRegion   map[int]int          `json:"ownersByRegion"`   // region -> slot; absent = neutral
	SoldiersByRegion map[int][]Soldier    `json:"soldiersByRegion"` // stack order: append/pop from the end
	TemplesByRegion  map[int]Temple       `json:"templesByRegion"`
	FaithByPlayer    map[int]int          `json:"faithByPlayer"`
	ConqueredRegions map[int]bool         `json:"conqueredRegions"`
	EliminatedPlayers map[int]bool        `json:"eliminatedPlayers"`

	// SoldiersBoughtThisTurn tracks the per-turn soldier purchase count used
	// by the soldier cost schedule. Reset at the start of every turn, keyed
	// by slot so a recovered/resumed game still prices correctly if the
	// current player changes mid-resolution.
	SoldiersBoughtThisTurn map[int]int `json:"soldiersBoughtThisTurn"`

	// PendingAirRefund holds AIR-temple mobility bonuses earned by
	// successfully defending a temple region, owed to the defender at the
	// start of their next turn
	// and capped at InitialMoves.
	PendingAirRefund map[int]int `json:"pendingAirRefund"`

	NextSoldierID int `json:"nextSoldierId"`

	RNGSeed string `json:"rngSeed"`

	// RNGDraws is the number of Clone() generations this state's RNG
	// lineage has advanced through since RNGSeed's epoch. It travels in
	// JSON alongside RNGSeed so a state reloaded from storage resumes its
	// draw sequence at the point its lineage actually reached, instead of
	// restarting from RNGSeed's very first draw on every reload.
	RNGDraws int `json:"rngDraws"`
	rng      *RNG
}

// RNG returns the game's PRNG, lazily constructing it from RNGSeed and
// RNGDraws if the state was just deserialized and rng hasn't been
// hydrated yet.
func (s *GameState) RNG() *RNG {
	if s.rng == nil {
		s.rng = NewRNG(s.RNGSeed).Fork(strconv.Itoa(s.RNGDraws))
	}
	return s.rng
}

// Rules returns the rules table this state plays under. Currently the
// engine uses a single global DefaultRules(); kept as a method so callers
// never hardcode DefaultRules() directly, in case a future game varies it.
func (s *GameState) Rules() Rules {
	return DefaultRules()
}

// Player returns the Player record for slot, or nil if slot is out of range.
func (s *GameState) Player(slot int) *Player {
	for i := range s.Players {
		if s.Players[i].SlotIndex == slot {
			return &s.Players[i]
		}
	}
	return nil
}

// OwnerOf returns the owning slot of a region and whether it is owned.
func (s *GameState) OwnerOf(region int) (int, bool) {
	slot, ok := s.OwnersByRegion[region]
	return slot, ok
}

// RegionsOwnedBy returns all region indices owned by slot.
func (s *GameState) RegionsOwnedBy(slot int) []int {
	var out []int
	for r, owner := range s.OwnersByRegion {
		if owner == slot {
			out = append(out, r)
		}
	}
	return out
}

// SoldierCountAt returns the number of soldiers stationed at region.
func (s *GameState) SoldierCountAt(region int) int {
	return len(s.SoldiersByRegion[region])
}

// TotalSoldiers returns the total soldier count owned by slot (soldiers are
// attributed to whichever region they sit in; region ownership determines
// whose army they count as).
func (s *GameState) TotalSoldiers(slot int) int {
	total := 0
	for region, owner := range s.OwnersByRegion {
		if owner == slot {
			total += len(s.SoldiersByRegion[region])
		}
	}
	return total
}

// TempleAt returns the temple at region, or nil if none.
func (s *GameState) TempleAt(region int) *Temple {
	t, ok := s.TemplesByRegion[region]
	if !ok {
		return nil
	}
	return &t
}

// IsEliminated reports whether slot has been eliminated.
func (s *GameState) IsEliminated(slot int) bool {
	return s.EliminatedPlayers[slot]
}

// Clone returns a deep copy of the state. The clone shares no mutable
// storage with the original, including its RNG: every Clone() advances
// RNGDraws, so the clone's RNG is a fresh epoch derived from RNGSeed
// rather than the same *RNG object the parent holds. This keeps a live
// game's draw sequence from ever being consumed by a caller operating on
// a clone — notably AI search, which clones the same state repeatedly to
// explore many hypothetical branches (pkg/ai) without perturbing the real
// game's dice.
func (s *GameState) Clone() *GameState {
	c := &GameState{
		TurnNumber:        s.TurnNumber,
		MaxTurns:          s.MaxTurns,
		CurrentPlayerSlot: s.CurrentPlayerSlot,
		MovesRemaining:    s.MovesRemaining,
		Map:               s.Map,
		NextSoldierID:     s.NextSoldierID,
		RNGSeed:           s.RNGSeed,
		RNGDraws:          s.RNGDraws + 1,
	}

	c.Players = append([]Player(nil), s.Players...)

	c.OwnersByRegion = make(map[int]int, len(s.OwnersByRegion))
	for k, v := range s.OwnersByRegion {
		c.OwnersByRegion[k] = v
	}

	c.SoldiersByRegion = make(map[int][]Soldier, len(s.SoldiersByRegion))
	for k, v := range s.SoldiersByRegion {
		c.SoldiersByRegion[k] = append([]Soldier(nil), v...)
	}

	c.TemplesByRegion = make(map[int]Temple, len(s.TemplesByRegion))
	for k, v := range s.TemplesByRegion {
		c.TemplesByRegion[k] = v
	}

	c.FaithByPlayer = make(map[int]int, len(s.FaithByPlayer))
	for k, v := range s.FaithByPlayer {
		c.FaithByPlayer[k] = v
	}

	c.ConqueredRegions = make(map[int]bool, len(s.ConqueredRegions))
	for k, v := range s.ConqueredRegions {
		c.ConqueredRegions[k] = v
	}

	c.EliminatedPlayers = make(map[int]bool, len(s.EliminatedPlayers))
	for k, v := range s.EliminatedPlayers {
		c.EliminatedPlayers[k] = v
	}

	c.SoldiersBoughtThisTurn = make(map[int]int, len(s.SoldiersBoughtThisTurn))
	for k, v := range s.SoldiersBoughtThisTurn {
		c.SoldiersBoughtThisTurn[k] = v
	}

	c.PendingAirRefund = make(map[int]int, len(s.PendingAirRefund))
	for k, v := range s.PendingAirRefund {
		c.PendingAirRefund[k] = v
	}

	return c
}
