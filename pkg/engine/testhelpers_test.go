package engine

// newLinearMap builds a RegionMap of n regions in a simple chain
// (0-1-2-...-n-1), convenient for adjacency-dependent tests.
func newLinearMap(n int) *RegionMap {
	regions := make([]Region, n)
	for i := 0; i < n; i++ {
		var neighbors []int
		if i > 0 {
			neighbors = append(neighbors, i-1)
		}
		if i < n-1 {
			neighbors = append(neighbors, i+1)
		}
		regions[i] = Region{Index: i, Neighbors: neighbors}
	}
	return NewRegionMap(regions)
}

func newTestState(seed string, regionCount int) *GameState {
	return &GameState{
		MaxTurns:          0,
		CurrentPlayerSlot: 0,
		MovesRemaining:    3,
		Players: []Player{
			{SlotIndex: 0, Name: "P0"},
			{SlotIndex: 1, Name: "P1"},
		},
		Map:                    newLinearMap(regionCount),
		OwnersByRegion:         map[int]int{},
		SoldiersByRegion:       map[int][]Soldier{},
		TemplesByRegion:        map[int]Temple{},
		FaithByPlayer:          map[int]int{0: 100, 1: 100},
		ConqueredRegions:       map[int]bool{},
		EliminatedPlayers:      map[int]bool{},
		SoldiersBoughtThisTurn: map[int]int{},
		PendingAirRefund:       map[int]int{},
		RNGSeed:                seed,
	}
}

func withSoldiers(s *GameState, region, count int) {
	stack := make([]Soldier, count)
	for i := range stack {
		s.NextSoldierID++
		stack[i] = Soldier{ID: s.NextSoldierID}
	}
	s.SoldiersByRegion[region] = stack
}
