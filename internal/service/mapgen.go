package service

import "github.com/barrybecker4/conquest-engine/pkg/engine"

// mapgen holds the single fixed board new games are started on. Procedural
// map generation is out of scope for now; every game starts on the same
// named board.
const defaultMapName = "classic-12"

// buildDefaultMap returns a 12-region ring-with-chords graph: enough
// connectivity for interesting attack angles without per-game variation.
func buildDefaultMap() *engine.RegionMap {
	adjacency := [][]int{
		{1, 11, 4},
		{0, 2, 5},
		{1, 3, 6},
		{2, 4, 7},
		{3, 5, 0, 8},
		{4, 6, 1, 9},
		{5, 7, 2, 10},
		{6, 8, 3, 11},
		{7, 9, 4},
		{8, 10, 5},
		{9, 11, 6},
		{10, 0, 7},
	}
	regions := make([]engine.Region, len(adjacency))
	for i, neighbors := range adjacency {
		regions[i] = engine.Region{Index: i, Neighbors: neighbors}
	}
	return engine.NewRegionMap(regions)
}

// seedInitialState deals starting regions round-robin among the given
// players and places two starting soldiers on each.
func seedInitialState(players []engine.Player, rngSeed string, maxTurns int) *engine.GameState {
	regionMap := buildDefaultMap()
	owners := make(map[int]int)
	soldiers := make(map[int][]engine.Soldier)
	nextSoldierID := 1

	for i, region := range regionMap.Regions {
		slot := players[i%len(players)].SlotIndex
		owners[region.Index] = slot
		soldiers[region.Index] = []engine.Soldier{
			{ID: nextSoldierID}, {ID: nextSoldierID + 1},
		}
		nextSoldierID += 2
	}

	faith := make(map[int]int)
	for _, p := range players {
		faith[p.SlotIndex] = 0
	}

	return &engine.GameState{
		TurnNumber:             0,
		MaxTurns:               maxTurns,
		CurrentPlayerSlot:      players[0].SlotIndex,
		MovesRemaining:         3,
		Players:                players,
		Map:                    regionMap,
		OwnersByRegion:         owners,
		SoldiersByRegion:       soldiers,
		TemplesByRegion:        map[int]engine.Temple{},
		FaithByPlayer:          faith,
		ConqueredRegions:       map[int]bool{},
		EliminatedPlayers:      map[int]bool{},
		SoldiersBoughtThisTurn: map[int]int{},
		PendingAirRefund:       map[int]int{},
		NextSoldierID:          nextSoldierID,
		RNGSeed:                rngSeed,
	}
}
