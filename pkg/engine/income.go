package engine

// Income computes the faith a player earns at end-of-turn (§4.4):
//
//	base = regionsOwned + Σ soldiers at owned temple regions
//	income = floor(base * (1 + waterBonusPercent/100))
func Income(s *GameState, slot int) int {
	base := len(s.RegionsOwnedBy(slot))
	waterBonusPercent := 0

	for region, owner := range s.OwnersByRegion {
		if owner != slot {
			continue
		}
		temple, ok := s.TemplesByRegion[region]
		if !ok {
			continue
		}
		base += s.SoldierCountAt(region)
		waterBonusPercent += s.Rules().IncomeBonusPercent(&temple)
	}

	return (base * (100 + waterBonusPercent)) / 100
}

// ApplyIncome credits slot's end-of-turn income to its faith balance.
func ApplyIncome(s *GameState, slot int) {
	if s.FaithByPlayer == nil {
		s.FaithByPlayer = make(map[int]int)
	}
	s.FaithByPlayer[slot] += Income(s, slot)
}
