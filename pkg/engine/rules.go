package engine

// Rules holds the static, load-once configuration the engine is parameterized
// by. Never mutated at runtime; a game's Rules are fixed at creation.
type Rules struct {
	InitialMoves int // army-move points granted at the start of each turn

	BaseSoldierCost int // faith cost of the 1st soldier purchased in a turn
	SoldierCostStep int // added per additional soldier purchased the same turn

	MaxUpgradeLevel int // ceiling for any temple upgrade level

	// WaterIncomeBonusPercent is the per-level income multiplier bonus
	// granted by a WATER temple (e.g. 20 means +20% per level).
	WaterIncomeBonusPercent int

	UpgradeBaseCost map[UpgradeIndex]int // faith cost to install level 0 -> 1
	UpgradeCostStep map[UpgradeIndex]int // added faith cost per additional level
}

// DefaultRules returns the standard rules table used by new games.
func DefaultRules() Rules {
	return Rules{
		InitialMoves:            3,
		BaseSoldierCost:         10,
		SoldierCostStep:         5,
		MaxUpgradeLevel:         3,
		WaterIncomeBonusPercent: 20,
		UpgradeBaseCost: map[UpgradeIndex]int{
			UpgradeEarth: 20,
			UpgradeFire:  20,
			UpgradeWater: 20,
			UpgradeAir:   20,
		},
		UpgradeCostStep: map[UpgradeIndex]int{
			UpgradeEarth: 15,
			UpgradeFire:  15,
			UpgradeWater: 15,
			UpgradeAir:   15,
		},
	}
}

// SoldierCost returns the faith cost of the Nth soldier (1-indexed) a
// player buys during a single turn. The schedule resets every turn; it
// is not a lifetime count.
func (r Rules) SoldierCost(countThisTurn int) int {
	if countThisTurn < 1 {
		countThisTurn = 1
	}
	return r.BaseSoldierCost + (countThisTurn-1)*r.SoldierCostStep
}

// UpgradeCost returns the faith cost to move a temple's given upgrade from
// level to level+1.
func (r Rules) UpgradeCost(upgrade UpgradeIndex, level int) int {
	base := r.UpgradeBaseCost[upgrade]
	step := r.UpgradeCostStep[upgrade]
	return base + level*step
}

// IncomeBonusPercent returns the income-multiplier contribution of a
// temple. Only WATER grants an income multiplier (§4.4).
func (r Rules) IncomeBonusPercent(t *Temple) int {
	if t == nil || t.UpgradeIndex != UpgradeWater {
		return 0
	}
	return r.WaterIncomeBonusPercent * (t.Level + 1)
}
