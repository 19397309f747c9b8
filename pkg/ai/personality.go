package ai

import "github.com/barrybecker4/conquest-engine/pkg/engine"

// Personality parameterizes how an AI player spends faith and how
// cautiously it perceives threats (§4.9). Stored by name on engine.Player
// so a resumed game keeps the same bot behavior across turns.
type Personality struct {
	Name string

	// Level governs the heuristic's threat/opportunity sensitivity.
	Level Level

	// SoldierEagerness weights the force disparity in the soldier-build
	// trigger (shouldBuildSoldier): the higher it is, the smaller the
	// disparity at which a bot recruits. The trigger is checked before any
	// temple upgrade is considered.
	SoldierEagerness float64

	// UpgradePreference is the elemental upgrade priority order:
	// nextUpgradeFor installs its first entry on a temple with no upgrade,
	// and bestBuildAction weights temples by their upgrade's rank in it.
	UpgradePreference []engine.UpgradeIndex
}

// Personalities is the fixed roster of named AI profiles. A player's
// Player.Personality field (engine/unit.go) selects one by name;
// DefaultPersonality is used when the name is empty or unrecognized.
var Personalities = map[string]Personality{
	"Berserker": {
		Name:             "Berserker",
		Level:            Mean,
		SoldierEagerness: 0.8,
		UpgradePreference: []engine.UpgradeIndex{
			engine.UpgradeFire, engine.UpgradeEarth, engine.UpgradeAir, engine.UpgradeWater,
		},
	},
	"Defender": {
		Name:             "Defender",
		Level:            Rude,
		SoldierEagerness: 0.5,
		UpgradePreference: []engine.UpgradeIndex{
			engine.UpgradeEarth, engine.UpgradeWater, engine.UpgradeFire, engine.UpgradeAir,
		},
	},
	"Economist": {
		Name:             "Economist",
		Level:            Rude,
		SoldierEagerness: 0.3,
		UpgradePreference: []engine.UpgradeIndex{
			engine.UpgradeWater, engine.UpgradeAir, engine.UpgradeEarth, engine.UpgradeFire,
		},
	},
	"Pacifist": {
		Name:             "Pacifist",
		Level:            Nice,
		SoldierEagerness: 0.2,
		UpgradePreference: []engine.UpgradeIndex{
			engine.UpgradeWater, engine.UpgradeEarth, engine.UpgradeAir, engine.UpgradeFire,
		},
	},
}

// DefaultPersonality is assigned to AI players whose Personality name is
// empty or not found in Personalities.
var DefaultPersonality = Personalities["Defender"]

// PersonalityFor resolves a player's named personality, falling back to
// DefaultPersonality.
func PersonalityFor(p *engine.Player) Personality {
	if p == nil {
		return DefaultPersonality
	}
	if pers, ok := Personalities[p.Personality]; ok {
		return pers
	}
	return DefaultPersonality
}
