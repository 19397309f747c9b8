package ai

import (
	"math"
	"time"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

// maxBuildActionsPerTurn bounds the build/upgrade loop; rising costs make
// this a formality in practice, but it guards against a pathological rules
// table (e.g. a zero-cost upgrade) looping forever.
const maxBuildActionsPerTurn = 25

// TakeTurn plays one full AI turn for player: spend faith on temple
// upgrades and soldiers, then spend every remaining army move, then end
// the turn (§4.9). moveBudget bounds the search time for each individual
// army move decision. Returns the resulting state; s is never mutated.
func TakeTurn(s *engine.GameState, player int, moveBudget time.Duration) *engine.GameState {
	personality := PersonalityFor(s.Player(player))

	state := spendFaith(s, player, personality)
	state = spendMoves(state, player, personality, moveBudget)

	result := engine.EndTurnCommand(state)
	return result.NewState
}

// spendFaith repeatedly applies the single best-value build or upgrade
// action until none is affordable or worth taking.
func spendFaith(s *engine.GameState, player int, personality Personality) *engine.GameState {
	state := s
	for i := 0; i < maxBuildActionsPerTurn; i++ {
		region, upgrade, ok := bestBuildAction(state, player, personality)
		if !ok {
			break
		}
		result := engine.BuildCommand(state, region, upgrade)
		if !result.Success {
			break
		}
		state = result.NewState
	}
	return state
}

// bestBuildAction decides player's single best faith expenditure. Step 1
// checks the soldier-build trigger independent of upgrade availability
// (force disparity against the strongest opponent weighed by
// SoldierEagerness); only when that trigger does not fire does step 2
// consider temple upgrades, scored toward the safest (least dangerous)
// eligible temple weighted by the personality's element preference rank.
func bestBuildAction(s *engine.GameState, player int, personality Personality) (region int, upgrade engine.UpgradeIndex, ok bool) {
	if region, hasTemple := mostDangerousOwnedTemple(s, player, personality.Level); hasTemple {
		if shouldBuildSoldier(s, player, personality) {
			return region, engine.UpgradeSoldier, true
		}
	}

	faith := s.FaithByPlayer[player]
	rules := s.Rules()

	bestScore := math.Inf(1)
	bestRegion := -1
	bestUpgrade := engine.UpgradeNone

	for r, owner := range s.OwnersByRegion {
		if owner != player {
			continue
		}
		temple, hasTemple := s.TemplesByRegion[r]
		if !hasTemple {
			continue
		}
		candidate, rank := nextUpgradeFor(&temple, personality)
		if candidate == engine.UpgradeNone {
			continue
		}
		cost := rules.UpgradeCost(candidate, temple.Level)
		if cost > faith {
			continue
		}
		score := (TempleDangerousness(s, &temple, personality.Level) + 0.1) / rank
		if score < bestScore {
			bestScore = score
			bestRegion = r
			bestUpgrade = candidate
		}
	}

	if bestRegion >= 0 {
		return bestRegion, bestUpgrade, true
	}

	return 0, engine.UpgradeNone, false
}

// nextUpgradeFor returns the upgrade a temple should pursue next
// (install a fresh element or level up its existing one) and a rank
// weight derived from the personality's preference order (earlier
// preference = higher weight). Returns UpgradeNone if the temple is
// already maxed or unrecognized.
func nextUpgradeFor(temple *engine.Temple, personality Personality) (engine.UpgradeIndex, float64) {
	rules := engine.DefaultRules()

	if temple.UpgradeIndex != engine.UpgradeNone {
		if temple.Level >= rules.MaxUpgradeLevel {
			return engine.UpgradeNone, 0
		}
		return temple.UpgradeIndex, rankWeight(personality, temple.UpgradeIndex)
	}

	for _, u := range personality.UpgradePreference {
		return u, rankWeight(personality, u)
	}
	return engine.UpgradeNone, 0
}

func rankWeight(personality Personality, upgrade engine.UpgradeIndex) float64 {
	for i, u := range personality.UpgradePreference {
		if u == upgrade {
			return float64(len(personality.UpgradePreference) - i)
		}
	}
	return 1
}

// mostDangerousOwnedTemple returns the region of player's owned temple
// facing the greatest combined threat+opportunity, the reinforcement
// target when the soldier-build trigger fires.
func mostDangerousOwnedTemple(s *engine.GameState, player int, level Level) (int, bool) {
	bestRegion := -1
	bestDanger := -1.0
	for r, owner := range s.OwnersByRegion {
		if owner != player {
			continue
		}
		temple, hasTemple := s.TemplesByRegion[r]
		if !hasTemple {
			continue
		}
		danger := TempleDangerousness(s, &temple, level)
		if danger > bestDanger {
			bestDanger = danger
			bestRegion = r
		}
	}
	if bestRegion < 0 {
		return 0, false
	}
	return bestRegion, true
}

// shouldBuildSoldier implements the soldier-build trigger: build when
// forceDisparity·SoldierEagerness − relativeCost >= 0, where
// forceDisparity is the strongest opponent's force over our own force
// and relativeCost is the next soldier's cost as a fraction of current
// faith. force is 2·(regions owned) + (soldiers owned), so both
// territory and army size count toward it.
func shouldBuildSoldier(s *engine.GameState, player int, personality Personality) bool {
	faith := s.FaithByPlayer[player]
	if faith <= 0 {
		return false
	}
	countThisTurn := s.SoldiersBoughtThisTurn[player] + 1
	cost := s.Rules().SoldierCost(countThisTurn)
	if cost > faith {
		return false
	}

	ourForce := force(s, player)
	if ourForce <= 0 {
		return false
	}
	maxForce := maxOpponentForce(s, player)
	forceDisparity := maxForce / ourForce
	relativeCost := float64(cost) / float64(faith)

	return forceDisparity*personality.SoldierEagerness-relativeCost >= 0
}

// force measures a player's overall strength: twice their region count
// plus their total soldier count.
func force(s *engine.GameState, player int) float64 {
	regions := s.RegionsOwnedBy(player)
	soldiers := 0
	for _, r := range regions {
		soldiers += s.SoldierCountAt(r)
	}
	return float64(2*len(regions) + soldiers)
}

// maxOpponentForce returns the greatest force among every player other
// than player.
func maxOpponentForce(s *engine.GameState, player int) float64 {
	max := 0.0
	for _, p := range s.Players {
		if p.SlotIndex == player {
			continue
		}
		if f := force(s, p.SlotIndex); f > max {
			max = f
		}
	}
	return max
}

// spendMoves runs the search-based move selector for every remaining
// move point, applying each chosen move until MovesRemaining hits 0 or
// the selector recommends passing.
func spendMoves(s *engine.GameState, player int, personality Personality, moveBudget time.Duration) *engine.GameState {
	state := s
	for state.MovesRemaining > 0 {
		move, found := FindBestMove(state, player, personality.Level, moveBudget)
		if !found || move.Source == passMarker {
			break
		}
		result := engine.ArmyMoveCommand(state, move.Source, move.Target, move.Count)
		if !result.Success {
			break
		}
		state = result.NewState
	}
	return state
}
