// Package ai implements the heuristic position evaluator, the
// iterative-deepening minimax search, and the personality-driven policy
// that together choose moves for non-human players (§4.7-4.9).
package ai

import (
	"math"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

// Level selects how aggressively an AI personality perceives threats and
// opportunities.
type Level int

const (
	Nice Level = iota
	Rude
	Mean
)

// DifficultyToLevel maps the difficulty string used by the lobby/config
// layer to an AI level, defaulting to Rude (matches §4.9's default aiLevel=1).
func DifficultyToLevel(difficulty string) Level {
	switch difficulty {
	case "Nice":
		return Nice
	case "Hard":
		return Mean
	case "Normal":
		return Rude
	default:
		return Rude
	}
}

const epsilon = 0.0001

// slidingBonus linearly interpolates from startVal to endVal beginning at
// turn dropOffFraction*maxTurns and reaching endVal at maxTurns. Clamped at
// 0 before the drop-off starts (i.e. returns startVal unmodified until the
// drop-off point, per §4.7).
func slidingBonus(turnNumber, maxTurns int, startVal, endVal, dropOffFraction float64) float64 {
	if maxTurns <= 0 {
		return startVal
	}
	dropStart := dropOffFraction * float64(maxTurns)
	t := float64(turnNumber)
	if t <= dropStart {
		return startVal
	}
	if t >= float64(maxTurns) {
		return endVal
	}
	frac := (t - dropStart) / (float64(maxTurns) - dropStart)
	return startVal + frac*(endVal-startVal)
}

// regionFullValue returns the intrinsic value of owning a region: a flat
// 1, plus a temple bonus that fades out by the 50% turn mark, plus an
// upgrade bonus scaled by (level+1) that fades out by the 90% mark.
func regionFullValue(s *engine.GameState, regionIdx int) float64 {
	value := 1.0
	temple := s.TempleAt(regionIdx)
	if temple == nil {
		return value
	}
	value += slidingBonus(s.TurnNumber, s.MaxTurns, 6, 0, 0.5)
	if temple.UpgradeIndex != engine.UpgradeNone {
		upgradeBonus := slidingBonus(s.TurnNumber, s.MaxTurns, 4, 0, 0.9)
		value += upgradeBonus * float64(temple.Level+1)
	}
	return value
}

// regionThreat measures the enemy military pressure on a region, 0 for the
// Nice level (it never perceives threat).
func regionThreat(s *engine.GameState, player int, regionIdx int, level Level) float64 {
	if level == Nice {
		return 0
	}

	ourPresence := float64(s.SoldierCountAt(regionIdx))
	enemyPresence := 0.0

	region := s.Map.Region(regionIdx)
	if region == nil {
		return 0
	}

	if level == Rude {
		for _, n := range region.Neighbors {
			owner, owned := s.OwnerOf(n)
			if owned && owner != player {
				enemyPresence += float64(s.SoldierCountAt(n))
			}
		}
	} else {
		enemyPresence = bfsWeightedEnemyPresence(s, player, regionIdx, 2)
	}

	clampHigh := 1.1
	if level == Rude {
		clampHigh = 0.5
	}

	ratio := (enemyPresence/(ourPresence+epsilon) - 1) / 1.5
	return clamp(ratio, 0, clampHigh)
}

// bfsWeightedEnemyPresence sums enemy soldier counts within maxDepth moves,
// weighted by distance: weight(depth) = (2+depth)/4.
func bfsWeightedEnemyPresence(s *engine.GameState, player int, start int, maxDepth int) float64 {
	visited := map[int]int{start: 0}
	queue := []int{start}
	total := 0.0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= maxDepth {
			continue
		}
		region := s.Map.Region(cur)
		if region == nil {
			continue
		}
		for _, n := range region.Neighbors {
			if _, seen := visited[n]; seen {
				continue
			}
			visited[n] = depth + 1
			queue = append(queue, n)

			owner, owned := s.OwnerOf(n)
			if owned && owner != player {
				weight := (2.0 + float64(depth+1)) / 4.0
				total += weight * float64(s.SoldierCountAt(n))
			}
		}
	}
	return total
}

// regionOpportunity measures the consolidation value of attacking from
// regionIdx into neighbors owned by the same player, 0 for Nice.
func regionOpportunity(s *engine.GameState, player int, regionIdx int, level Level) float64 {
	if level == Nice {
		return 0
	}

	region := s.Map.Region(regionIdx)
	if region == nil {
		return 0
	}

	atk := float64(s.SoldierCountAt(regionIdx))
	total := 0.0
	for _, n := range region.Neighbors {
		owner, owned := s.OwnerOf(n)
		if !owned || owner != player {
			continue
		}
		def := float64(s.SoldierCountAt(n))
		bonus := clamp((atk/(def+epsilon)-0.9)*0.5, 0, 0.5)
		total += bonus * regionFullValue(s, n)
	}
	return total
}

// TempleDangerousness is the combined threat+opportunity score of the
// region a temple sits in, used by the build policy to choose which
// temple to invest in.
func TempleDangerousness(s *engine.GameState, temple *engine.Temple, level Level) float64 {
	owner, owned := s.OwnerOf(temple.Region)
	if !owned {
		return 0
	}
	return regionThreat(s, owner, temple.Region, level) + regionOpportunity(s, owner, temple.Region, level)
}

// HeuristicForPlayer evaluates a state from one player's perspective,
// summing region values (adjusted for threat/opportunity) and soldier
// value, plus an income term (§4.7).
func HeuristicForPlayer(s *engine.GameState, player int, level Level) float64 {
	slidingMult := slidingBonus(s.TurnNumber, s.MaxTurns, 1, 0, 0.8)
	soldierBonus := slidingBonus(s.TurnNumber, s.MaxTurns, 0.25, 0, 0.83)

	total := 0.0
	for _, regionIdx := range s.RegionsOwnedBy(player) {
		value := regionFullValue(s, regionIdx)
		threat := regionThreat(s, player, regionIdx, level)
		opportunity := regionOpportunity(s, player, regionIdx, level)
		total += value + (opportunity-threat*value)*slidingMult
		total += float64(s.SoldierCountAt(regionIdx)) * soldierBonus
	}

	total += float64(engine.Income(s, player)) * soldierBonus / 12.0
	return total
}

func clamp(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}
