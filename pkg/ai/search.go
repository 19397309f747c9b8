package ai

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

// Move is a single candidate ArmyMoveCommand the search evaluates. A
// Source of passMarker means "end the turn here" — the zero-move branch
// every ply must include so a player can stop moving voluntarily.
type Move struct {
	Source, Target, Count int
}

const passMarker = -1

// maxSearchDepth bounds iterative deepening; in practice the time budget
// (§4.8) cuts search short long before this is reached.
const maxSearchDepth = 6

// maxCandidateMoves caps branching factor per ply after dumb-move pruning,
// keeping minimax tractable within the cooperative time budget.
const maxCandidateMoves = 16

// yieldEvery is how many node expansions elapse between deadline checks
// (§4.8: "every ~100 expansions").
const yieldEvery = 100

type searchContext struct {
	deadline   time.Time
	expansions int
	aborted    bool
}

// tick counts one node expansion and reports whether the search may
// continue; once the deadline passes it keeps returning false so the
// in-flight iterative-deepening pass unwinds without exploring further.
func (c *searchContext) tick() bool {
	if c.aborted {
		return false
	}
	c.expansions++
	if c.expansions%yieldEvery == 0 && time.Now().After(c.deadline) {
		c.aborted = true
	}
	return !c.aborted
}

// FindBestMove runs iterative-deepening minimax for player, returning the
// best move found within budget and whether any depth completed. A
// returned Move with Source == passMarker means the AI should end its
// turn without moving.
func FindBestMove(s *engine.GameState, player int, level Level, budget time.Duration) (Move, bool) {
	deadline := time.Now().Add(budget)
	rng := s.RNG().Fork("search:" + strconv.Itoa(player) + ":" + strconv.Itoa(s.TurnNumber))

	moves := generateMoves(s, player, rng)
	if len(moves) == 0 {
		return Move{Source: passMarker}, true
	}

	best := moves[0]
	bestFound := false

	for depth := 1; depth <= maxSearchDepth; depth++ {
		if time.Now().After(deadline) {
			break
		}
		ctx := &searchContext{deadline: deadline}
		move, completed := searchRoot(s, player, level, moves, depth, ctx)
		if !completed {
			break
		}
		best = move
		bestFound = true
	}

	return best, bestFound
}

func searchRoot(s *engine.GameState, player int, level Level, moves []Move, depth int, ctx *searchContext) (Move, bool) {
	best := moves[0]
	bestScore := math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)

	for _, m := range moves {
		if !ctx.tick() {
			return best, false
		}
		child := applyMove(s, player, m)
		score := minimax(child, player, child.CurrentPlayerSlot, depth-1, alpha, beta, level, ctx)
		if score > bestScore {
			bestScore = score
			best = m
		}
		if bestScore > alpha {
			alpha = bestScore
		}
	}
	return best, !ctx.aborted
}

// minimax evaluates state from rootPlayer's perspective, with toMove about
// to act. rootPlayer's plies maximize HeuristicForPlayer(rootPlayer);
// every other player's plies minimize it, treating all opponents as a
// single adversary (a standard minimax simplification for N-player games).
func minimax(s *engine.GameState, rootPlayer, toMove, depth int, alpha, beta float64, level Level, ctx *searchContext) float64 {
	if ended, _ := engine.IsGameEnded(s); ended || depth == 0 || !ctx.tick() {
		return HeuristicForPlayer(s, rootPlayer, level)
	}

	rng := s.RNG().Fork("search:" + strconv.Itoa(toMove) + ":" + strconv.Itoa(depth))
	moves := generateMoves(s, toMove, rng)
	if len(moves) == 0 {
		moves = []Move{{Source: passMarker}}
	}

	maximizing := toMove == rootPlayer

	if maximizing {
		best := math.Inf(-1)
		for _, m := range moves {
			child := applyMove(s, toMove, m)
			score := minimax(child, rootPlayer, child.CurrentPlayerSlot, depth-1, alpha, beta, level, ctx)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, m := range moves {
		child := applyMove(s, toMove, m)
		score := minimax(child, rootPlayer, child.CurrentPlayerSlot, depth-1, alpha, beta, level, ctx)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// applyMove advances state by one ply: either an army move (ending the
// turn automatically once MovesRemaining hits 0) or, for a pass, an
// immediate EndTurnCommand. Search never mutates s; every ply clones.
func applyMove(s *engine.GameState, player int, m Move) *engine.GameState {
	if m.Source == passMarker {
		result := engine.EndTurnCommand(s)
		return result.NewState
	}

	result := engine.ArmyMoveCommand(s.Clone(), m.Source, m.Target, m.Count)
	if !result.Success {
		// A pruned-but-invalid move (state diverged from generation time);
		// treat as a forfeited ply rather than propagating the error.
		clone := s.Clone()
		return clone
	}
	if result.NewState.MovesRemaining < 1 {
		endResult := engine.EndTurnCommand(result.NewState)
		return endResult.NewState
	}
	return result.NewState
}

// generateMoves lists every (source, target, count) candidate for player:
// both the full-stack move and, when the stack is large enough to split,
// a half-stack move, dumb-move-pruned and shuffled by rng, then capped to
// maxCandidateMoves. A trailing pass move is always included so a branch
// of the search tree can choose to stop moving.
func generateMoves(s *engine.GameState, player int, rng *engine.RNG) []Move {
	var candidates []Move

	for _, source := range s.RegionsOwnedBy(player) {
		if s.ConqueredRegions[source] {
			continue
		}
		count := s.SoldierCountAt(source)
		if count < 1 {
			continue
		}
		region := s.Map.Region(source)
		if region == nil {
			continue
		}
		for _, target := range region.Neighbors {
			full := Move{Source: source, Target: target, Count: count}
			if !isDumbMove(s, player, full) {
				candidates = append(candidates, full)
			}
			if half := count / 2; count > 1 && half > 0 {
				halfMove := Move{Source: source, Target: target, Count: half}
				if !isDumbMove(s, player, halfMove) {
					candidates = append(candidates, halfMove)
				}
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Source != candidates[j].Source {
			return candidates[i].Source < candidates[j].Source
		}
		return candidates[i].Target < candidates[j].Target
	})
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > maxCandidateMoves {
		candidates = candidates[:maxCandidateMoves]
	}
	candidates = append(candidates, Move{Source: passMarker})
	return candidates
}

// isDumbMove filters out attacks with no realistic chance: any target not
// owned by player (enemy or neutral) defended by more soldiers than the
// move commits.
func isDumbMove(s *engine.GameState, player int, m Move) bool {
	owner, owned := s.OwnerOf(m.Target)
	if owned && owner == player {
		return false // peaceful consolidation is never dumb
	}
	defenders := s.SoldierCountAt(m.Target)
	return defenders > m.Count
}
