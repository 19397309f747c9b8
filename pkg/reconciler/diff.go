package reconciler

import (
	"sort"

	"github.com/barrybecker4/conquest-engine/pkg/engine"
)

type regionDelta struct {
	region    int
	delta     int // soldier-count change at region between snapshots
	conquered bool
}

// DiffState reconstructs a best-effort feedback plan purely from two
// GameState snapshots, with no move hint to consult. It cannot
// distinguish which specific move produced a given change — two
// different moves can produce an identical diff — so this path is
// scoped to diagnostics and recovery, never primary animation.
//
// The reconstruction pairs "loss" regions (soldier count went down) with
// "gain" regions (soldier count went up) using a bag allocation: each gain
// draws from loss regions in region-index order until its count is
// satisfied. A region whose owner changed without a net soldier gain is
// reported as a sourceless conquest instead. Conquests are ordered before
// peaceful gains so a conquered region's arrival always animates first.
func DiffState(prev, next *engine.GameState) []FeedbackEvent {
	if prev == nil || next == nil {
		return nil
	}

	deltas := computeDeltas(prev, next)

	var losses, gains []regionDelta
	var events []FeedbackEvent

	for _, d := range deltas {
		switch {
		case d.delta > 0:
			gains = append(gains, d)
		case d.conquered:
			// Ownership flipped with no net soldier gain (the surviving
			// attacking stack is no larger than the defending stack was) —
			// report the conquest with no source, no bag pairing needed.
			events = append(events, FeedbackEvent{Type: FeedbackConquest, Source: -1, Target: d.region})
		case d.delta < 0:
			losses = append(losses, d)
		}
	}

	sort.Slice(gains, func(i, j int) bool {
		if gains[i].conquered != gains[j].conquered {
			return gains[i].conquered // conquests before peaceful gains
		}
		return gains[i].region < gains[j].region
	})
	sort.Slice(losses, func(i, j int) bool { return losses[i].region < losses[j].region })

	li := 0
	lossRemaining := 0
	if len(losses) > 0 {
		lossRemaining = -losses[0].delta
	}

	for _, g := range gains {
		remaining := g.delta
		for remaining > 0 && li < len(losses) {
			if lossRemaining == 0 {
				li++
				if li >= len(losses) {
					break
				}
				lossRemaining = -losses[li].delta
			}
			take := remaining
			if lossRemaining < take {
				take = lossRemaining
			}
			evType := FeedbackMovement
			if g.conquered {
				evType = FeedbackConquest
			}
			events = append(events, FeedbackEvent{
				Type:   evType,
				Source: losses[li].region,
				Target: g.region,
				Count:  take,
			})
			remaining -= take
			lossRemaining -= take
		}
		if remaining > 0 {
			// No matching loss region left: most likely a soldier purchase
			// rather than a move.
			evType := FeedbackRecruitment
			if g.conquered {
				evType = FeedbackConquest
			}
			events = append(events, FeedbackEvent{Type: evType, Source: -1, Target: g.region, Count: remaining})
		}
	}

	return events
}

func computeDeltas(prev, next *engine.GameState) []regionDelta {
	regions := make(map[int]bool)
	for r := range prev.SoldiersByRegion {
		regions[r] = true
	}
	for r := range next.SoldiersByRegion {
		regions[r] = true
	}

	var out []regionDelta
	for r := range regions {
		before := len(prev.SoldiersByRegion[r])
		after := len(next.SoldiersByRegion[r])
		conquered := ownerChanged(prev, next, r)
		if before == after && !conquered {
			continue
		}
		out = append(out, regionDelta{region: r, delta: after - before, conquered: conquered})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].region < out[j].region })
	return out
}

func ownerChanged(prev, next *engine.GameState, region int) bool {
	before, hadOwner := prev.OwnerOf(region)
	after, hasOwner := next.OwnerOf(region)
	if hadOwner != hasOwner {
		return true
	}
	return hadOwner && before != after
}
