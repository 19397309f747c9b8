// Package reconciler is the client-side counterpart to pkg/engine: given
// a stream of authoritative GameState snapshots (and whatever move hints
// the transport layer attaches to them), it works out what actually
// happened between two snapshots and turns that into an ordered plan of
// FeedbackEvents an animation layer can play back (§4.10-§4.11).
package reconciler

import "github.com/barrybecker4/conquest-engine/pkg/engine"

// FeedbackType identifies the category of a single animation step.
type FeedbackType string

const (
	FeedbackMovement     FeedbackType = "movement"
	FeedbackConquest     FeedbackType = "conquest"
	FeedbackRecruitment  FeedbackType = "recruitment"
	FeedbackUpgrade      FeedbackType = "upgrade"
	FeedbackFailedAttack FeedbackType = "failed_attack"
)

// FeedbackEvent is one step of the client-side animation plan. Combat's
// own per-round detail travels separately as []engine.AttackEvent
// (AttackSequence, pkg/engine/combat.go); a FeedbackEvent wraps that
// sequence alongside the higher-level move it belongs to so the queue can
// sequence whole moves rather than individual dice rounds.
type FeedbackEvent struct {
	Type           FeedbackType
	Source, Target int
	Count          int
	Upgrade        engine.UpgradeIndex
	AttackSequence []engine.AttackEvent
}

// PlanFeedback builds the animation plan for one Update. It prefers the
// explicit move hints (ExtractMoves), emitting one FeedbackEvent sequence
// per queued move so a batched AI turn animates every move it made, not
// just the last; when no hint is available at all it falls back to a
// best-effort state diff (DiffState), which is reserved for
// logging/recovery since it cannot disambiguate every case a real move
// hint resolves for free (e.g. two regions swapping identical soldier
// counts in the same turn).
func PlanFeedback(u Update) []FeedbackEvent {
	hints, ok := ExtractMoves(u)
	if !ok {
		return DiffState(u.Previous, u.Next)
	}
	var events []FeedbackEvent
	for _, hint := range hints {
		events = append(events, planFromHint(u.Previous, u.Next, hint)...)
	}
	return events
}

func planFromHint(prev, next *engine.GameState, hint MoveHint) []FeedbackEvent {
	if hint.Upgrade != engine.UpgradeNone {
		if hint.Upgrade == engine.UpgradeSoldier {
			return []FeedbackEvent{{Type: FeedbackRecruitment, Source: hint.Source, Count: 1}}
		}
		return []FeedbackEvent{{Type: FeedbackUpgrade, Source: hint.Source, Upgrade: hint.Upgrade}}
	}

	if len(hint.AttackSequence) == 0 {
		ownerBefore, _ := prev.OwnerOf(hint.Target)
		ownerAfter, hasOwner := next.OwnerOf(hint.Target)
		if hasOwner && ownerAfter != ownerBefore {
			// Peaceful hint shape but ownership changed: shouldn't happen
			// given ArmyMoveCommand's routing, but animate conquest if it did.
			return []FeedbackEvent{{Type: FeedbackConquest, Source: hint.Source, Target: hint.Target, Count: hint.Count}}
		}
		return []FeedbackEvent{{Type: FeedbackMovement, Source: hint.Source, Target: hint.Target, Count: hint.Count}}
	}

	conquered := next.ConqueredRegions[hint.Target]
	ev := FeedbackEvent{
		Type:           FeedbackMovement,
		Source:         hint.Source,
		Target:         hint.Target,
		Count:          hint.Count,
		AttackSequence: hint.AttackSequence,
	}
	if conquered {
		ev.Type = FeedbackConquest
	} else {
		ev.Type = FeedbackFailedAttack
	}
	return []FeedbackEvent{ev}
}
