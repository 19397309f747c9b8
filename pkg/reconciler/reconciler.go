package reconciler

import "github.com/barrybecker4/conquest-engine/pkg/engine"

// MoveHint is the explicit record of a single command the server attaches
// to a broadcast, naming exactly which move produced the new state. This
// is the reconciler's preferred source of truth (§4.10).
type MoveHint struct {
	Source, Target, Count int
	Upgrade               engine.UpgradeIndex
	AttackSequence        []engine.AttackEvent
}

// Update is one state transition the reconciler narrates: the state
// immediately before a move and the state immediately after, plus
// whatever move hints the transport layer attached to this broadcast.
//
// TurnMoves and LastMove express the same priority order the live client
// uses: a turn-scoped list of every hint queued so far takes precedence
// over a single last-move hint, which in turn takes precedence over the
// DiffState fallback.
type Update struct {
	Previous  *engine.GameState
	Next      *engine.GameState
	TurnMoves []MoveHint
	LastMove  *MoveHint
}

// ExtractMoves resolves every move hint describing this Update, in
// priority order: the full TurnMoves batch (every hint queued so far,
// in order) first, then a single-element slice from LastMove, then
// none (the caller falls back to DiffState).
func ExtractMoves(u Update) ([]MoveHint, bool) {
	if len(u.TurnMoves) > 0 {
		return u.TurnMoves, true
	}
	if u.LastMove != nil {
		return []MoveHint{*u.LastMove}, true
	}
	return nil, false
}
