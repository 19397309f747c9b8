package engine

import "errors"

// Validation errors returned by command application. The HTTP command
// handler sends a rejected command's error message as the text of a 422
// response; these errors are not translated into separate error codes.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNotOwner            = errors.New("region not owned by active player")
	ErrNotAdjacent         = errors.New("target region is not adjacent to source")
	ErrConqueredThisTurn   = errors.New("region was conquered this turn and cannot move again")
	ErrNoMovesRemaining    = errors.New("no army-move points remaining this turn")
	ErrInvalidCount        = errors.New("invalid soldier count")
	ErrAttackOwnRegion     = errors.New("cannot attack your own region")
	ErrNoTemple            = errors.New("region has no temple")
	ErrInsufficientFaith   = errors.New("insufficient faith")
	ErrUpgradeSlotTaken    = errors.New("temple upgrade slot already holds a different upgrade")
	ErrUpgradeAtMaxLevel   = errors.New("upgrade is already at its maximum level")
	ErrGameEnded           = errors.New("game has already ended")
	ErrUnknownPlayer       = errors.New("unknown player slot")
)
