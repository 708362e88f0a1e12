package engine

import (
	"errors"
	"fmt"
)

var ErrWrongPhase = errors.New("operation not valid in current phase")
var ErrNotYourTurn = errors.New("not your turn")
var ErrCardNotInHand = errors.New("card not in hand")
var ErrBidTooLow = errors.New("bid too low")
var ErrSeatTaken = errors.New("seat taken")
var ErrRoomFull = errors.New("room full")
var ErrNotEnoughPlayers = errors.New("need four seated players")
var ErrNotAdmin = errors.New("admin only")
var ErrPlayerNotFound = errors.New("player not found")
var ErrHasStrongCard = errors.New("hand contains a strong card")
var ErrTrickResolving = errors.New("trick resolution in progress")
var ErrRoomClosed = errors.New("room closed")

// IllegalMoveError carries the specific follow-suit/raise/trump violation so
// the client can show a meaningful message.
type IllegalMoveError struct {
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move: %s", e.Reason)
}

const (
	ReasonMustFollowSuit = "must follow the led suit"
	ReasonMustRaise      = "must beat the highest card of the led suit"
	ReasonMustPlayTrump  = "must play trump when void in the led suit"
	ReasonMustRaiseTrump = "must beat the highest trump on the table"
)
