package engine

import (
	"slices"

	"go.uber.org/zap"
)

// Bid handles one auction action: amount 0 passes, anything else must beat
// the standing bid (minimum raise winningBid+1, never below 5).
func (r *Room) Bid(playerID string, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StateBidding {
		return ErrWrongPhase
	}
	acting := r.seats[r.turnIndex]
	if acting == nil || acting.ID != playerID {
		return ErrNotYourTurn
	}
	r.touch(playerID)

	if amount == 0 {
		r.activeBidders = slices.DeleteFunc(r.activeBidders, func(id string) bool {
			return id == playerID
		})
		r.bids[playerID] = 0
	} else {
		minBid := r.winningBid.Amount + 1
		if minBid < 5 {
			minBid = 5
		}
		if amount < minBid {
			return ErrBidTooLow
		}
		r.winningBid = WinningBid{PlayerID: playerID, Amount: amount}
		r.bids[playerID] = amount
	}

	r.log.Debug("bid received",
		zap.String("player", playerID),
		zap.Int("amount", amount),
		zap.Int("standing", r.winningBid.Amount),
	)

	if r.biddingDoneLocked() {
		r.finishBiddingLocked()
	} else {
		r.advanceBidTurnLocked()
	}
	r.broadcastLocked()
	return nil
}

// biddingDoneLocked: the auction ends when nobody is left to act, or when
// the only bidder still in is the one already holding the contract.
func (r *Room) biddingDoneLocked() bool {
	if len(r.activeBidders) == 0 {
		return true
	}
	return len(r.activeBidders) == 1 && r.activeBidders[0] == r.winningBid.PlayerID
}

// advanceBidTurnLocked moves the turn to the next seat still in the auction.
func (r *Room) advanceBidTurnLocked() {
	next := (r.turnIndex + 1) % 4
	for i := 0; i < 4; i++ {
		s := r.seats[next]
		if s != nil && slices.Contains(r.activeBidders, s.ID) {
			break
		}
		next = (next + 1) % 4
	}
	r.turnIndex = next
}

// finishBiddingLocked seals the contract. If everyone passed, the opener's
// implicit standing bid of 4 carries.
func (r *Room) finishBiddingLocked() {
	winnerSeat := r.seatOf(r.winningBid.PlayerID)
	if winnerSeat < 0 {
		// opener gone and unreachable: should not happen, seats persist
		winnerSeat = r.roundBidStarterIndex
	}
	r.state = StateTrumpSelection
	r.turnIndex = winnerSeat
	r.log.Info("auction finished",
		zap.String("winner", r.winningBid.PlayerID),
		zap.Int("amount", r.winningBid.Amount),
	)
}
