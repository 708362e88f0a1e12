package engine

import (
	"time"

	"go.uber.org/zap"
)

// endRoundLocked applies the round's score deltas, detects game over, and
// otherwise rotates the dealer and arms the automatic restart.
//
// Bidder: +tricks when the contract is met, -bid when it fails. Everyone
// else: +tricks, except taking zero costs the full bid (side failure).
func (r *Room) endRoundLocked() {
	bidderID := r.winningBid.PlayerID
	bid := r.winningBid.Amount
	took := r.roundScores[bidderID]
	preScore := r.scores[bidderID]

	for _, s := range r.seats {
		tricks := r.roundScores[s.ID]
		switch {
		case s.ID == bidderID && took >= bid:
			r.scores[s.ID] += took
		case s.ID == bidderID:
			r.scores[s.ID] -= bid
		case tricks == 0:
			r.scores[s.ID] -= bid
		default:
			r.scores[s.ID] += tricks
		}
	}

	r.log.Info("round scored",
		zap.String("bidder", bidderID),
		zap.Int("bid", bid),
		zap.Int("took", took),
	)

	// an 11+ contract met from a non-negative score wins outright
	if bid >= 11 && preScore >= 0 && took >= bid {
		r.gameOverLocked(bidderID)
		return
	}

	if w := r.leaderAtTargetLocked(); w != "" {
		r.gameOverLocked(w)
		return
	}

	if r.hasBidStarter {
		r.dealerIndex = r.roundBidStarterIndex
	} else {
		r.dealerIndex = (r.dealerIndex + 1) % 4
	}
	r.hasBidStarter = false

	r.state = StateWaiting
	at := time.Now().Add(r.opts.RestartDelay)
	r.pendingStateChange = &at
	r.scheduleAfter(r.opts.RestartDelay, r.restartRoundLocked)
}

// leaderAtTargetLocked returns the id of the strictly highest score at or
// past 51. "" when nobody is there, or when the leaders are tied and the
// game must continue.
func (r *Room) leaderAtTargetLocked() string {
	winner := ""
	best := 0
	tied := false
	for _, s := range r.seats {
		score := r.scores[s.ID]
		if score < 51 {
			continue
		}
		switch {
		case winner == "" || score > best:
			winner, best, tied = s.ID, score, false
		case score == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return winner
}

func (r *Room) gameOverLocked(winnerID string) {
	r.state = StateGameOver
	r.winnerID = winnerID
	r.pendingStateChange = nil
	r.log.Info("game over", zap.String("winner", winnerID))
}

// restartRoundLocked fires after the round-end pause. A seat vacated while
// waiting blocks the restart; the table stays in WAITING for the Admin.
func (r *Room) restartRoundLocked() {
	if r.state != StateWaiting {
		return
	}
	r.pendingStateChange = nil
	for _, s := range r.seats {
		if s == nil {
			r.log.Warn("auto-restart skipped, seat empty")
			r.broadcastLocked()
			return
		}
	}
	r.startGameLocked()
	r.broadcastLocked()
}

// RequestRedeal throws the hand in during the auction. Only a hand with no
// A, K, Q, or J qualifies. The dealer moves one seat past the normal
// end-of-round rotation target and the round restarts immediately,
// discarding the auction in progress.
func (r *Room) RequestRedeal(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StateBidding {
		return ErrWrongPhase
	}
	idx := r.seatOf(playerID)
	if idx < 0 {
		return ErrPlayerNotFound
	}
	for _, c := range r.hands[idx] {
		if c.Rank.Value() >= rankValue["J"] {
			return ErrHasStrongCard
		}
	}
	r.touch(playerID)

	if r.hasBidStarter {
		r.dealerIndex = (r.roundBidStarterIndex + 1) % 4
	} else {
		r.dealerIndex = (r.dealerIndex + 2) % 4
	}
	r.log.Info("redeal granted", zap.Int("seat", idx), zap.Int("dealer", r.dealerIndex))

	r.startGameLocked()
	r.broadcastLocked()
	return nil
}
