package engine

import (
	"time"

	"go.uber.org/zap"
)

// PlayCard validates and applies one card play. When the fourth card lands
// the trick is resolved immediately but stays on the table for the trick
// delay; plays arriving during that window get ErrTrickResolving.
func (r *Room) PlayCard(playerID string, card Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StatePlaying {
		return ErrWrongPhase
	}
	if r.pendingStateChange != nil || len(r.currentTrick) >= 4 {
		return ErrTrickResolving
	}
	acting := r.seats[r.turnIndex]
	if acting == nil || acting.ID != playerID {
		return ErrNotYourTurn
	}
	idx := r.turnIndex
	hand := r.hands[idx]
	pos := indexOfCard(hand, card)
	if pos < 0 {
		return ErrCardNotInHand
	}
	if err := isValidMove(hand, hand[pos], r.currentTrick, r.trump); err != nil {
		return err
	}
	r.touch(playerID)

	played := hand[pos]
	r.hands[idx] = append(hand[:pos], hand[pos+1:]...)
	r.currentTrick = append(r.currentTrick, TrickPlay{PlayerID: playerID, Card: played})

	r.log.Debug("card played",
		zap.String("player", playerID),
		zap.String("card", played.String()),
	)

	if len(r.currentTrick) == 4 {
		r.resolveTrickLocked()
	} else {
		r.turnIndex = (r.turnIndex + 1) % 4
	}
	r.broadcastLocked()
	return nil
}

// isValidMove enforces the follow-suit and forced-raise rules, in priority:
//
//  1. Holding the led suit forces following it. Unless a trump already sits
//     on the table (and the led suit is not itself trump), a player whose
//     best led-suit card beats the table's best must raise.
//  2. Void in the led suit but holding trump forces trump; if trumps were
//     already played and the player can overtake the highest, they must.
//  3. Void in both: anything goes.
func isValidMove(hand []Card, card Card, trick []TrickPlay, trump Suit) error {
	if len(trick) == 0 {
		return nil
	}

	leadSuit := trick[0].Card.Suit

	if holdsSuit(hand, leadSuit) {
		if card.Suit != leadSuit {
			return &IllegalMoveError{Reason: ReasonMustFollowSuit}
		}
		trumped := false
		for _, m := range trick {
			if m.Card.Suit == trump {
				trumped = true
				break
			}
		}
		if !trumped || leadSuit == trump {
			tableBest := bestOfSuit(playedCards(trick), leadSuit)
			myBest := bestOfSuit(hand, leadSuit)
			if myBest > tableBest && card.Rank.Value() <= tableBest {
				return &IllegalMoveError{Reason: ReasonMustRaise}
			}
		}
		return nil
	}

	if holdsSuit(hand, trump) {
		if card.Suit != trump {
			return &IllegalMoveError{Reason: ReasonMustPlayTrump}
		}
		tableBest := bestOfSuit(playedCards(trick), trump)
		if tableBest > 0 {
			myBest := bestOfSuit(hand, trump)
			if myBest > tableBest && card.Rank.Value() <= tableBest {
				return &IllegalMoveError{Reason: ReasonMustRaiseTrump}
			}
		}
		return nil
	}

	return nil
}

func holdsSuit(hand []Card, suit Suit) bool {
	for _, c := range hand {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

func playedCards(trick []TrickPlay) []Card {
	out := make([]Card, len(trick))
	for i, m := range trick {
		out[i] = m.Card
	}
	return out
}

// bestOfSuit returns the highest rank value of the given suit, 0 when absent.
func bestOfSuit(cards []Card, suit Suit) int {
	best := 0
	for _, c := range cards {
		if c.Suit == suit && c.Rank.Value() > best {
			best = c.Rank.Value()
		}
	}
	return best
}

// trickWinner scans the four plays: trump beats non-trump, higher trump
// beats lower trump, and otherwise only led-suit cards compete by rank.
func trickWinner(trick []TrickPlay, trump Suit) int {
	winner := 0
	best := trick[0].Card
	leadSuit := best.Suit

	for i := 1; i < len(trick); i++ {
		c := trick[i].Card
		switch {
		case c.Suit == trump && best.Suit != trump:
			best, winner = c, i
		case c.Suit == trump && best.Suit == trump && c.Rank.Value() > best.Rank.Value():
			best, winner = c, i
		case c.Suit != trump && c.Suit == leadSuit && best.Suit != trump && c.Rank.Value() > best.Rank.Value():
			best, winner = c, i
		}
	}
	return winner
}

// resolveTrickLocked credits the winner, freezes the table, and arms the
// delayed clear. The winner's seat (not token) is captured: seats survive
// a reconnection takeover during the delay, tokens do not.
func (r *Room) resolveTrickLocked() {
	win := trickWinner(r.currentTrick, r.trump)
	winnerID := r.currentTrick[win].PlayerID
	winnerSeat := r.seatOf(winnerID)
	r.roundScores[winnerID]++

	at := time.Now().Add(r.opts.TrickDelay)
	r.pendingStateChange = &at

	r.log.Info("trick resolved",
		zap.String("winner", winnerID),
		zap.Int("seat", winnerSeat),
	)

	r.scheduleAfter(r.opts.TrickDelay, func() {
		r.clearTrickLocked(winnerSeat)
	})
}

// clearTrickLocked fires after the trick delay: table cleared, winner
// leads, and when all twelve tricks are in the round is scored.
func (r *Room) clearTrickLocked(winnerSeat int) {
	if r.state != StatePlaying {
		return
	}
	r.currentTrick = nil
	r.pendingStateChange = nil
	r.turnIndex = winnerSeat

	total := 0
	for _, n := range r.roundScores {
		total += n
	}
	if total == 12 {
		r.endRoundLocked()
	}
	r.broadcastLocked()
}
