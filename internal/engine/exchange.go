package engine

import (
	"slices"

	"go.uber.org/zap"
)

// SelectTrump fixes the trump suit. Only the contract winner may choose,
// and the choice happens before the kitty exchange.
func (r *Room) SelectTrump(playerID string, suit Suit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StateTrumpSelection {
		return ErrWrongPhase
	}
	if playerID != r.winningBid.PlayerID {
		return ErrNotYourTurn
	}
	if !ValidSuit(suit) {
		return &IllegalMoveError{Reason: "unknown suit"}
	}
	r.touch(playerID)

	r.trump = suit
	r.currentTrick = nil
	for _, s := range r.seats {
		r.roundScores[s.ID] = 0
	}
	r.state = StateExchangeCards
	// turn stays with the winner, who buries and then leads the first trick

	r.log.Info("trump selected", zap.String("suit", string(suit)))
	r.broadcastLocked()
	return nil
}

// ExchangeCards lets the contract winner bury exactly four cards from the
// original hand and merge the kitty in, or skip with an empty list and
// leave the kitty face down. The bury happens blind: the kitty's contents
// are revealed only after the choice is committed.
func (r *Room) ExchangeCards(playerID string, cardsToBury []Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if r.state != StateExchangeCards {
		return ErrWrongPhase
	}
	if playerID != r.winningBid.PlayerID {
		return ErrNotYourTurn
	}
	if len(cardsToBury) != 0 && len(cardsToBury) != 4 {
		return &IllegalMoveError{Reason: "bury exactly four cards or none"}
	}
	r.touch(playerID)

	idx := r.seatOf(playerID)

	if len(cardsToBury) == 4 {
		hand := slices.Clone(r.hands[idx])
		buried := make([]Card, 0, 4)
		for _, c := range cardsToBury {
			pos := indexOfCard(hand, c)
			if pos < 0 {
				return ErrCardNotInHand
			}
			buried = append(buried, hand[pos])
			hand = append(hand[:pos], hand[pos+1:]...)
		}
		for _, k := range r.kitty {
			k.FromKitty = true
			hand = append(hand, k)
		}
		SortHand(hand)
		r.hands[idx] = hand
		r.buriedCards = buried
		r.log.Info("kitty exchanged", zap.String("player", playerID))
	} else {
		r.log.Info("kitty skipped", zap.String("player", playerID))
	}

	r.state = StatePlaying
	r.turnIndex = idx
	r.broadcastLocked()
	return nil
}

func indexOfCard(hand []Card, c Card) int {
	for i := range hand {
		if hand[i].Same(c) {
			return i
		}
	}
	return -1
}
