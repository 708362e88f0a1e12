package engine

import "testing"

func TestBidRejectsWrongPhaseAndTurn(t *testing.T) {
	r := NewRoom("201", testOptions(), nil)
	ids := seatFour(t, r)

	if err := r.Bid(ids[0], 5); err != ErrWrongPhase {
		t.Fatalf("lobby bid: want ErrWrongPhase, got %v", err)
	}

	startRigged(t, r, ids)
	if err := r.Bid(ids[2], 5); err != ErrNotYourTurn {
		t.Fatalf("out of turn: want ErrNotYourTurn, got %v", err)
	}
}

func TestBidMinimumRaise(t *testing.T) {
	r := NewRoom("202", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	// the implicit standing bid is 4, so nothing below 5 counts
	if err := r.Bid(ids[0], 4); err != ErrBidTooLow {
		t.Fatalf("want ErrBidTooLow, got %v", err)
	}
	if err := r.Bid(ids[0], 5); err != nil {
		t.Fatalf("bid 5: %v", err)
	}
	// once a real bid exists the floor is winningBid+1
	if err := r.Bid(ids[1], 5); err != ErrBidTooLow {
		t.Fatalf("equal bid: want ErrBidTooLow, got %v", err)
	}
	if err := r.Bid(ids[1], 7); err != nil {
		t.Fatalf("raise to 7: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.winningBid.PlayerID != ids[1] || r.winningBid.Amount != 7 {
		t.Fatalf("want winning bid {%s 7}, got %+v", ids[1], r.winningBid)
	}
}

func TestAllPassLeavesContractWithOpener(t *testing.T) {
	r := NewRoom("203", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	for i := 0; i < 4; i++ {
		if err := r.Bid(ids[i], 0); err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateTrumpSelection {
		t.Fatalf("want TRUMP_SELECTION, got %s", r.state)
	}
	if r.winningBid.PlayerID != ids[0] || r.winningBid.Amount != 4 {
		t.Fatalf("opener's implicit 4 should carry, got %+v", r.winningBid)
	}
	if r.turnIndex != 0 {
		t.Fatalf("turn should sit with the opener, got %d", r.turnIndex)
	}
}

func TestBiddingEndsWhenOnlyTheHolderRemains(t *testing.T) {
	r := NewRoom("204", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	if err := r.Bid(ids[0], 6); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := r.Bid(ids[1], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := r.Bid(ids[2], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := r.Bid(ids[3], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateTrumpSelection {
		t.Fatalf("want TRUMP_SELECTION, got %s", r.state)
	}
	if r.winningBid.PlayerID != ids[0] || r.winningBid.Amount != 6 {
		t.Fatalf("want {%s 6}, got %+v", ids[0], r.winningBid)
	}
}

func TestBiddingSkipsPassedSeats(t *testing.T) {
	r := NewRoom("205", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	if err := r.Bid(ids[0], 5); err != nil {
		t.Fatalf("bid: %v", err)
	}
	if err := r.Bid(ids[1], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}
	if err := r.Bid(ids[2], 6); err != nil {
		t.Fatalf("raise: %v", err)
	}
	if err := r.Bid(ids[3], 0); err != nil {
		t.Fatalf("pass: %v", err)
	}
	// seat 1 passed: the turn wraps straight back to seat 0
	if err := r.Bid(ids[1], 7); err != ErrNotYourTurn {
		t.Fatalf("passed seat acting: want ErrNotYourTurn, got %v", err)
	}
	if err := r.Bid(ids[0], 7); err != nil {
		t.Fatalf("re-raise: %v", err)
	}
	// seat 2 can still answer; passing hands the contract to seat 0
	if err := r.Bid(ids[2], 0); err != nil {
		t.Fatalf("final pass: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateTrumpSelection || r.winningBid.PlayerID != ids[0] || r.winningBid.Amount != 7 {
		t.Fatalf("want seat 0 contract at 7, got state %s bid %+v", r.state, r.winningBid)
	}
}

func TestRedealRules(t *testing.T) {
	r := NewRoom("206", testOptions(), nil)
	ids := seatFour(t, r)

	if err := r.RequestRedeal(ids[0]); err != ErrWrongPhase {
		t.Fatalf("lobby redeal: want ErrWrongPhase, got %v", err)
	}

	startRigged(t, r, ids)

	giveHand(r, 2, []Card{
		{Suit: SuitSpades, Rank: "J"},
		{Suit: SuitHearts, Rank: "3"},
	})
	if err := r.RequestRedeal(ids[2]); err != ErrHasStrongCard {
		t.Fatalf("strong hand: want ErrHasStrongCard, got %v", err)
	}
	if got := roomState(r); got != StateBidding {
		t.Fatalf("refused redeal must not move state, got %s", got)
	}

	giveHand(r, 2, []Card{
		{Suit: SuitSpades, Rank: "10"},
		{Suit: SuitHearts, Rank: "3"},
		{Suit: SuitDiamonds, Rank: "7"},
	})
	if err := r.RequestRedeal(ids[2]); err != nil {
		t.Fatalf("redeal: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateBidding {
		t.Fatalf("redeal should restart the auction, got %s", r.state)
	}
	// opener was seat 0, so the dealer lands one past it
	if r.dealerIndex != 1 {
		t.Fatalf("want dealer 1 after redeal, got %d", r.dealerIndex)
	}
	for i := range r.hands {
		if len(r.hands[i]) != 12 {
			t.Fatalf("hand %d not redealt: %d cards", i, len(r.hands[i]))
		}
	}
}
