package engine

import (
	"testing"
	"time"
)

func TestFirstJoinBecomesAdmin(t *testing.T) {
	r := NewRoom("401", testOptions(), nil)
	res, err := r.AddPlayer("", nil)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !res.IsAdmin || res.SeatIndex != 0 {
		t.Fatalf("first join should take seat 0 as Admin, got %+v", res)
	}

	ps, err := r.GetPlayerState(res.PlayerID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if ps.Me.ID != res.PlayerID || !ps.Me.IsAdmin {
		t.Fatalf("identity mismatch: %+v", ps.Me)
	}
	if ps.Players[0] == nil || ps.Players[0].Name != "Admin" {
		t.Fatalf("default admin name missing: %+v", ps.Players[0])
	}
}

func TestAutoAssignFillsSeatsThenRoomFull(t *testing.T) {
	r := NewRoom("402", testOptions(), nil)
	for i := 0; i < 4; i++ {
		if _, err := r.AddPlayer("", nil); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if _, err := r.AddPlayer("", nil); err != ErrRoomFull {
		t.Fatalf("want ErrRoomFull, got %v", err)
	}
}

func TestExplicitSeatRequest(t *testing.T) {
	r := NewRoom("403", testOptions(), nil)
	if _, err := r.AddPlayer("", nil); err != nil {
		t.Fatalf("admin join: %v", err)
	}

	seat2 := 2
	res, err := r.AddPlayer("Ayşe", &seat2)
	if err != nil {
		t.Fatalf("seat request: %v", err)
	}
	if res.SeatIndex != 2 {
		t.Fatalf("want seat 2, got %d", res.SeatIndex)
	}

	// same seat, still connected
	if _, err := r.AddPlayer("Fatma", &seat2); err != ErrSeatTaken {
		t.Fatalf("want ErrSeatTaken, got %v", err)
	}
}

func TestSpectatorJoin(t *testing.T) {
	r := NewRoom("404", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	seat := SpectatorSeat
	res, err := r.AddPlayer("izleyici", &seat)
	if err != nil {
		t.Fatalf("spectator join: %v", err)
	}
	if !res.Spectator || res.SeatIndex != SpectatorSeat {
		t.Fatalf("want spectator result, got %+v", res)
	}

	ps, err := r.GetPlayerState(res.PlayerID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(ps.Hand) != 0 {
		t.Fatalf("spectator must not receive a hand")
	}
	if _, ok := ps.Scores[res.PlayerID]; ok {
		t.Fatalf("spectator must not appear in scoring")
	}
	if ps.Me.SeatIndex != SpectatorSeat {
		t.Fatalf("want seatIndex -1, got %d", ps.Me.SeatIndex)
	}
}

func TestTakeoverPreservesScoreUnderNewToken(t *testing.T) {
	r := NewRoom("405", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	r.mu.Lock()
	r.scores[ids[2]] = 17
	r.roundScores[ids[2]] = 3
	r.seats[2].LastSeen = time.Time{} // gone stale
	r.mu.Unlock()

	seat2 := 2
	res, err := r.AddPlayer("Yedek", &seat2)
	if err != nil {
		t.Fatalf("takeover: %v", err)
	}
	if res.PlayerID == ids[2] {
		t.Fatalf("takeover must issue a fresh token")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scores[res.PlayerID] != 17 {
		t.Fatalf("score not carried: %v", r.scores)
	}
	if _, ok := r.scores[ids[2]]; ok {
		t.Fatalf("old token must vanish from scores")
	}
	if r.roundScores[res.PlayerID] != 3 {
		t.Fatalf("round score not carried: %v", r.roundScores)
	}
	if r.seats[2].Name != "Yedek" {
		t.Fatalf("new name not applied: %s", r.seats[2].Name)
	}
}

func TestTakeoverRemapsContractAndTrick(t *testing.T) {
	r := NewRoom("406", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	r.mu.Lock()
	r.state = StatePlaying
	r.winningBid = WinningBid{PlayerID: ids[2], Amount: 6}
	r.currentTrick = []TrickPlay{{PlayerID: ids[2], Card: Card{Suit: SuitSpades, Rank: "9"}}}
	r.seats[2].LastSeen = time.Time{}
	r.mu.Unlock()

	seat2 := 2
	res, err := r.AddPlayer("", &seat2)
	if err != nil {
		t.Fatalf("takeover: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.winningBid.PlayerID != res.PlayerID {
		t.Fatalf("contract still on old token: %+v", r.winningBid)
	}
	if r.currentTrick[0].PlayerID != res.PlayerID {
		t.Fatalf("trick play still on old token: %+v", r.currentTrick[0])
	}
	// no new name supplied: the seat keeps the old one
	if r.seats[2].Name != "Mehmet" {
		t.Fatalf("want inherited name Mehmet, got %s", r.seats[2].Name)
	}
}

func TestRemovePlayerLobbyVacatesSeat(t *testing.T) {
	r := NewRoom("407", testOptions(), nil)
	ids := seatFour(t, r)

	if err := r.RemovePlayer(ids[3]); err != nil {
		t.Fatalf("leave: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seats[3] != nil {
		t.Fatalf("seat should be vacated in the lobby")
	}
	if _, ok := r.scores[ids[3]]; ok {
		t.Fatalf("scores entry should be dropped")
	}
}

func TestRemovePlayerMidRoundKeepsSeatReserved(t *testing.T) {
	r := NewRoom("408", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	if err := r.RemovePlayer(ids[3]); err != nil {
		t.Fatalf("leave: %v", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seats[3] == nil {
		t.Fatalf("mid-round leave must keep the seat for reconnection")
	}
	if r.seats[3].connected(r.opts.StaleAfter) {
		t.Fatalf("seat should read as disconnected")
	}
	if _, ok := r.scores[ids[3]]; !ok {
		t.Fatalf("scores must survive a mid-round disconnect")
	}
}

func TestGetPlayerStateHidesOtherHands(t *testing.T) {
	r := NewRoom("409", testOptions(), nil)
	ids := seatFour(t, r)
	startRigged(t, r, ids)

	ps, err := r.GetPlayerState(ids[1])
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(ps.Hand) != 12 {
		t.Fatalf("want 12 cards, got %d", len(ps.Hand))
	}
	if ps.Me.SeatIndex != 1 {
		t.Fatalf("want seat 1, got %d", ps.Me.SeatIndex)
	}

	if _, err := r.GetPlayerState("nope"); err != ErrPlayerNotFound {
		t.Fatalf("unknown token: want ErrPlayerNotFound, got %v", err)
	}
}
