package engine

import (
	"slices"
	"time"
)

// SeatInfo is the public view of one seat.
type SeatInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	SeatIndex int    `json:"seatIndex"`
	Connected bool   `json:"connected"`
	IsAdmin   bool   `json:"isAdmin"`
}

// Snapshot is the public room state: everything any client may see. Hands
// and the kitty never appear here.
type Snapshot struct {
	RoomID             string         `json:"roomId"`
	Players            [4]*SeatInfo   `json:"players"`
	State              State          `json:"state"`
	CurrentTurn        string         `json:"currentTurn,omitempty"`
	WinningBid         WinningBid     `json:"winningBid"`
	Trump              Suit           `json:"trump,omitempty"`
	CurrentTrick       []TrickPlay    `json:"currentTrick"`
	RoundScores        map[string]int `json:"roundScores"`
	Scores             map[string]int `json:"scores"`
	Bids               map[string]int `json:"bids"`
	DealerIndex        int            `json:"dealerIndex"`
	Winner             string         `json:"winner,omitempty"`
	PendingStateChange *int64         `json:"pendingStateChange"` // unix ms, null when idle
	LastSound          *Sound         `json:"lastSound,omitempty"`
}

// Identity is the private "me" block of a player snapshot.
type Identity struct {
	ID        string `json:"id"`
	SeatIndex int    `json:"seatIndex"`
	IsAdmin   bool   `json:"isAdmin"`
}

// PlayerSnapshot is the public snapshot plus the caller's own hand.
type PlayerSnapshot struct {
	Snapshot
	Hand []Card   `json:"hand"`
	Me   Identity `json:"me"`
}

func (r *Room) snapshotLocked() Snapshot {
	snap := Snapshot{
		RoomID:       r.roomID,
		State:        r.state,
		WinningBid:   r.winningBid,
		Trump:        r.trump,
		CurrentTrick: slices.Clone(r.currentTrick),
		RoundScores:  cloneInts(r.roundScores),
		Scores:       cloneInts(r.scores),
		Bids:         cloneInts(r.bids),
		DealerIndex:  r.dealerIndex,
		Winner:       r.winnerID,
		LastSound:    r.lastSound,
	}
	for i, s := range r.seats {
		if s == nil {
			continue
		}
		snap.Players[i] = &SeatInfo{
			ID:        s.ID,
			Name:      s.Name,
			Score:     r.scores[s.ID],
			SeatIndex: i,
			Connected: s.connected(r.opts.StaleAfter),
			IsAdmin:   s.IsAdmin,
		}
	}
	if r.state == StateBidding || r.state == StatePlaying ||
		r.state == StateTrumpSelection || r.state == StateExchangeCards {
		if s := r.seats[r.turnIndex]; s != nil {
			snap.CurrentTurn = s.ID
		}
	}
	if r.pendingStateChange != nil {
		ms := r.pendingStateChange.UnixMilli()
		snap.PendingStateChange = &ms
	}
	return snap
}

func cloneInts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// PublicState returns the spectator-safe snapshot.
func (r *Room) PublicState() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// GetPlayerState refreshes the caller's presence and returns the public
// snapshot merged with their hand and identity.
func (r *Room) GetPlayerState(playerID string) (PlayerSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return PlayerSnapshot{}, ErrPlayerNotFound
	}
	p.LastSeen = time.Now()

	ps := PlayerSnapshot{
		Snapshot: r.snapshotLocked(),
		Hand:     []Card{},
		Me:       Identity{ID: p.ID, SeatIndex: p.SeatIndex, IsAdmin: p.IsAdmin},
	}
	if idx := r.seatOf(playerID); idx >= 0 {
		ps.Hand = slices.Clone(r.hands[idx])
	}
	return ps, nil
}

// Subscribe registers a push channel that receives the public snapshot on
// every state change, starting with the current one. A subscriber that
// cannot keep up is dropped and its channel closed.
func (r *Room) Subscribe(clientID string, out chan Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	r.subscribers[clientID] = out
	out <- r.snapshotLocked()
	return nil
}

func (r *Room) Unsubscribe(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ch, ok := r.subscribers[clientID]; ok {
		delete(r.subscribers, clientID)
		close(ch)
	}
}

func (r *Room) broadcastLocked() {
	if len(r.subscribers) == 0 {
		return
	}
	snap := r.snapshotLocked()
	for id, ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// slow or gone; drop them
			close(ch)
			delete(r.subscribers, id)
		}
	}
}
