package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpectatorSeat is the sentinel seat index for a join request that only
// wants to watch. Spectators never hold cards and never appear in scoring.
const SpectatorSeat = -1

// Player is one identity bound to a seat (or spectating). The ID doubles
// as the bearer token the client presents on every request.
type Player struct {
	ID        string
	Name      string
	SeatIndex int
	IsAdmin   bool
	LastSeen  time.Time
}

func (p *Player) connected(staleAfter time.Duration) bool {
	return time.Since(p.LastSeen) <= staleAfter
}

// JoinResult is what a successful addPlayer hands back to the transport.
type JoinResult struct {
	PlayerID  string `json:"playerId"`
	Token     string `json:"token"`
	SeatIndex int    `json:"seatIndex"`
	IsAdmin   bool   `json:"isAdmin"`
	Spectator bool   `json:"spectator,omitempty"`
}

// AddPlayer seats a new identity. The first join of an empty room becomes
// seat 0 and Admin. A request for an occupied seat succeeds only when the
// sitting player has gone stale, in which case the newcomer takes the seat
// over and inherits its cumulative score under the new token.
//
// seatIndex nil means auto-assign; SpectatorSeat means watch only.
func (r *Room) AddPlayer(name string, seatIndex *int) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinResult{}, ErrRoomClosed
	}

	if seatIndex != nil && *seatIndex == SpectatorSeat {
		p := &Player{
			ID:        uuid.NewString(),
			Name:      name,
			SeatIndex: SpectatorSeat,
			LastSeen:  time.Now(),
		}
		r.spectators[p.ID] = p
		r.broadcastLocked()
		return JoinResult{PlayerID: p.ID, Token: p.ID, SeatIndex: SpectatorSeat, Spectator: true}, nil
	}

	// first ever join claims seat 0 and the Admin role
	empty := true
	for _, s := range r.seats {
		if s != nil {
			empty = false
			break
		}
	}
	if empty {
		if name == "" {
			name = "Admin"
		}
		p := r.seatPlayerLocked(0, name, true)
		r.broadcastLocked()
		return JoinResult{PlayerID: p.ID, Token: p.ID, SeatIndex: 0, IsAdmin: true}, nil
	}

	if seatIndex != nil {
		idx := *seatIndex
		if idx < 0 || idx > 3 {
			return JoinResult{}, ErrSeatTaken
		}
		if cur := r.seats[idx]; cur != nil {
			if cur.connected(r.opts.StaleAfter) {
				return JoinResult{}, ErrSeatTaken
			}
			p := r.takeoverLocked(idx, name)
			r.broadcastLocked()
			return JoinResult{PlayerID: p.ID, Token: p.ID, SeatIndex: idx, IsAdmin: p.IsAdmin}, nil
		}
		p := r.seatPlayerLocked(idx, name, false)
		r.broadcastLocked()
		return JoinResult{PlayerID: p.ID, Token: p.ID, SeatIndex: idx}, nil
	}

	// auto-assign: first empty seat
	for i, s := range r.seats {
		if s == nil {
			p := r.seatPlayerLocked(i, name, false)
			r.broadcastLocked()
			return JoinResult{PlayerID: p.ID, Token: p.ID, SeatIndex: i}, nil
		}
	}
	return JoinResult{}, ErrRoomFull
}

func (r *Room) seatPlayerLocked(idx int, name string, admin bool) *Player {
	if name == "" {
		name = fmt.Sprintf("Player %d", idx+1)
	}
	p := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		SeatIndex: idx,
		IsAdmin:   admin,
		LastSeen:  time.Now(),
	}
	r.seats[idx] = p
	r.scores[p.ID] = 0
	r.log.Info("player seated", zap.String("name", p.Name), zap.Int("seat", idx))
	return p
}

// takeoverLocked replaces a stale seat's identity with a fresh token and
// remaps every reference to the old token so the seat can keep acting
// mid-auction or mid-trick.
func (r *Room) takeoverLocked(idx int, name string) *Player {
	old := r.seats[idx]
	if name == "" {
		name = old.Name
	}
	p := &Player{
		ID:        uuid.NewString(),
		Name:      name,
		SeatIndex: idx,
		IsAdmin:   old.IsAdmin,
		LastSeen:  time.Now(),
	}
	r.seats[idx] = p
	r.remapPlayerIDLocked(old.ID, p.ID)
	r.log.Info("seat taken over",
		zap.Int("seat", idx),
		zap.String("name", p.Name),
	)
	return p
}

func (r *Room) remapPlayerIDLocked(oldID, newID string) {
	if v, ok := r.scores[oldID]; ok {
		r.scores[newID] = v
		delete(r.scores, oldID)
	}
	if v, ok := r.roundScores[oldID]; ok {
		r.roundScores[newID] = v
		delete(r.roundScores, oldID)
	}
	if v, ok := r.bids[oldID]; ok {
		r.bids[newID] = v
		delete(r.bids, oldID)
	}
	for i, id := range r.activeBidders {
		if id == oldID {
			r.activeBidders[i] = newID
		}
	}
	if r.winningBid.PlayerID == oldID {
		r.winningBid.PlayerID = newID
	}
	for i := range r.currentTrick {
		if r.currentTrick[i].PlayerID == oldID {
			r.currentTrick[i].PlayerID = newID
		}
	}
	if r.winnerID == oldID {
		r.winnerID = newID
	}
}

// RemovePlayer vacates a seat during the lobby phase. Mid-round the seat is
// only marked disconnected so the player (or a substitute) can take it back;
// dropping it would strand the auction or the trick.
func (r *Room) RemovePlayer(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	if p, ok := r.spectators[playerID]; ok {
		delete(r.spectators, p.ID)
		r.broadcastLocked()
		return nil
	}

	idx := r.seatOf(playerID)
	if idx < 0 {
		return ErrPlayerNotFound
	}
	if r.state == StateWaiting {
		delete(r.scores, playerID)
		delete(r.roundScores, playerID)
		r.seats[idx] = nil
		r.log.Info("player left", zap.Int("seat", idx))
	} else {
		// abrupt disconnect: keep the seat reserved for reconnection
		r.seats[idx].LastSeen = time.Time{}
		r.log.Info("player disconnected mid-round", zap.Int("seat", idx))
	}
	r.broadcastLocked()
	return nil
}
