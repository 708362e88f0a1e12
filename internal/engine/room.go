package engine

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type State string

const (
	StateWaiting        State = "WAITING"
	StateBidding        State = "BIDDING"
	StateTrumpSelection State = "TRUMP_SELECTION"
	StateExchangeCards  State = "EXCHANGE_CARDS"
	StatePlaying        State = "PLAYING"
	StateGameOver       State = "GAME_OVER"
)

// Options are the room's tunable durations. Tests shrink them to keep the
// timer-driven transitions fast.
type Options struct {
	TrickDelay   time.Duration // pause before a resolved trick is cleared
	RestartDelay time.Duration // pause before the next round auto-starts
	StaleAfter   time.Duration // presence window for the connected flag
}

func DefaultOptions() Options {
	return Options{
		TrickDelay:   2 * time.Second,
		RestartDelay: 5 * time.Second,
		StaleAfter:   5 * time.Second,
	}
}

type WinningBid struct {
	PlayerID string `json:"playerId,omitempty"`
	Amount   int    `json:"amount"`
}

type TrickPlay struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

type Sound struct {
	Type string `json:"type"`
	From string `json:"from,omitempty"`
	At   int64  `json:"at"`
}

// Room is the aggregate root: one table, one state machine, one mutex.
// Every exported method validates fully before mutating, so a rejected
// request never leaves partial state behind.
type Room struct {
	mu   sync.Mutex
	log  *zap.Logger
	opts Options

	roomID string
	state  State

	// gen invalidates timers armed before a close/reset; a stale fire
	// observes a mismatch and no-ops.
	gen    int
	closed bool

	deck        *Deck
	seats       [4]*Player
	hands       [4][]Card
	kitty       []Card
	buriedCards []Card

	spectators map[string]*Player

	bids          map[string]int
	activeBidders []string
	winningBid    WinningBid
	trump         Suit

	currentTrick []TrickPlay
	turnIndex    int

	dealerIndex          int
	roundBidStarterIndex int
	hasBidStarter        bool
	firstRound           bool

	scores      map[string]int
	roundScores map[string]int

	winnerID string

	pendingStateChange *time.Time
	lastSound          *Sound

	subscribers map[string]chan Snapshot
}

func NewRoom(roomID string, opts Options, log *zap.Logger) *Room {
	if log == nil {
		log = zap.NewNop()
	}
	return &Room{
		log:         log.With(zap.String("room", roomID)),
		opts:        opts,
		roomID:      roomID,
		state:       StateWaiting,
		deck:        NewDeck(),
		spectators:  map[string]*Player{},
		bids:        map[string]int{},
		scores:      map[string]int{},
		roundScores: map[string]int{},
		firstRound:  true,
		subscribers: map[string]chan Snapshot{},
	}
}

func (r *Room) ID() string { return r.roomID }

// Close invalidates the room: pending timers become no-ops and subscribers
// are disconnected. Used by admin delete/reset.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.gen++
	for id, ch := range r.subscribers {
		close(ch)
		delete(r.subscribers, id)
	}
	r.log.Info("room closed")
}

// StartGame deals a fresh round. Only the Admin may start, and all four
// seats must be filled.
func (r *Room) StartGame(playerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRoomClosed
	}
	p := r.playerByID(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if !p.IsAdmin {
		return ErrNotAdmin
	}
	if r.state != StateWaiting {
		return ErrWrongPhase
	}
	for _, s := range r.seats {
		if s == nil {
			return ErrNotEnoughPlayers
		}
	}
	r.touch(playerID)
	r.startGameLocked()
	r.broadcastLocked()
	return nil
}

// startGameLocked resets the round-transient fields and opens the auction.
// scores and dealerIndex deliberately survive.
func (r *Room) startGameLocked() {
	r.state = StateBidding
	r.deck.Reset()
	r.hands, r.kitty = r.deck.Deal()
	r.buriedCards = nil
	r.trump = ""
	r.currentTrick = nil
	r.pendingStateChange = nil
	r.bids = map[string]int{}
	r.roundScores = map[string]int{}
	for _, s := range r.seats {
		if _, ok := r.scores[s.ID]; !ok {
			r.scores[s.ID] = 0
		}
		r.roundScores[s.ID] = 0
	}

	starter := r.biddingStarterLocked()
	r.turnIndex = starter
	r.roundBidStarterIndex = starter
	r.hasBidStarter = true

	// the opener holds a standing bid of 4; it wins if nobody raises
	r.winningBid = WinningBid{PlayerID: r.seats[starter].ID, Amount: 4}
	r.activeBidders = r.activeBidders[:0]
	for _, s := range r.seats {
		r.activeBidders = append(r.activeBidders, s.ID)
	}

	r.log.Info("round started",
		zap.Int("starter", starter),
		zap.Int("dealer", r.dealerIndex),
	)
}

// biddingStarterLocked finds the auction opener: the holder of ♣2 on the
// very first round, dealer+1 afterwards (also the fallback when ♣2 landed
// in the kitty).
func (r *Room) biddingStarterLocked() int {
	if r.firstRound {
		r.firstRound = false
		club2 := Card{Suit: SuitClubs, Rank: "2"}
		for i := range r.hands {
			for _, c := range r.hands[i] {
				if c.Same(club2) {
					return i
				}
			}
		}
	}
	return (r.dealerIndex + 1) % 4
}

// scheduleAfter arms a delayed self-transition. The closure re-checks the
// generation under the lock, so a timer armed before a reset/delete can
// never touch the room that replaced it.
func (r *Room) scheduleAfter(d time.Duration, fn func()) {
	gen := r.gen
	time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.gen != gen {
			r.log.Debug("dropping stale timer fire", zap.Int("armed_gen", gen))
			return
		}
		fn()
	})
}

// playerByID looks up a seated player or spectator by token.
func (r *Room) playerByID(id string) *Player {
	for _, s := range r.seats {
		if s != nil && s.ID == id {
			return s
		}
	}
	return r.spectators[id]
}

// seatOf returns the seat index the token occupies, or -1.
func (r *Room) seatOf(id string) int {
	for i, s := range r.seats {
		if s != nil && s.ID == id {
			return i
		}
	}
	return -1
}

func (r *Room) touch(id string) {
	if p := r.playerByID(id); p != nil {
		p.LastSeen = time.Now()
	}
}

// BroadcastSound records an opaque UI notification on the snapshot. It has
// no effect on game state.
func (r *Room) BroadcastSound(soundType, fromPlayerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if r.playerByID(fromPlayerID) == nil {
		return ErrPlayerNotFound
	}
	r.touch(fromPlayerID)
	r.lastSound = &Sound{Type: soundType, From: fromPlayerID, At: time.Now().UnixMilli()}
	r.broadcastLocked()
	return nil
}
