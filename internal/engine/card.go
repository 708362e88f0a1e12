package engine

import "fmt"

type Suit string

const (
	SuitSpades   Suit = "♠"
	SuitHearts   Suit = "♥"
	SuitDiamonds Suit = "♦"
	SuitClubs    Suit = "♣"
)

var Suits = []Suit{SuitSpades, SuitHearts, SuitDiamonds, SuitClubs}

func ValidSuit(s Suit) bool {
	switch s {
	case SuitSpades, SuitHearts, SuitDiamonds, SuitClubs:
		return true
	}
	return false
}

type Rank string

var Ranks = []Rank{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

var rankValue = map[Rank]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 11, "Q": 12, "K": 13, "A": 14,
}

// Value returns the rank's position in the total order 2 < ... < 10 < J < Q < K < A.
func (r Rank) Value() int { return rankValue[r] }

// Card is an immutable suit/rank pair. FromKitty marks cards that entered a
// hand through the kitty exchange so the client can highlight them.
type Card struct {
	Suit      Suit `json:"suit"`
	Rank      Rank `json:"rank"`
	FromKitty bool `json:"fromKitty,omitempty"`
}

// Same compares suit and rank only; the kitty tag is display metadata.
func (c Card) Same(o Card) bool { return c.Suit == o.Suit && c.Rank == o.Rank }

func (c Card) String() string { return fmt.Sprintf("%s%s", c.Rank, c.Suit) }
