package engine

import (
	"math/rand"
	"sort"
)

// Deck owns the 52 cards for one round. Room rebuilds it on every deal.
type Deck struct {
	cards []Card
}

func NewDeck() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset rebuilds all 52 cards and shuffles them.
func (d *Deck) Reset() {
	d.cards = d.cards[:0]
	for _, s := range Suits {
		for _, r := range Ranks {
			d.cards = append(d.cards, Card{Suit: s, Rank: r})
		}
	}
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal distributes the deck round-robin into four hands of 12; the last four
// cards form the kitty. Hands and kitty come back sorted for display.
func (d *Deck) Deal() (hands [4][]Card, kitty []Card) {
	for i := 0; i < 48; i++ {
		hands[i%4] = append(hands[i%4], d.cards[i])
	}
	kitty = append(kitty, d.cards[48:52]...)

	for i := range hands {
		SortHand(hands[i])
	}
	SortHand(kitty)
	return hands, kitty
}

// display order groups suits ♠ ♥ ♣ ♦ so colors alternate in the fan
var suitOrder = map[Suit]int{SuitSpades: 0, SuitHearts: 1, SuitClubs: 2, SuitDiamonds: 3}

// SortHand orders cards by suit group, then descending rank within a suit.
func SortHand(hand []Card) {
	sort.SliceStable(hand, func(i, j int) bool {
		if suitOrder[hand[i].Suit] != suitOrder[hand[j].Suit] {
			return suitOrder[hand[i].Suit] < suitOrder[hand[j].Suit]
		}
		return hand[i].Rank.Value() > hand[j].Rank.Value()
	})
}
