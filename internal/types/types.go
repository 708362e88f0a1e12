package types

import "github.com/batak-online/batak-server/internal/engine"

// ClientMessage is one websocket command. Type selects the operation; the
// player identity comes from the connection's token, not the payload.
type ClientMessage struct {
	Type   string        `json:"type"` // "Bid" | "SelectTrump" | "Exchange" | "PlayCard" | "Redeal" | "Sound"
	Amount int           `json:"amount,omitempty"`
	Suit   string        `json:"suit,omitempty"`
	Cards  []engine.Card `json:"cards,omitempty"`
	Card   *engine.Card  `json:"card,omitempty"`
	Sound  string        `json:"sound,omitempty"`
}

type ServerMessage struct {
	Type  string           `json:"type"` // "StateSnapshot" | "Error"
	State *engine.Snapshot `json:"state,omitempty"`
	Error string           `json:"error,omitempty"`
}
