package types

// Client -> Server (REST bodies; identity via X-Player-ID header)
// join:     { name, code?, seatIndex? }  // seatIndex -1 joins as spectator
// bid:      { amount }                   // 0 passes
// exchange: { cards }                    // exactly 4 cards, or [] to skip
// trump:    { suit }
// play:     { card }
// sound:    { type }
//
// Client -> Server (websocket, same operations inline):
// { type: "Bid", amount }
// { type: "SelectTrump", suit }
// { type: "Exchange", cards }
// { type: "PlayCard", card }
// { type: "Redeal" }
// { type: "Sound", sound }
//
// Server -> Client (websocket):
// { type: "StateSnapshot", state }  // public snapshot, see snapshot.go
// { type: "Error", error }
