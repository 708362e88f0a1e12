package types

// Public snapshot (GET /api/rooms/{id}/state, ws StateSnapshot):
//   roomId: string
//   players: (SeatInfo | null)[4] // id|name|score|seatIndex|connected|isAdmin
//   state: "WAITING" | "BIDDING" | "TRUMP_SELECTION" | "EXCHANGE_CARDS" | "PLAYING" | "GAME_OVER"
//   currentTurn: playerId of the seat required to act, omitted in WAITING/GAME_OVER
//   winningBid: { playerId, amount }
//   trump: "♠" | "♥" | "♦" | "♣", omitted before selection
//   currentTrick: [{ playerId, card }] // 0-4 entries
//   roundScores: { [playerId]: tricksTakenThisRound }
//   scores: { [playerId]: cumulativeScore }
//   bids: { [playerId]: amount } // 0 records a pass
//   dealerIndex: number
//   winner: playerId, only in GAME_OVER
//   pendingStateChange: unix ms of the armed trick-clear/restart, else null
//   lastSound: { type, from, at } // opaque UI notification
//
// Player snapshot adds:
//   hand: Card[] // the caller's cards only, kitty never serialized
//   me: { id, seatIndex, isAdmin } // seatIndex -1 for spectators
