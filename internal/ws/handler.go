package ws

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/batak-online/batak-server/internal/engine"
	"github.com/batak-online/batak-server/internal/hub"
	"github.com/batak-online/batak-server/internal/types"
	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// Handler upgrades to a websocket subscribed to one room: every state
// change arrives as a StateSnapshot, and commands can be sent back inline.
// The player token rides on the query string because browsers cannot set
// headers on websocket dials.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("room")
		if roomID == "" {
			http.Error(w, "missing room", http.StatusBadRequest)
			return
		}
		playerID := r.URL.Query().Get("player")

		reply := make(chan *engine.Room, 1)
		h.Inbox() <- hub.GetRoom{ID: roomID, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan engine.Snapshot, 8)
		clientID := randID(6)
		if err := rm.Subscribe(clientID, out); err != nil {
			conn.Close(websocket.StatusGoingAway, "room closed")
			return
		}
		defer rm.Unsubscribe(clientID)
		log.Debug("ws client subscribed",
			zap.String("room", roomID),
			zap.String("client", clientID),
		)

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				msg := types.ServerMessage{Type: "StateSnapshot", State: &snap}
				payload, _ := json.Marshal(msg)
				ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
				_ = conn.Write(ctx, websocket.MessageText, payload)
				cancel()
			}
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				writeError(r.Context(), conn, "bad json")
				continue
			}
			if err := dispatch(rm, playerID, cm); err != nil {
				writeError(r.Context(), conn, err.Error())
			}
		}
	}
}

var errUnknownType = errors.New("unknown message type")

func dispatch(rm *engine.Room, playerID string, m types.ClientMessage) error {
	switch m.Type {
	case "Bid":
		return rm.Bid(playerID, m.Amount)
	case "SelectTrump":
		return rm.SelectTrump(playerID, engine.Suit(m.Suit))
	case "Exchange":
		return rm.ExchangeCards(playerID, m.Cards)
	case "PlayCard":
		if m.Card == nil {
			return engine.ErrCardNotInHand
		}
		return rm.PlayCard(playerID, *m.Card)
	case "Redeal":
		return rm.RequestRedeal(playerID)
	case "Sound":
		return rm.BroadcastSound(m.Sound, playerID)
	default:
		return errUnknownType
	}
}

func writeError(ctx context.Context, conn *websocket.Conn, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{Type: "Error", Error: msg})
	wctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = conn.Write(wctx, websocket.MessageText, payload)
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
