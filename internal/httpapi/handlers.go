package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/batak-online/batak-server/internal/engine"
	"github.com/batak-online/batak-server/internal/hub"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const playerHeader = "X-Player-ID"

// GenerateRoomID returns a 6-digit numeric room id.
func GenerateRoomID() (string, error) {
	const digits = "0123456789"
	id := make([]byte, 6)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		id[i] = digits[n.Int64()]
	}
	// avoid a leading zero so ids survive clients that treat them as numbers
	if id[0] == '0' {
		id[0] = '1'
	}
	return string(id), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeEngineError maps engine sentinels onto HTTP statuses. Everything is
// a local validation failure; nothing here retries.
func writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, engine.ErrPlayerNotFound):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrNotAdmin):
		status = http.StatusForbidden
	case errors.Is(err, engine.ErrRoomClosed):
		status = http.StatusGone
	case errors.Is(err, engine.ErrRoomFull), errors.Is(err, engine.ErrSeatTaken):
		status = http.StatusConflict
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func getRoom(h *hub.Hub, id string) *engine.Room {
	reply := make(chan *engine.Room, 1)
	h.Inbox() <- hub.GetRoom{ID: id, Reply: reply}
	return <-reply
}

// roomFromRequest resolves {roomID} or writes a 404.
func roomFromRequest(h *hub.Hub, w http.ResponseWriter, r *http.Request) *engine.Room {
	rm := getRoom(h, chi.URLParam(r, "roomID"))
	if rm == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "room not found"})
		return nil
	}
	return rm
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad json"})
		return false
	}
	return true
}

func CreateRoom(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		for {
			candidate, err := GenerateRoomID()
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to generate room id"})
				return
			}
			if getRoom(h, candidate) == nil {
				id = candidate
				break
			}
			log.Debug("room id collision, regenerating", zap.String("id", candidate))
		}

		reply := make(chan *engine.Room, 1)
		h.Inbox() <- hub.EnsureRoom{ID: id, Reply: reply}
		if <-reply == nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to create room"})
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			RoomID string `json:"roomId"`
		}{RoomID: id})
	}
}

// ListRooms is the lobby view: public snapshots only, no hands anywhere.
func ListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []engine.Snapshot, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		snaps := <-reply

		type roomSummary struct {
			ID          string              `json:"id"`
			PlayerCount int                 `json:"playerCount"`
			Seats       [4]*engine.SeatInfo `json:"seats"`
			State       engine.State        `json:"state"`
		}
		out := make([]roomSummary, 0, len(snaps))
		for _, s := range snaps {
			count := 0
			for _, p := range s.Players {
				if p != nil {
					count++
				}
			}
			out = append(out, roomSummary{
				ID:          s.RoomID,
				PlayerCount: count,
				Seats:       s.Players,
				State:       s.State,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type joinRequest struct {
	Name string `json:"name"`
	// Code is accepted for wire compatibility with older clients and is
	// not validated; seat ownership is proven by token staleness instead.
	Code      string `json:"code,omitempty"`
	SeatIndex *int   `json:"seatIndex,omitempty"`
}

func JoinRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := getRoom(h, chi.URLParam(r, "roomID"))
		if rm == nil {
			// joining an unknown id creates the room, original behavior
			reply := make(chan *engine.Room, 1)
			h.Inbox() <- hub.EnsureRoom{ID: chi.URLParam(r, "roomID"), Reply: reply}
			rm = <-reply
		}
		var req joinRequest
		if !decode(w, r, &req) {
			return
		}
		res, err := rm.AddPlayer(req.Name, req.SeatIndex)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func LeaveRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		if err := rm.RemovePlayer(r.Header.Get(playerHeader)); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{true})
	}
}

// GetState is the polling endpoint: with a token it returns the player
// snapshot (hand included), without one the public snapshot.
func GetState(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		playerID := r.Header.Get(playerHeader)
		if playerID == "" {
			writeJSON(w, http.StatusOK, rm.PublicState())
			return
		}
		ps, err := rm.GetPlayerState(playerID)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ps)
	}
}

func StartGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		respond(w, rm.StartGame(r.Header.Get(playerHeader)))
	}
}

func Bid(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		var req struct {
			Amount int `json:"amount"`
		}
		if !decode(w, r, &req) {
			return
		}
		respond(w, rm.Bid(r.Header.Get(playerHeader), req.Amount))
	}
}

func Exchange(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		var req struct {
			Cards []engine.Card `json:"cards"`
		}
		if !decode(w, r, &req) {
			return
		}
		respond(w, rm.ExchangeCards(r.Header.Get(playerHeader), req.Cards))
	}
}

func SelectTrump(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		var req struct {
			Suit string `json:"suit"`
		}
		if !decode(w, r, &req) {
			return
		}
		respond(w, rm.SelectTrump(r.Header.Get(playerHeader), engine.Suit(req.Suit)))
	}
}

func PlayCard(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		var req struct {
			Card engine.Card `json:"card"`
		}
		if !decode(w, r, &req) {
			return
		}
		respond(w, rm.PlayCard(r.Header.Get(playerHeader), req.Card))
	}
}

func RequestRedeal(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		respond(w, rm.RequestRedeal(r.Header.Get(playerHeader)))
	}
}

func BroadcastSound(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rm := roomFromRequest(h, w, r)
		if rm == nil {
			return
		}
		var req struct {
			Type string `json:"type"`
		}
		if !decode(w, r, &req) {
			return
		}
		respond(w, rm.BroadcastSound(req.Type, r.Header.Get(playerHeader)))
	}
}

func respond(w http.ResponseWriter, err error) {
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{true})
}

// AdminListRooms exposes full public snapshots for the dashboard.
func AdminListRooms(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan []engine.Snapshot, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		writeJSON(w, http.StatusOK, <-reply)
	}
}

func AdminResetRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan *engine.Room, 1)
		h.Inbox() <- hub.ResetRoom{ID: chi.URLParam(r, "roomID"), Reply: reply}
		if <-reply == nil {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "room not found"})
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{true})
	}
}

func AdminDeleteRoom(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reply := make(chan bool, 1)
		h.Inbox() <- hub.RemoveRoom{ID: chi.URLParam(r, "roomID"), Reply: reply}
		if !<-reply {
			writeJSON(w, http.StatusNotFound, errorBody{Error: "room not found"})
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Success bool `json:"success"`
		}{true})
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
