package hub

import (
	"context"

	"github.com/batak-online/batak-server/internal/engine"
	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

type EnsureRoom struct {
	ID    string
	Reply chan *engine.Room
}

type GetRoom struct {
	ID    string
	Reply chan *engine.Room
}

// ResetRoom swaps in a fresh Room under the same id. The old room is
// closed so its pending timers die with it.
type ResetRoom struct {
	ID    string
	Reply chan *engine.Room
}

type RemoveRoom struct {
	ID    string
	Reply chan bool
}

type ListRooms struct {
	Reply chan []engine.Snapshot
}

type ShutdownHub struct{}

func (EnsureRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (ResetRoom) isHubMsg()   {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub is the actor owning the room-id -> Room map; all registry access is
// serialized through its inbox.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*engine.Room
	opts   engine.Options
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, opts engine.Options, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*engine.Room),
		opts:   opts,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case EnsureRoom:
				if rm := h.rooms[msg.ID]; rm != nil {
					msg.Reply <- rm
					break
				}
				rm := engine.NewRoom(msg.ID, h.opts, h.log)
				h.rooms[msg.ID] = rm
				h.log.Info("room created", zap.String("room", msg.ID))
				msg.Reply <- rm

			case GetRoom:
				msg.Reply <- h.rooms[msg.ID] // may be nil

			case ResetRoom:
				old := h.rooms[msg.ID]
				if old == nil {
					msg.Reply <- nil
					break
				}
				old.Close()
				rm := engine.NewRoom(msg.ID, h.opts, h.log)
				h.rooms[msg.ID] = rm
				h.log.Info("room reset", zap.String("room", msg.ID))
				msg.Reply <- rm

			case RemoveRoom:
				rm := h.rooms[msg.ID]
				if rm != nil {
					rm.Close()
					delete(h.rooms, msg.ID)
					h.log.Info("room deleted", zap.String("room", msg.ID))
				}
				msg.Reply <- rm != nil

			case ListRooms:
				list := make([]engine.Snapshot, 0, len(h.rooms))
				for _, rm := range h.rooms {
					list = append(list, rm.PublicState())
				}
				msg.Reply <- list

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, rm := range h.rooms {
		rm.Close()
		delete(h.rooms, id)
	}
	h.cancel()
}
