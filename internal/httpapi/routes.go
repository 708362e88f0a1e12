package httpapi

import (
	"net/http"

	"github.com/batak-online/batak-server/internal/hub"
	"github.com/batak-online/batak-server/internal/ws"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func SetupRoutes(h *hub.Hub, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", CreateRoom(h, log))
		r.Get("/", ListRooms(h))
		r.Post("/{roomID}/join", JoinRoom(h))
		r.Post("/{roomID}/leave", LeaveRoom(h))
		r.Get("/{roomID}/state", GetState(h))
		r.Post("/{roomID}/start", StartGame(h))
		r.Post("/{roomID}/bid", Bid(h))
		r.Post("/{roomID}/exchange", Exchange(h))
		r.Post("/{roomID}/trump", SelectTrump(h))
		r.Post("/{roomID}/play", PlayCard(h))
		r.Post("/{roomID}/redeal", RequestRedeal(h))
		r.Post("/{roomID}/sound", BroadcastSound(h))
	})

	r.Route("/api/admin/rooms", func(r chi.Router) {
		r.Get("/", AdminListRooms(h))
		r.Post("/{roomID}/reset", AdminResetRoom(h))
		r.Delete("/{roomID}", AdminDeleteRoom(h))
	})

	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(h, log))
	return r
}
