package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/batak-online/batak-server/internal/engine"
	"github.com/batak-online/batak-server/internal/hub"
	"github.com/batak-online/batak-server/internal/types"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dialRoom(t *testing.T, srv *httptest.Server, roomID, playerID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "?room=" + roomID + "&player=" + playerID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) types.ServerMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var msg types.ServerMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	return msg
}

func TestHandlerSnapshotsAndDispatch(t *testing.T) {
	h := hub.NewHub(context.Background(), engine.DefaultOptions(), nil)
	reply := make(chan *engine.Room, 1)
	h.Inbox() <- hub.EnsureRoom{ID: "777001", Reply: reply}
	rm := <-reply

	res, err := rm.AddPlayer("Ayşe", nil)
	require.NoError(t, err)

	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	conn := dialRoom(t, srv, "777001", res.PlayerID)
	defer conn.Close(websocket.StatusNormalClosure, "")

	// subscription delivers the current snapshot immediately
	first := readServerMessage(t, conn)
	require.Equal(t, "StateSnapshot", first.Type)
	require.NotNil(t, first.State)
	require.Equal(t, engine.StateWaiting, first.State.State)
	require.Equal(t, "777001", first.State.RoomID)

	// unknown commands come back as an Error frame
	ctx := context.Background()
	require.NoError(t, wsjson.Write(ctx, conn, types.ClientMessage{Type: "Shout"}))
	errMsg := readServerMessage(t, conn)
	require.Equal(t, "Error", errMsg.Type)
	require.Contains(t, errMsg.Error, "unknown message type")

	// a Bid in the lobby dispatches into the engine and is rejected there
	require.NoError(t, wsjson.Write(ctx, conn, types.ClientMessage{Type: "Bid", Amount: 5}))
	phaseMsg := readServerMessage(t, conn)
	require.Equal(t, "Error", phaseMsg.Type)
	require.Contains(t, phaseMsg.Error, "phase")

	// a successful mutation is pushed back as a fresh snapshot
	require.NoError(t, wsjson.Write(ctx, conn, types.ClientMessage{Type: "Sound", Sound: "knock"}))
	update := readServerMessage(t, conn)
	require.Equal(t, "StateSnapshot", update.Type)
	require.NotNil(t, update.State.LastSound)
	require.Equal(t, "knock", update.State.LastSound.Type)
	require.Equal(t, res.PlayerID, update.State.LastSound.From)
}

func TestHandlerRejectsUnknownRoom(t *testing.T) {
	h := hub.NewHub(context.Background(), engine.DefaultOptions(), nil)
	srv := httptest.NewServer(Handler(h, zap.NewNop()))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	url := strings.Replace(srv.URL, "http", "ws", 1) + "?room=999999"
	_, resp, err := websocket.Dial(ctx, url, nil)
	require.Error(t, err)
	if resp != nil {
		require.Equal(t, 404, resp.StatusCode)
	}
}
