package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MePlay/core/player"
	"MePlay/model"
)

func dialHub(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/nowplaying"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg WSMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitListeners(t *testing.T, h *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ClientCount() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestHubBroadcastsSnapshots(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()
	srv := httptest.NewServer(NewNowPlayingRouter(hub))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitListeners(t, hub, 1)

	track := model.Track{ID: "7", Title: "Blue in Green", Artist: "Miles Davis"}
	hub.Broadcast(player.Snapshot{Generation: 3, Track: &track, State: player.StatePlaying, IsPlaying: true})

	msg := readMessage(t, conn)
	assert.Equal(t, MsgTypeSnapshot, msg.Type)
	var snap struct {
		Generation uint64       `json:"generation"`
		Track      *model.Track `json:"track"`
		State      string       `json:"state"`
	}
	require.NoError(t, json.Unmarshal(msg.Data, &snap))
	require.NotNil(t, snap.Track)
	assert.Equal(t, "7", snap.Track.ID)
	assert.Equal(t, "playing", snap.State)
}

func TestHubSendsLatestSnapshotOnConnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()
	srv := httptest.NewServer(NewNowPlayingRouter(hub))
	defer srv.Close()

	hub.Broadcast(player.Snapshot{State: player.StatePaused})
	hub.Broadcast(player.Snapshot{State: player.StateIdle})
	// let Run drain the queue before anyone connects
	require.Eventually(t, func() bool { return len(hub.broadcast) == 0 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	conn := dialHub(t, srv)
	msg := readMessage(t, conn)
	assert.Contains(t, string(msg.Data), `"state":"idle"`)
}

func TestHubAnswersPing(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()
	srv := httptest.NewServer(NewNowPlayingRouter(hub))
	defer srv.Close()

	conn := dialHub(t, srv)
	waitListeners(t, hub, 1)
	require.NoError(t, conn.WriteJSON(WSMessage{Type: MsgTypePing}))
	assert.Equal(t, MsgTypePong, readMessage(t, conn).Type)

	conn.Close()
	waitListeners(t, hub, 0)
}

func TestBroadcastAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Broadcast(player.Snapshot{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked after Stop")
	}
}
