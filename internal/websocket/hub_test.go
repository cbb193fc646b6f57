package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/battle-slot/internal/config"
	"go.uber.org/zap"
)

// startHub 启动Hub和一个按 ?player= 注册连接的测试服务
func startHub(t *testing.T) (*Hub, *httptest.Server) {
	hub := NewHub(zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id, _ := strconv.ParseUint(r.URL.Query().Get("player"), 10, 64)
		hub.Attach(conn, uint(id))
	}))

	t.Cleanup(func() {
		cancel()
		server.Close()
	})
	return hub, server
}

func dial(t *testing.T, server *httptest.Server, player uint) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?player=" + strconv.FormatUint(uint64(player), 10)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	msg := readMessage(t, conn)
	require.Equal(t, MessageTypeConnected, msg.Type)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitOnline(t *testing.T, hub *Hub, n int) {
	require.Eventually(t, func() bool { return hub.OnlineCount() == n }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_SendToPlayer(t *testing.T) {
	hub, server := startHub(t)
	luna := dial(t, server, 1)
	orion := dial(t, server, 2)
	waitOnline(t, hub, 2)
	assert.ElementsMatch(t, []uint{1, 2}, hub.OnlinePlayers())

	require.NoError(t, hub.SendToPlayer(1, "spin_result", map[string]int64{"payout": 42}))

	msg := readMessage(t, luna)
	assert.Equal(t, "spin_result", msg.Type)
	assert.Equal(t, uint(1), msg.PlayerID)
	assert.JSONEq(t, `{"payout":42}`, string(msg.Data))

	// 另一个玩家收不到
	orion.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := orion.ReadMessage()
	assert.Error(t, err)

	assert.ErrorIs(t, hub.SendToPlayer(99, "spin_result", nil), ErrPlayerNotConnected)
}

func TestHub_Broadcast(t *testing.T) {
	hub, server := startHub(t)
	luna := dial(t, server, 1)
	spectator := dial(t, server, 0)
	waitOnline(t, hub, 2)
	assert.ElementsMatch(t, []uint{1}, hub.OnlinePlayers())

	require.NoError(t, hub.Broadcast("battle_finished", map[string]string{"player_name": "luna"}))

	for _, conn := range []*websocket.Conn{luna, spectator} {
		msg := readMessage(t, conn)
		assert.Equal(t, "battle_finished", msg.Type)
		assert.JSONEq(t, `{"player_name":"luna"}`, string(msg.Data))
	}
}

func TestHub_ClientMessages(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, 3)
	waitOnline(t, hub, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	assert.Equal(t, MessageTypePong, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"spin"}`)))
	assert.Equal(t, MessageTypeError, readMessage(t, conn).Type)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	assert.Equal(t, MessageTypeError, readMessage(t, conn).Type)
}

func TestHub_Disconnect(t *testing.T) {
	hub, server := startHub(t)
	conn := dial(t, server, 5)
	waitOnline(t, hub, 1)

	conn.Close()
	waitOnline(t, hub, 0)
	assert.Empty(t, hub.OnlinePlayers())
	assert.ErrorIs(t, hub.SendToPlayer(5, "spin_result", nil), ErrPlayerNotConnected)
	assert.ErrorIs(t, hub.SendToClient("missing", "ping", nil), ErrClientNotFound)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Equal(t, 0, hub.OnlineCount())
}

func TestOptionsFrom(t *testing.T) {
	assert.Equal(t, DefaultOptions(), OptionsFrom(nil))

	opts := OptionsFrom(&config.WebSocketConfig{
		PingInterval:   5 * time.Second,
		PongTimeout:    20 * time.Second,
		MaxMessageSize: 1024,
	})
	assert.Equal(t, 5*time.Second, opts.Heartbeat)
	assert.Equal(t, 18*time.Second, opts.pingPeriod())
	assert.Equal(t, int64(1024), opts.MaxMessageSize)
	assert.Equal(t, 10*time.Second, opts.WriteTimeout)
}
