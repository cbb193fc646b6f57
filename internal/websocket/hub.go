package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/metrics"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 玩家ID到客户端的映射
	playerClients map[uint][]*Client
	playerMu      sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	opts   Options
	logger *zap.Logger
}

// Options 连接参数
type Options struct {
	Heartbeat      time.Duration // Hub广播ping消息的周期
	PongTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// DefaultOptions 默认连接参数
func DefaultOptions() Options {
	return Options{
		Heartbeat:      30 * time.Second,
		PongTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 4 * 1024,
	}
}

// OptionsFrom 从配置读取，未设置的项使用默认值
func OptionsFrom(cfg *config.WebSocketConfig) Options {
	opts := DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.PingInterval > 0 {
		opts.Heartbeat = cfg.PingInterval
	}
	if cfg.PongTimeout > 0 {
		opts.PongTimeout = cfg.PongTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.MaxMessageSize > 0 {
		opts.MaxMessageSize = cfg.MaxMessageSize
	}
	return opts
}

// pingPeriod 控制帧ping周期，必须小于PongTimeout
func (o Options) pingPeriod() time.Duration {
	return o.PongTimeout * 9 / 10
}

// Client WebSocket客户端
type Client struct {
	ID       string          // 客户端ID
	PlayerID uint            // 玩家ID，0表示观战
	Hub      *Hub            // Hub引用
	Conn     *websocket.Conn // WebSocket连接
	Send     chan []byte     // 发送通道
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	PlayerID  uint            `json:"player_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// 系统消息类型，游戏事件类型见 game 包
const (
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return NewHubWithOptions(DefaultOptions(), logger)
}

// NewHubWithOptions 使用指定参数创建Hub
func NewHubWithOptions(opts Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:       make(map[string]*Client),
		playerClients: make(map[uint][]*Client),
		broadcast:     make(chan []byte, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		opts:          opts,
		logger:        logger,
	}
}

// Run 运行Hub，ctx取消后关闭所有连接
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.opts.Heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastMessage(data)

		case <-ticker.C:
			if data, err := encode(MessageTypePing, 0, nil); err == nil {
				h.broadcastMessage(data)
			}
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	if client.PlayerID > 0 {
		h.playerMu.Lock()
		h.playerClients[client.PlayerID] = append(h.playerClients[client.PlayerID], client)
		h.playerMu.Unlock()
	}
	metrics.WebSocketClients.Inc()

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.Uint("player_id", client.PlayerID))

	if data, err := encode(MessageTypeConnected, client.PlayerID, map[string]string{"client_id": client.ID}); err == nil {
		h.deliver(client, data)
	}
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()
	if !ok {
		return
	}

	if client.PlayerID > 0 {
		h.playerMu.Lock()
		clients := h.playerClients[client.PlayerID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.playerClients[client.PlayerID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.playerClients[client.PlayerID]) == 0 {
			delete(h.playerClients, client.PlayerID)
		}
		h.playerMu.Unlock()
	}
	metrics.WebSocketClients.Dec()

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.Uint("player_id", client.PlayerID))
}

// closeAll 关闭所有客户端
func (h *Hub) closeAll() {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		h.unregisterClient(c)
	}
}

// broadcastMessage 发给所有客户端
func (h *Hub) broadcastMessage(data []byte) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for _, client := range h.clients {
		h.deliver(client, data)
	}
}

// deliver 非阻塞写入发送通道
func (h *Hub) deliver(client *Client, data []byte) bool {
	select {
	case client.Send <- data:
		return true
	default:
		h.logger.Warn("客户端发送缓冲区满", zap.String("client_id", client.ID))
		return false
	}
}

// encode 组装消息
func encode(msgType string, playerID uint, data interface{}) ([]byte, error) {
	msg := Message{
		Type:      msgType,
		PlayerID:  playerID,
		Timestamp: time.Now().Unix(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return json.Marshal(msg)
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, msgType string, data interface{}) error {
	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()
	if !ok {
		return ErrClientNotFound
	}

	payload, err := encode(msgType, client.PlayerID, data)
	if err != nil {
		return err
	}
	if !h.deliver(client, payload) {
		return ErrSendBufferFull
	}
	return nil
}

// SendToPlayer 发送消息给玩家的所有连接
func (h *Hub) SendToPlayer(playerID uint, msgType string, data interface{}) error {
	h.playerMu.RLock()
	clients := append([]*Client(nil), h.playerClients[playerID]...)
	h.playerMu.RUnlock()

	if len(clients) == 0 {
		return ErrPlayerNotConnected
	}

	payload, err := encode(msgType, playerID, data)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for _, client := range clients {
		if _, ok := h.clients[client.ID]; ok {
			h.deliver(client, payload)
		}
	}
	return nil
}

// Broadcast 广播消息给所有连接
func (h *Hub) Broadcast(msgType string, data interface{}) error {
	payload, err := encode(msgType, 0, data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- payload:
		return nil
	case <-h.done:
		return ErrHubStopped
	default:
		return ErrSendBufferFull
	}
}

// OnlinePlayers 在线玩家
func (h *Hub) OnlinePlayers() []uint {
	h.playerMu.RLock()
	defer h.playerMu.RUnlock()

	players := make([]uint, 0, len(h.playerClients))
	for id := range h.playerClients {
		players = append(players, id)
	}
	return players
}

// OnlineCount 在线连接数
func (h *Hub) OnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Attach 注册连接并启动读写协程，Hub已停止时返回nil
func (h *Hub) Attach(conn *websocket.Conn, playerID uint) *Client {
	client := NewClient(h, conn, playerID)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}
	go client.WritePump()
	go client.ReadPump()
	return client
}

// leave 注销客户端
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
