package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// 错误定义
var (
	ErrClientNotFound     = errors.New("客户端未找到")
	ErrPlayerNotConnected = errors.New("玩家未连接")
	ErrSendBufferFull     = errors.New("发送缓冲区已满")
	ErrHubStopped         = errors.New("Hub已停止")
)

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, playerID uint) *Client {
	return &Client{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
	}
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.leave(c)
		c.Conn.Close()
	}()

	opts := c.Hub.opts
	c.Conn.SetReadLimit(opts.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(opts.PongTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("WebSocket读取错误",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			return
		}
		c.handleMessage(message)
	}
}

// WritePump 写入消息，每帧一条JSON
func (c *Client) WritePump() {
	opts := c.Hub.opts
	ticker := time.NewTicker(opts.pingPeriod())
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if !ok {
				// Hub关闭了通道
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(opts.WriteTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理客户端消息，推送通道只接受ping/pong
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Hub.logger.Debug("解析WebSocket消息失败",
			zap.String("client_id", c.ID),
			zap.Error(err))
		c.Hub.SendToClient(c.ID, MessageTypeError, map[string]string{"error": "消息格式错误"})
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.Hub.SendToClient(c.ID, MessageTypePong, nil)
	case MessageTypePong:
	default:
		c.Hub.SendToClient(c.ID, MessageTypeError, map[string]string{"error": "不支持的消息类型: " + msg.Type})
	}
}
