package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/middleware"
	ws "github.com/wfunc/battle-slot/internal/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub       *ws.Hub
	validator middleware.TokenValidator
	upgrader  websocket.Upgrader
	logger    *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, validator middleware.TokenValidator, cfg *config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	if cfg != nil {
		if cfg.ReadBufferSize > 0 {
			upgrader.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			upgrader.WriteBufferSize = cfg.WriteBufferSize
		}
		upgrader.EnableCompression = cfg.EnableCompression
	}

	return &WebSocketHandler{
		hub:       hub,
		validator: validator,
		upgrader:  upgrader,
		logger:    logger,
	}
}

// Connect 建立推送连接，带令牌时接收个人事件，否则只接收广播
// @Router /ws [get]
func (h *WebSocketHandler) Connect(c *gin.Context) {
	var playerID uint
	if token := middleware.ExtractToken(c); token != "" {
		claims, err := h.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		playerID = claims.PlayerID
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket升级失败",
			zap.Uint("player_id", playerID),
			zap.Error(err))
		return
	}

	client := h.hub.Attach(conn, playerID)
	if client == nil {
		h.logger.Warn("Hub已停止，拒绝连接", zap.Uint("player_id", playerID))
		return
	}
	h.logger.Debug("WebSocket连接建立",
		zap.String("client_id", client.ID),
		zap.Uint("player_id", playerID),
		zap.String("ip", c.ClientIP()))
}

// Online 在线统计
// @Router /api/v1/online [get]
func (h *WebSocketHandler) Online(c *gin.Context) {
	respondOK(c, gin.H{
		"connections": h.hub.OnlineCount(),
		"players":     len(h.hub.OnlinePlayers()),
	})
}
