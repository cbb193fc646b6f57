package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/battle-slot/internal/config"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/metrics"
	"github.com/wfunc/battle-slot/internal/middleware"
	"github.com/wfunc/battle-slot/internal/service"
	ws "github.com/wfunc/battle-slot/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterConfig 路由依赖
type RouterConfig struct {
	DB          *gorm.DB
	Players     service.PlayerService
	Game        *game.GameService
	Stats       *game.StatsService
	Hub         *ws.Hub
	WebSocket   *config.WebSocketConfig
	Monitor     config.MonitorConfig
	OpenAPIPath string
	Logger      *zap.Logger
}

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	players        *PlayerHandler
	games          *GameHandler
	sockets        *WebSocketHandler
	authMiddleware *middleware.AuthMiddleware
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(cfg *RouterConfig) *Router {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.Use(recovery())
	engine.Use(requestID())
	engine.Use(requestLogger())
	if cfg.Monitor.Enabled {
		engine.Use(metrics.Middleware())
	}

	router := &Router{
		engine:         engine,
		db:             cfg.DB,
		players:        NewPlayerHandler(cfg.Players, cfg.Game, cfg.Stats),
		games:          NewGameHandler(cfg.Game, cfg.Stats),
		sockets:        NewWebSocketHandler(cfg.Hub, cfg.Players, cfg.WebSocket, log),
		authMiddleware: middleware.NewAuthMiddleware(cfg.Players),
		log:            log,
	}

	router.setupRoutes(cfg)
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes(cfg *RouterConfig) {
	r.engine.GET("/health", r.healthCheck)

	if cfg.Monitor.Enabled {
		path := cfg.Monitor.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, metrics.Handler())
	}
	registerDocRoutes(r.engine, cfg.OpenAPIPath)

	wsPath := "/ws"
	if cfg.WebSocket != nil && cfg.WebSocket.Path != "" {
		wsPath = cfg.WebSocket.Path
	}
	r.engine.GET(wsPath, r.sockets.Connect)

	v1 := r.engine.Group("/api/v1")
	{
		// 公开接口
		v1.POST("/players", r.players.Register)
		v1.GET("/players", r.players.List)
		v1.POST("/sessions", r.players.Login)
		v1.POST("/sessions/refresh", r.players.Refresh)
		v1.GET("/boosts", r.games.Boosts)
		v1.GET("/moves", r.games.Moves)
		v1.GET("/stats", r.games.GlobalStats)
		v1.GET("/online", r.sockets.Online)

		authed := v1.Group("")
		authed.Use(r.authMiddleware.RequireAuth())
		{
			player := authed.Group("/player")
			{
				player.GET("", r.players.Me)
				player.PUT("/name", r.players.Rename)
				player.POST("/deposit", r.players.Deposit)
				player.POST("/cashout", r.players.CashOut)
				player.GET("/status", r.players.Status)
				player.GET("/stats", r.players.Stats)
			}

			authed.GET("/battle", r.games.Battle)
			authed.POST("/battle/spin", r.games.Spin)
			authed.GET("/spins", r.games.History)
			authed.GET("/spins/:round_id", r.games.Replay)
		}
	}

	r.engine.NoRoute(func(c *gin.Context) {
		respondError(c, apperrors.New(apperrors.ErrNotFound, "接口不存在"))
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// recovery 捕获panic并返回500
func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered, debug.Stack())
		respondError(c, apperrors.New(apperrors.ErrUnknown, "服务内部错误"))
		c.Abort()
	})
}

// requestLogger 访问日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP())
	}
}

// Handler 返回 http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
