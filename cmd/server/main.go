package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/wfunc/battle-slot/internal/api"
	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/database"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/service"
	ws "github.com/wfunc/battle-slot/internal/websocket"
	"go.uber.org/zap"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	hub        *ws.Hub
	httpServer *http.Server

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	server := NewServer(cfg)
	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 初始化组件并开始监听
func (s *Server) Start() error {
	s.logger.Info("正在启动战斗老虎机服务器...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initDatabase(); err != nil {
		return err
	}

	router, err := s.buildRouter()
	if err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Address(),
		Handler:      router.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.hub.Run(s.ctx)
	}()
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
			s.cancel()
		}
	}()

	config.Watch(func(newCfg *config.Config) {
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功", zap.String("http", s.cfg.Server.Address()))
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	if err := database.Init(&s.cfg.Database); err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		if err := database.AutoMigrate(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	if !database.IsConnected() {
		return apperrors.New(apperrors.ErrDatabaseConnect, "数据库连接检查失败")
	}
	return nil
}

// buildRouter 组装引擎、服务和路由
func (s *Server) buildRouter() (*api.Router, error) {
	if s.cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.GetDB()
	engine, err := game.NewEngine(&s.cfg.Game)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrConfigValidate, "创建老虎机引擎失败")
	}

	s.hub = ws.NewHubWithOptions(ws.OptionsFrom(&s.cfg.WebSocket), logger.GetModuleLogger("websocket"))
	stats := game.NewStatsService(db, s.cfg.Stats.CacheSize, s.cfg.Stats.CacheTTL, s.cfg.Stats.TopN)
	gameService := game.NewGameService(&game.GameServiceConfig{
		DB:           db,
		Logger:       logger.GetModuleLogger("game"),
		Engine:       engine,
		VillainMaxHP: s.cfg.Game.VillainMaxHP,
		Publisher:    s.hub,
		Stats:        stats,
	})
	services := service.NewServices(db, service.ConfigFrom(s.cfg), logger.GetModuleLogger("player"))

	return api.NewRouter(&api.RouterConfig{
		DB:        db,
		Players:   services.Player,
		Game:      gameService,
		Stats:     stats,
		Hub:       s.hub,
		WebSocket: &s.cfg.WebSocket,
		Monitor:   s.cfg.Monitor,
		Logger:    logger.GetModuleLogger("http"),
	}), nil
}

// WaitForShutdown 等待退出信号或服务异常
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
	case <-s.ctx.Done():
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP服务关闭失败", zap.Error(err))
		}
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return apperrors.New(apperrors.ErrTimeout, "关闭超时")
	}

	if err := database.Close(); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}
	return nil
}

// reloadConfig 热更新日志级别，其余配置需要重启
func (s *Server) reloadConfig(newCfg *config.Config) {
	if newCfg.Log.Level != s.cfg.Log.Level {
		logger.SetLevel(newCfg.Log.Level)
		s.logger.Info("日志级别已更新", zap.String("level", newCfg.Log.Level))
	}
	s.cfg.Log = newCfg.Log
	s.logger.Info("配置已重新加载，加成档位和数据库配置需重启生效")
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("战斗老虎机服务器\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
