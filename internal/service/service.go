package service

import (
	"time"

	"github.com/wfunc/battle-slot/internal/config"
	"github.com/wfunc/battle-slot/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config 服务配置
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	InitialTronium     int64
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		JWTSecret:          "battle-slot-dev-secret",
		AccessTokenExpiry:  24 * time.Hour,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		InitialTronium:     1000,
	}
}

// ConfigFrom 从应用配置构建服务配置
func ConfigFrom(cfg *config.Config) *Config {
	c := DefaultConfig()
	if cfg.Security.JWT.Secret != "" {
		c.JWTSecret = cfg.Security.JWT.Secret
	}
	if cfg.Security.JWT.ExpireHours > 0 {
		c.AccessTokenExpiry = time.Duration(cfg.Security.JWT.ExpireHours) * time.Hour
	}
	if cfg.Security.JWT.RefreshHours > 0 {
		c.RefreshTokenExpiry = time.Duration(cfg.Security.JWT.RefreshHours) * time.Hour
	}
	c.InitialTronium = cfg.Game.InitialTronium
	return c
}

// Services 服务集合
type Services struct {
	Player PlayerService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, config *Config, log *zap.Logger) *Services {
	jwtManager := utils.NewJWTManager(
		config.JWTSecret,
		config.AccessTokenExpiry,
		config.RefreshTokenExpiry,
	)

	return &Services{
		Player: NewPlayerService(db, jwtManager, config.InitialTronium, log),
	}
}
