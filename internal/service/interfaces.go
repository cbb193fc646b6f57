package service

import (
	"context"

	"github.com/wfunc/battle-slot/internal/models"
	"github.com/wfunc/battle-slot/internal/repository"
)

// PlayerService 玩家服务接口
type PlayerService interface {
	// 注册登录
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)

	// 验证
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)

	// 玩家管理
	Get(ctx context.Context, playerID uint) (*models.Player, error)
	Rename(ctx context.Context, playerID uint, name string) (*models.Player, error)
	List(ctx context.Context, pagination *repository.Pagination) ([]*models.Player, error)
}

// RegisterRequest 注册请求，密码可选
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=20"`
	Password string `json:"password"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新令牌请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RenameRequest 改名请求
type RenameRequest struct {
	Name string `json:"name" binding:"required,min=2,max=20"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	Player       *models.Player `json:"player"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	ExpiresIn    int64          `json:"expires_in"`
	TokenType    string         `json:"token_type"`
}

// TokenClaims JWT Claims
type TokenClaims struct {
	PlayerID  uint   `json:"player_id"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
