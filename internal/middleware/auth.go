package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/service"
)

const (
	ctxPlayerID   = "playerID"
	ctxPlayerName = "playerName"
	ctxToken      = "token"
)

// TokenValidator 验证访问令牌
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*service.TokenClaims, error)
}

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    apperrors.ErrAuthentication,
				"message": "缺少认证令牌",
			})
			return
		}

		claims, err := m.validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			appErr := apperrors.As(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
				"details": appErr.Details,
			})
			return
		}

		setClaims(c, claims, token)
		c.Next()
	}
}

// OptionalAuth 可选认证的中间件（不强制要求登录）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			if claims, err := m.validator.ValidateToken(c.Request.Context(), token); err == nil {
				setClaims(c, claims, token)
			}
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *service.TokenClaims, token string) {
	c.Set(ctxPlayerID, claims.PlayerID)
	c.Set(ctxPlayerName, claims.Name)
	c.Set(ctxToken, token)
}

// ExtractToken 从请求中提取令牌
func ExtractToken(c *gin.Context) string {
	// 1. Authorization: Bearer <token>
	if bearer := c.GetHeader("Authorization"); bearer != "" {
		parts := strings.SplitN(bearer, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	// 2. X-Access-Token
	if token := c.GetHeader("X-Access-Token"); token != "" {
		return token
	}

	// 3. Cookie
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}

	// 4. Query参数，WebSocket握手只能这样传
	return c.Query("token")
}

// GetPlayerID 从上下文获取玩家ID
func GetPlayerID(c *gin.Context) (uint, bool) {
	if v, exists := c.Get(ctxPlayerID); exists {
		if id, ok := v.(uint); ok {
			return id, true
		}
	}
	return 0, false
}

// GetPlayerName 从上下文获取玩家名字
func GetPlayerName(c *gin.Context) (string, bool) {
	if v, exists := c.Get(ctxPlayerName); exists {
		if name, ok := v.(string); ok {
			return name, true
		}
	}
	return "", false
}

// IsAuthenticated 检查是否已认证
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get(ctxPlayerID)
	return exists
}
