package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongType    = errors.New("wrong token type")
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	tokenIssuer = "battle-slot"
)

// PlayerClaims 玩家令牌Claims
type PlayerClaims struct {
	PlayerID  uint   `json:"player_id"`
	Name      string `json:"name"`
	TokenType string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims
}

// TokenPair 访问令牌和刷新令牌
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// JWTManager JWT管理器
type JWTManager struct {
	secretKey          []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(secretKey string, accessExpiry, refreshExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secretKey:          []byte(secretKey),
		accessTokenExpiry:  accessExpiry,
		refreshTokenExpiry: refreshExpiry,
	}
}

// sign 签发指定类型的令牌
func (j *JWTManager) sign(playerID uint, name, tokenType string, ttl time.Duration, now time.Time) (string, error) {
	claims := &PlayerClaims{
		PlayerID:  playerID,
		Name:      name,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   name,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

// GenerateTokenPair 为玩家签发一对令牌
func (j *JWTManager) GenerateTokenPair(playerID uint, name string) (*TokenPair, error) {
	now := time.Now()

	access, err := j.sign(playerID, name, TokenTypeAccess, j.accessTokenExpiry, now)
	if err != nil {
		return nil, err
	}
	refresh, err := j.sign(playerID, name, TokenTypeRefresh, j.refreshTokenExpiry, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(j.accessTokenExpiry),
	}, nil
}

// ValidateToken 验证令牌
func (j *JWTManager) ValidateToken(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.secretKey, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, err
	}

	claims, ok := token.Claims.(*PlayerClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAccessToken 只接受访问令牌
func (j *JWTManager) ValidateAccessToken(tokenString string) (*PlayerClaims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != TokenTypeAccess {
		return nil, ErrWrongType
	}
	return claims, nil
}

// Refresh 使用刷新令牌签发新的一对令牌
func (j *JWTManager) Refresh(refreshToken string) (*TokenPair, *PlayerClaims, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.TokenType != TokenTypeRefresh {
		return nil, nil, ErrWrongType
	}

	pair, err := j.GenerateTokenPair(claims.PlayerID, claims.Name)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// GetTokenExpiry 获取令牌过期时间
func (j *JWTManager) GetTokenExpiry(tokenType string) time.Duration {
	if tokenType == TokenTypeRefresh {
		return j.refreshTokenExpiry
	}
	return j.accessTokenExpiry
}
