package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/models"
	"github.com/wfunc/battle-slot/internal/repository"
	"github.com/wfunc/battle-slot/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minNameLength = 2
	maxNameLength = 20
)

// playerService 玩家服务实现
type playerService struct {
	repos          *repository.Manager
	jwtManager     *utils.JWTManager
	initialTronium int64
	log            *zap.Logger
}

// NewPlayerService 创建玩家服务
func NewPlayerService(db *gorm.DB, jwtManager *utils.JWTManager, initialTronium int64, log *zap.Logger) PlayerService {
	if log == nil {
		log = zap.NewNop()
	}
	return &playerService{
		repos:          repository.NewManager(db),
		jwtManager:     jwtManager,
		initialTronium: initialTronium,
		log:            log,
	}
}

// normalizeName 去掉首尾空白并检查长度
func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < minNameLength || n > maxNameLength {
		return "", apperrors.Newf(apperrors.ErrInvalidParam, "名字长度需要在%d到%d之间", minNameLength, maxNameLength)
	}
	return name, nil
}

// Register 注册玩家
func (s *playerService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	var hash string
	if req.Password != "" {
		if err := utils.ValidatePassword(req.Password); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInvalidParam)
		}
		if hash, err = utils.HashPassword(req.Password); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "密码加密失败")
		}
	}

	player := &models.Player{
		Name:         name,
		PasswordHash: hash,
		Tronium:      s.initialTronium,
	}

	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		if _, err := tx.Player().FindByName(ctx, name); err == nil {
			return apperrors.Newf(apperrors.ErrAlreadyExists, "名字 %s 已被使用", name)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
		}
		if err := tx.Player().Create(ctx, player); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "创建玩家失败")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("玩家注册",
		zap.Uint("player_id", player.ID),
		zap.String("name", player.Name),
		zap.Bool("password", player.HasPassword()),
		zap.Int64("tronium", player.Tronium),
	)
	return s.issue(player)
}

// Login 使用名字和密码登录
func (s *playerService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	player, err := s.repos.Player().FindByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrAuthentication, "名字或密码错误")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	if !player.HasPassword() {
		return nil, apperrors.New(apperrors.ErrAuthentication, "该玩家未设置密码")
	}

	ok, err := utils.VerifyPassword(req.Password, player.PasswordHash)
	if err != nil {
		s.log.Error("密码哈希损坏", zap.Uint("player_id", player.ID), zap.Error(err))
		return nil, apperrors.Wrap(err, apperrors.ErrAuthentication)
	}
	if !ok {
		s.log.Warn("登录失败", zap.String("name", player.Name))
		return nil, apperrors.New(apperrors.ErrAuthentication, "名字或密码错误")
	}

	s.log.Info("玩家登录", zap.Uint("player_id", player.ID))
	return s.issue(player)
}

// RefreshToken 刷新令牌
func (s *playerService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	pair, claims, err := s.jwtManager.Refresh(refreshToken)
	if err != nil {
		return nil, tokenError(err)
	}

	player, err := s.Get(ctx, claims.PlayerID)
	if err != nil {
		return nil, err
	}
	return s.response(player, pair), nil
}

// ValidateToken 验证访问令牌
func (s *playerService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(token)
	if err != nil {
		return nil, tokenError(err)
	}

	tc := &TokenClaims{
		PlayerID: claims.PlayerID,
		Name:     claims.Name,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return tc, nil
}

// Get 获取玩家
func (s *playerService) Get(ctx context.Context, playerID uint) (*models.Player, error) {
	player, err := s.repos.Player().FindByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Wrap(err, apperrors.ErrNotFound)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return player, nil
}

// Rename 修改名字
func (s *playerService) Rename(ctx context.Context, playerID uint, name string) (*models.Player, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var player *models.Player
	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		p, err := tx.Player().FindByIDForUpdate(ctx, playerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperrors.Wrap(err, apperrors.ErrNotFound)
			}
			return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
		}
		if p.Name == name {
			player = p
			return nil
		}

		if other, err := tx.Player().FindByName(ctx, name); err == nil && other.ID != p.ID {
			return apperrors.Newf(apperrors.ErrAlreadyExists, "名字 %s 已被使用", name)
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
		}

		old := p.Name
		p.Name = name
		if err := tx.Player().Update(ctx, p); err != nil {
			return apperrors.Wrap(err, apperrors.ErrDatabaseUpdate)
		}
		s.log.Info("玩家改名", zap.Uint("player_id", p.ID), zap.String("from", old), zap.String("to", name))
		player = p
		return nil
	})
	return player, err
}

// List 玩家列表，按名望排序
func (s *playerService) List(ctx context.Context, pagination *repository.Pagination) ([]*models.Player, error) {
	players, err := s.repos.Player().List(ctx, pagination)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery)
	}
	return players, nil
}

// issue 为玩家签发令牌
func (s *playerService) issue(player *models.Player) (*AuthResponse, error) {
	pair, err := s.jwtManager.GenerateTokenPair(player.ID, player.Name)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrUnknown, "生成令牌失败")
	}
	return s.response(player, pair), nil
}

func (s *playerService) response(player *models.Player, pair *utils.TokenPair) *AuthResponse {
	return &AuthResponse{
		Player:       player,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(s.jwtManager.GetTokenExpiry(utils.TokenTypeAccess).Seconds()),
		TokenType:    "Bearer",
	}
}

// tokenError 令牌错误转换为应用错误
func tokenError(err error) error {
	if errors.Is(err, utils.ErrExpiredToken) {
		return apperrors.Wrap(err, apperrors.ErrTokenExpired)
	}
	return apperrors.Wrap(err, apperrors.ErrTokenInvalid)
}
