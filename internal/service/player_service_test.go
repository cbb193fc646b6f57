package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/repository"
	"github.com/wfunc/battle-slot/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlayerServiceTestSuite 玩家服务测试套件
type PlayerServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service PlayerService
}

func (suite *PlayerServiceTestSuite) SetupTest() {
	suite.db = repository.SetupTestDB()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	suite.service = NewPlayerService(suite.db, jwtManager, 1000, zap.NewNop())
}

func (suite *PlayerServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// TestRegister 注册后获得初始Tronium和令牌
func (suite *PlayerServiceTestSuite) TestRegister() {
	ctx := context.Background()

	resp, err := suite.service.Register(ctx, &RegisterRequest{Name: "  luna  "})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "luna", resp.Player.Name)
	assert.Equal(suite.T(), int64(1000), resp.Player.Tronium)
	assert.False(suite.T(), resp.Player.HasPassword())
	assert.Equal(suite.T(), "Bearer", resp.TokenType)
	assert.Equal(suite.T(), int64(3600), resp.ExpiresIn)

	claims, err := suite.service.ValidateToken(ctx, resp.AccessToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), resp.Player.ID, claims.PlayerID)
	assert.Equal(suite.T(), "luna", claims.Name)

	_, err = suite.service.Register(ctx, &RegisterRequest{Name: "luna"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAlreadyExists))

	_, err = suite.service.Register(ctx, &RegisterRequest{Name: "x"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInvalidParam))

	_, err = suite.service.Register(ctx, &RegisterRequest{Name: "orion", Password: "123"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrInvalidParam))
}

// TestLogin 设置密码的玩家可以登录
func (suite *PlayerServiceTestSuite) TestLogin() {
	ctx := context.Background()

	reg, err := suite.service.Register(ctx, &RegisterRequest{Name: "vega", Password: "starlight"})
	require.NoError(suite.T(), err)
	assert.True(suite.T(), reg.Player.HasPassword())

	resp, err := suite.service.Login(ctx, &LoginRequest{Name: "vega", Password: "starlight"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), reg.Player.ID, resp.Player.ID)

	_, err = suite.service.Login(ctx, &LoginRequest{Name: "vega", Password: "moonlight"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAuthentication))

	_, err = suite.service.Login(ctx, &LoginRequest{Name: "nobody", Password: "starlight"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAuthentication))

	_, err = suite.service.Register(ctx, &RegisterRequest{Name: "guest"})
	require.NoError(suite.T(), err)
	_, err = suite.service.Login(ctx, &LoginRequest{Name: "guest", Password: "anything"})
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAuthentication))
}

// TestRefreshToken 刷新令牌
func (suite *PlayerServiceTestSuite) TestRefreshToken() {
	ctx := context.Background()
	reg, err := suite.service.Register(ctx, &RegisterRequest{Name: "orion"})
	require.NoError(suite.T(), err)

	resp, err := suite.service.RefreshToken(ctx, reg.RefreshToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), reg.Player.ID, resp.Player.ID)

	_, err = suite.service.RefreshToken(ctx, reg.AccessToken)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrTokenInvalid))

	_, err = suite.service.ValidateToken(ctx, reg.RefreshToken)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrTokenInvalid))
}

// TestExpiredToken 过期令牌
func (suite *PlayerServiceTestSuite) TestExpiredToken() {
	ctx := context.Background()
	expired := NewPlayerService(suite.db, utils.NewJWTManager("test-secret", -time.Minute, time.Hour), 0, nil)

	reg, err := expired.Register(ctx, &RegisterRequest{Name: "ghost"})
	require.NoError(suite.T(), err)

	_, err = suite.service.ValidateToken(ctx, reg.AccessToken)
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrTokenExpired))
}

// TestRename 改名
func (suite *PlayerServiceTestSuite) TestRename() {
	ctx := context.Background()
	luna, err := suite.service.Register(ctx, &RegisterRequest{Name: "luna"})
	require.NoError(suite.T(), err)
	_, err = suite.service.Register(ctx, &RegisterRequest{Name: "orion"})
	require.NoError(suite.T(), err)

	player, err := suite.service.Rename(ctx, luna.Player.ID, "selene")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "selene", player.Name)

	got, err := suite.service.Get(ctx, luna.Player.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "selene", got.Name)

	_, err = suite.service.Rename(ctx, luna.Player.ID, "orion")
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrAlreadyExists))

	_, err = suite.service.Rename(ctx, luna.Player.ID, "selene")
	assert.NoError(suite.T(), err)

	_, err = suite.service.Rename(ctx, 999, "nobody")
	assert.True(suite.T(), apperrors.Is(err, apperrors.ErrNotFound))
}

// TestList 列表
func (suite *PlayerServiceTestSuite) TestList() {
	ctx := context.Background()
	for _, name := range []string{"aa", "bb", "cc"} {
		_, err := suite.service.Register(ctx, &RegisterRequest{Name: name})
		require.NoError(suite.T(), err)
	}

	pagination := repository.NewPagination(1, 2)
	players, err := suite.service.List(ctx, pagination)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), players, 2)
	assert.Equal(suite.T(), int64(3), pagination.Total)
}

func TestPlayerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlayerServiceTestSuite))
}
