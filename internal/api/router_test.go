package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wfunc/battle-slot/internal/config"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/logger"
	"github.com/wfunc/battle-slot/internal/models"
	"github.com/wfunc/battle-slot/internal/repository"
	"github.com/wfunc/battle-slot/internal/service"
	"github.com/wfunc/battle-slot/internal/utils"
	ws "github.com/wfunc/battle-slot/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// envelope 统一响应
type envelope struct {
	Success    bool                   `json:"success"`
	Data       json.RawMessage        `json:"data"`
	Pagination *repository.Pagination `json:"pagination"`
	Error      *struct {
		Code    apperrors.ErrorCode `json:"code"`
		Message string              `json:"message"`
	} `json:"error"`
}

// spinData 旋转响应中用到的字段
type spinData struct {
	RoundID string        `json:"round_id"`
	Cost    int64         `json:"cost"`
	Player  models.Player `json:"player"`
	Battle  models.Battle `json:"battle"`
	Result  struct {
		Winnings slot.Winnings `json:"winnings"`
	} `json:"result"`
}

// RouterTestSuite 路由测试套件
type RouterTestSuite struct {
	suite.Suite
	db      *gorm.DB
	hub     *ws.Hub
	router  *Router
	cancel  context.CancelFunc
	restore func()
}

func (suite *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.restore = logger.ReplaceForTest(zap.NewNop())
	suite.db = repository.SetupTestDB()

	ladder, err := slot.NewBoostLadder(slot.DefaultBoosts())
	require.NoError(suite.T(), err)
	engine, err := slot.NewEngine(slot.DefaultCatalog(), ladder, slot.NewSeededSource(42))
	require.NoError(suite.T(), err)

	var ctx context.Context
	ctx, suite.cancel = context.WithCancel(context.Background())
	suite.hub = ws.NewHub(zap.NewNop())
	go suite.hub.Run(ctx)

	stats := game.NewStatsService(suite.db, 16, 0, 10)
	gameService := game.NewGameService(&game.GameServiceConfig{
		DB:           suite.db,
		Logger:       zap.NewNop(),
		Engine:       engine,
		VillainMaxHP: 100,
		Publisher:    suite.hub,
		Stats:        stats,
	})
	players := service.NewPlayerService(suite.db, utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour), 1000, zap.NewNop())

	suite.router = NewRouter(&RouterConfig{
		DB:          suite.db,
		Players:     players,
		Game:        gameService,
		Stats:       stats,
		Hub:         suite.hub,
		Monitor:     config.MonitorConfig{Enabled: true, MetricsPath: "/metrics"},
		OpenAPIPath: "../../docs/api/openapi.yaml",
		Logger:      zap.NewNop(),
	})
}

func (suite *RouterTestSuite) TearDownTest() {
	suite.cancel()
	repository.CleanupTestDB(suite.db)
	suite.restore()
}

func (suite *RouterTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.GetEngine().ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(suite.T(), json.Unmarshal(env.Data, data))
	}
	return env
}

func (suite *RouterTestSuite) register(name, password string) *service.AuthResponse {
	w := suite.do(http.MethodPost, "/api/v1/players", "", gin.H{"name": name, "password": password})
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	var auth service.AuthResponse
	suite.decode(w, &auth)
	require.NotEmpty(suite.T(), auth.AccessToken)
	return &auth
}

func (suite *RouterTestSuite) errorCode(w *httptest.ResponseRecorder) apperrors.ErrorCode {
	env := suite.decode(w, nil)
	require.NotNil(suite.T(), env.Error, w.Body.String())
	return env.Error.Code
}

// TestHealthAndDocs 健康检查、指标和文档
func (suite *RouterTestSuite) TestHealthAndDocs() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.NotEmpty(suite.T(), w.Header().Get(headerRequestID))

	w = suite.do(http.MethodGet, "/openapi", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "openapi:")

	w = suite.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "battle_slot_expected_payout")

	w = suite.do(http.MethodGet, "/no/such/route", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
	assert.Equal(suite.T(), apperrors.ErrNotFound, suite.errorCode(w))
}

// TestCatalog 公开的加成和招式表
func (suite *RouterTestSuite) TestCatalog() {
	var boosts []slot.BoostChoice
	w := suite.do(http.MethodGet, "/api/v1/boosts", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &boosts)
	require.Len(suite.T(), boosts, 4)
	assert.Equal(suite.T(), "Normal", boosts[0].Label)

	var moves struct {
		ExpectedPayout float64 `json:"expected_payout"`
		WinProbability float64 `json:"win_probability"`
	}
	w = suite.do(http.MethodGet, "/api/v1/moves", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &moves)
	assert.InDelta(suite.T(), 0.90804, moves.ExpectedPayout, 1e-9)
	assert.InDelta(suite.T(), 0.3384, moves.WinProbability, 1e-9)
}

// TestAuth 注册、登录、刷新和鉴权
func (suite *RouterTestSuite) TestAuth() {
	auth := suite.register("vega", "starlight")
	assert.Equal(suite.T(), int64(1000), auth.Player.Tronium)

	w := suite.do(http.MethodPost, "/api/v1/players", "", gin.H{"name": "vega"})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/players", "", gin.H{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apperrors.ErrInvalidParam, suite.errorCode(w))

	w = suite.do(http.MethodPost, "/api/v1/sessions", "", gin.H{"name": "vega", "password": "starlight"})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/sessions", "", gin.H{"name": "vega", "password": "wrong-one"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var refreshed service.AuthResponse
	w = suite.do(http.MethodPost, "/api/v1/sessions/refresh", "", gin.H{"refresh_token": auth.RefreshToken})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &refreshed)
	assert.Equal(suite.T(), auth.Player.ID, refreshed.Player.ID)

	w = suite.do(http.MethodGet, "/api/v1/player", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/player", "garbage", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	var me models.Player
	w = suite.do(http.MethodGet, "/api/v1/player", auth.AccessToken, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &me)
	assert.Equal(suite.T(), "vega", me.Name)

	w = suite.do(http.MethodPut, "/api/v1/player/name", auth.AccessToken, gin.H{"name": "altair"})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &me)
	assert.Equal(suite.T(), "altair", me.Name)
}

// TestSpinFlow 旋转、回放和历史
func (suite *RouterTestSuite) TestSpinFlow() {
	auth := suite.register("luna", "")
	token := auth.AccessToken

	var battle models.Battle
	w := suite.do(http.MethodGet, "/api/v1/battle", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &battle)
	assert.Equal(suite.T(), models.BattleReady, battle.Status)

	var out spinData
	w = suite.do(http.MethodPost, "/api/v1/battle/spin", token, gin.H{"boost": "strong", "lines": 2})
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	suite.decode(w, &out)
	assert.Equal(suite.T(), int64(60), out.Cost)
	assert.Equal(suite.T(), 1000-60+out.Result.Winnings.Payout, out.Player.Tronium)
	assert.Equal(suite.T(), battle.ID, out.Battle.ID)

	var replay struct {
		Record models.SpinRecord `json:"record"`
		Result struct {
			Winnings slot.Winnings `json:"winnings"`
		} `json:"result"`
	}
	w = suite.do(http.MethodGet, "/api/v1/spins/"+out.RoundID, token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &replay)
	assert.Equal(suite.T(), out.Result.Winnings, replay.Result.Winnings)
	assert.Equal(suite.T(), "Strong", replay.Record.Boost)

	w = suite.do(http.MethodGet, "/api/v1/spins/missing", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// 不能回放别人的旋转
	other := suite.register("orion", "")
	w = suite.do(http.MethodGet, "/api/v1/spins/"+out.RoundID, other.AccessToken, nil)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var records []models.SpinRecord
	w = suite.do(http.MethodGet, "/api/v1/spins?page=1&page_size=5", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	env := suite.decode(w, &records)
	assert.Len(suite.T(), records, 1)
	require.NotNil(suite.T(), env.Pagination)
	assert.Equal(suite.T(), int64(1), env.Pagination.Total)

	w = suite.do(http.MethodGet, "/api/v1/player/stats", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	w = suite.do(http.MethodGet, "/api/v1/stats", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestSpinErrors 下注错误映射为HTTP状态
func (suite *RouterTestSuite) TestSpinErrors() {
	token := suite.register("luna", "").AccessToken

	w := suite.do(http.MethodPost, "/api/v1/battle/spin", token, gin.H{"boost": "Normal", "lines": 4})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/battle/spin", token, gin.H{"boost": "Mega", "lines": 1})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), apperrors.ErrInvalidBoost, suite.errorCode(w))

	w = suite.do(http.MethodPost, "/api/v1/player/cashout", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/battle/spin", token, gin.H{"boost": "Normal", "lines": 1})
	assert.Equal(suite.T(), http.StatusPaymentRequired, w.Code)
	assert.Equal(suite.T(), apperrors.ErrInsufficientTronium, suite.errorCode(w))

	var status game.StatusInfo
	w = suite.do(http.MethodGet, "/api/v1/player/status", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &status)
	assert.Equal(suite.T(), game.StatusNotEnoughBalance, status.Status)

	var player models.Player
	w = suite.do(http.MethodPost, "/api/v1/player/deposit", token, gin.H{"amount": 50})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &player)
	assert.Equal(suite.T(), int64(50), player.Tronium)

	w = suite.do(http.MethodPost, "/api/v1/player/deposit", token, gin.H{"amount": -5})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestWebSocketPush 旋转结果推送给玩家
func (suite *RouterTestSuite) TestWebSocketPush() {
	auth := suite.register("luna", "")
	server := httptest.NewServer(suite.router.Handler())
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?token=" + auth.AccessToken
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(suite.T(), err)
	defer conn.Close()

	read := func() ws.Message {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(suite.T(), err)
		var msg ws.Message
		require.NoError(suite.T(), json.Unmarshal(data, &msg))
		return msg
	}
	require.Equal(suite.T(), ws.MessageTypeConnected, read().Type)

	w := suite.do(http.MethodPost, "/api/v1/battle/spin", auth.AccessToken, gin.H{"boost": "Normal", "lines": 1})
	require.Equal(suite.T(), http.StatusOK, w.Code)

	msg := read()
	assert.Equal(suite.T(), game.EventSpinResult, msg.Type)
	assert.Equal(suite.T(), auth.Player.ID, msg.PlayerID)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws?token=bad", nil)
	assert.Error(suite.T(), err)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
