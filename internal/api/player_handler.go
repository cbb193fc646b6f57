package api

import (
	"github.com/gin-gonic/gin"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/middleware"
	"github.com/wfunc/battle-slot/internal/service"
)

// PlayerHandler 玩家处理器
type PlayerHandler struct {
	players service.PlayerService
	game    *game.GameService
	stats   *game.StatsService
}

// NewPlayerHandler 创建玩家处理器
func NewPlayerHandler(players service.PlayerService, gameService *game.GameService, stats *game.StatsService) *PlayerHandler {
	return &PlayerHandler{
		players: players,
		game:    gameService,
		stats:   stats,
	}
}

// Register 创建玩家
// @Summary 创建玩家
// @Tags Player
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "名字和可选密码"
// @Success 201 {object} service.AuthResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/v1/players [post]
func (h *PlayerHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.players.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, resp)
}

// Login 登录
// @Summary 名字密码登录
// @Tags Player
// @Router /api/v1/sessions [post]
func (h *PlayerHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.players.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Refresh 刷新令牌
// @Router /api/v1/sessions/refresh [post]
func (h *PlayerHandler) Refresh(c *gin.Context) {
	var req service.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.players.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// List 按名望排序的玩家列表
// @Router /api/v1/players [get]
func (h *PlayerHandler) List(c *gin.Context) {
	pagination := paginationFrom(c)
	players, err := h.players.List(c.Request.Context(), pagination)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, players, pagination)
}

// Me 当前玩家
// @Security Bearer
// @Router /api/v1/player [get]
func (h *PlayerHandler) Me(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	player, err := h.players.Get(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, player)
}

// Rename 修改名字
// @Security Bearer
// @Router /api/v1/player/name [put]
func (h *PlayerHandler) Rename(c *gin.Context) {
	var req service.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(c)
	player, err := h.players.Rename(c.Request.Context(), playerID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	h.stats.Invalidate()
	respondOK(c, player)
}

// Deposit 充值Tronium
// @Security Bearer
// @Router /api/v1/player/deposit [post]
func (h *PlayerHandler) Deposit(c *gin.Context) {
	var req game.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(c)
	player, err := h.game.Deposit(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, player)
}

// CashOut 提现全部Tronium
// @Security Bearer
// @Router /api/v1/player/cashout [post]
func (h *PlayerHandler) CashOut(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	amount, player, err := h.game.CashOut(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"cashed_out": amount,
		"player":     player,
	})
}

// Status 能否继续游戏
// @Security Bearer
// @Router /api/v1/player/status [get]
func (h *PlayerHandler) Status(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	status, err := h.game.Status(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status)
}

// Stats 个人战绩
// @Security Bearer
// @Router /api/v1/player/stats [get]
func (h *PlayerHandler) Stats(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	stats, err := h.stats.Player(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
