package api

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/wfunc/battle-slot/internal/errors"
	"github.com/wfunc/battle-slot/internal/game"
	"github.com/wfunc/battle-slot/internal/middleware"
)

// GameHandler 战斗处理器
type GameHandler struct {
	game  *game.GameService
	stats *game.StatsService
}

// NewGameHandler 创建战斗处理器
func NewGameHandler(gameService *game.GameService, stats *game.StatsService) *GameHandler {
	return &GameHandler{
		game:  gameService,
		stats: stats,
	}
}

// Battle 当前战斗，没有则开始新战斗
// @Security Bearer
// @Router /api/v1/battle [get]
func (h *GameHandler) Battle(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	battle, err := h.game.CurrentBattle(c.Request.Context(), playerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, battle)
}

// Spin 下注旋转
// @Summary 下注旋转
// @Tags Battle
// @Security Bearer
// @Accept json
// @Produce json
// @Param request body game.SpinRequest true "加成和线数"
// @Success 200 {object} game.SpinOutcome
// @Failure 400 {object} errors.ErrorResponse
// @Failure 402 {object} errors.ErrorResponse
// @Router /api/v1/battle/spin [post]
func (h *GameHandler) Spin(c *gin.Context) {
	var req game.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(c)
	out, err := h.game.Spin(c.Request.Context(), playerID, req.Boost, req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// Replay 按回合ID回放，只能回放自己的旋转
// @Security Bearer
// @Router /api/v1/spins/{round_id} [get]
func (h *GameHandler) Replay(c *gin.Context) {
	out, err := h.game.Replay(c.Request.Context(), c.Param("round_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	playerID, _ := middleware.GetPlayerID(c)
	if out.Record.PlayerID != playerID {
		respondError(c, apperrors.New(apperrors.ErrPermissionDenied, "不能回放其他玩家的旋转"))
		return
	}
	respondOK(c, out)
}

// History 旋转记录
// @Security Bearer
// @Router /api/v1/spins [get]
func (h *GameHandler) History(c *gin.Context) {
	playerID, _ := middleware.GetPlayerID(c)
	pagination := paginationFrom(c)
	records, err := h.game.History(c.Request.Context(), playerID, pagination)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, records, pagination)
}

// Boosts 加成档位
// @Router /api/v1/boosts [get]
func (h *GameHandler) Boosts(c *gin.Context) {
	respondOK(c, h.game.Engine().Boosts().All())
}

// Moves 招式表和期望回报
// @Router /api/v1/moves [get]
func (h *GameHandler) Moves(c *gin.Context) {
	catalog := h.game.Engine().Catalog()
	respondOK(c, gin.H{
		"moves":           catalog.Entries(),
		"expected_payout": catalog.ExpectedPayout(),
		"win_probability": catalog.WinProbability(),
	})
}

// GlobalStats 排行榜
// @Router /api/v1/stats [get]
func (h *GameHandler) GlobalStats(c *gin.Context) {
	stats, err := h.stats.Global(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, stats)
}
