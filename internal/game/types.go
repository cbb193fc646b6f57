package game

import (
	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/models"
)

// SpinOutcome 旋转响应
type SpinOutcome struct {
	RoundID string          `json:"round_id"`
	Player  *models.Player  `json:"player"`
	Battle  *models.Battle  `json:"battle"`
	Bet     slot.Bet        `json:"bet"`
	Cost    int64           `json:"cost"`
	Result  *slot.BetResult `json:"result"`
	Effect  SpinEffect      `json:"effect"`
}

// ReplayOutcome 回放响应
type ReplayOutcome struct {
	Record *models.SpinRecord `json:"record"`
	Result *slot.BetResult    `json:"result"`
}

// StatusInfo 玩家游戏状态
type StatusInfo struct {
	Status      GameStatus         `json:"status"`
	Tronium     int64              `json:"tronium"`
	CheapestBet int64              `json:"cheapest_bet"`
	Boosts      []slot.BoostChoice `json:"boosts"`
}

// SpinRequest 旋转请求
type SpinRequest struct {
	Boost string `json:"boost" binding:"required"`
	Lines int    `json:"lines" binding:"required,min=1,max=3"`
}

// DepositRequest 充值请求
type DepositRequest struct {
	Amount int64 `json:"amount" binding:"required,min=1"`
}

// Event types pushed to websocket clients
const (
	EventSpinResult     = "spin_result"
	EventBattleFinished = "battle_finished"
	EventBalance        = "balance_changed"
)

// SpinEvent spin_result 推送内容
type SpinEvent struct {
	RoundID  string          `json:"round_id"`
	Battle   *models.Battle  `json:"battle"`
	Tronium  int64           `json:"tronium"`
	Result   *slot.BetResult `json:"result"`
	Finished bool            `json:"finished"`
}

// BattleFinishedEvent battle_finished 推送内容
type BattleFinishedEvent struct {
	BattleID   uint   `json:"battle_id"`
	PlayerName string `json:"player_name"`
	Epicness   int64  `json:"epicness"`
	Tronium    int64  `json:"tronium"`
	Seconds    int64  `json:"seconds"`
	Spins      int    `json:"spins"`
}

// BalanceEvent balance_changed 推送内容
type BalanceEvent struct {
	Tronium int64  `json:"tronium"`
	Reason  string `json:"reason"`
}
