package game

import (
	"fmt"
	"time"

	"github.com/wfunc/battle-slot/internal/game/slot"
	"github.com/wfunc/battle-slot/internal/models"
)

// GameStatus 玩家能否继续游戏
type GameStatus string

const (
	StatusReady            GameStatus = "READY"
	StatusNotEnoughBalance GameStatus = "NOT_ENOUGH_BALANCE"
)

// battleTransitions 允许的战斗状态转换
var battleTransitions = map[models.BattleStatus][]models.BattleStatus{
	models.BattleReady:   {models.BattleOngoing, models.BattleFinished},
	models.BattleOngoing: {models.BattleOngoing, models.BattleFinished},
}

// canTransition 检查状态转换是否合法
func canTransition(from, to models.BattleStatus) bool {
	for _, s := range battleTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NewBattle 创建满血的新战斗
func NewBattle(playerID uint, maxHP int64, now time.Time) *models.Battle {
	return &models.Battle{
		PlayerID:     playerID,
		Status:       models.BattleReady,
		VillainHP:    maxHP,
		VillainMaxHP: maxHP,
		StartedAt:    now,
	}
}

// SpinEffect 一次旋转对玩家和战斗的影响
type SpinEffect struct {
	Net      int64 `json:"net"`
	Damage   int64 `json:"damage"`
	Epicness int64 `json:"epicness"`
	Finished bool  `json:"finished"`
}

// ApplySpin 把旋转结果结算到玩家和战斗上
func ApplySpin(player *models.Player, battle *models.Battle, bet slot.Bet, w slot.Winnings, now time.Time) (SpinEffect, error) {
	if battle.PlayerID != player.ID {
		return SpinEffect{}, fmt.Errorf("战斗 %d 不属于玩家 %d", battle.ID, player.ID)
	}

	next := models.BattleOngoing
	hp := battle.VillainHP - w.Damage
	if hp <= 0 {
		hp = 0
		next = models.BattleFinished
	}
	if !canTransition(battle.Status, next) {
		return SpinEffect{}, fmt.Errorf("战斗状态不能从 %s 变为 %s", battle.Status, next)
	}

	net := w.Payout - bet.Cost()

	player.Tronium += net
	player.Fame += w.Epicness
	player.TotalSpins++
	player.LastSpinAt = &now

	battle.Tronium += net
	battle.Epicness += w.Epicness
	battle.VillainHP = hp
	battle.Spins++
	battle.Status = next

	effect := SpinEffect{Net: net, Damage: w.Damage, Epicness: w.Epicness}
	if next == models.BattleFinished {
		finished := now
		battle.FinishedAt = &finished
		player.VillainsDefeated++
		effect.Finished = true
	}
	return effect, nil
}

// StatusFor 余额不足最便宜的一注时不能继续
func StatusFor(player *models.Player, ladder *slot.BoostLadder) GameStatus {
	if player.Tronium < ladder.Cheapest() {
		return StatusNotEnoughBalance
	}
	return StatusReady
}
