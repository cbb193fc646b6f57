package slot

import (
	"fmt"
	"time"
)

// SimulationResult 模拟结果
type SimulationResult struct {
	Spins         int            `json:"spins"`
	Wins          int            `json:"wins"`
	WinProb       float64        `json:"win_prob"`
	TotalCost     int64          `json:"total_cost"`
	TotalPayout   int64          `json:"total_payout"`
	TotalDamage   int64          `json:"total_damage"`
	TotalEpicness int64          `json:"total_epicness"`
	RTP           float64        `json:"rtp"`
	EndingBalance int64          `json:"ending_balance"`
	MoveCounts    map[string]int `json:"move_counts"`
	Duration      time.Duration  `json:"duration"`
}

// String 报告
func (r SimulationResult) String() string {
	return fmt.Sprintf("spins=%d wins=%d win_prob=%.4f cost=%d payout=%d rtp=%.4f balance=%d duration=%s",
		r.Spins, r.Wins, r.WinProb, r.TotalCost, r.TotalPayout, r.RTP, r.EndingBalance, r.Duration)
}

// Simulate 以固定下注连续旋转，统计返还率
// 一次旋转只要有一行中奖就计为中奖
func Simulate(engine *Engine, bet Bet, spins int, src RandomSource) (SimulationResult, error) {
	if err := bet.Validate(); err != nil {
		return SimulationResult{}, err
	}
	if spins <= 0 {
		return SimulationResult{}, fmt.Errorf("spins must be positive, got %d", spins)
	}
	if src == nil {
		src = engine.source
	}

	res := SimulationResult{
		Spins:      spins,
		MoveCounts: make(map[string]int, len(engine.catalog.entries)),
	}
	start := time.Now()
	for i := 0; i < spins; i++ {
		out, err := engine.SpinWith(bet, src)
		if err != nil {
			return SimulationResult{}, err
		}
		w := out.Result.Winnings
		res.TotalCost += bet.Cost()
		res.TotalPayout += w.Payout
		res.TotalDamage += w.Damage
		res.TotalEpicness += w.Epicness
		if out.Result.HasWin() {
			res.Wins++
		}
		for _, m := range out.Result.Moves {
			res.MoveCounts[m.ID]++
		}
	}
	res.Duration = time.Since(start)

	res.WinProb = float64(res.Wins) / float64(spins)
	res.EndingBalance = res.TotalPayout - res.TotalCost
	if res.TotalCost > 0 {
		res.RTP = float64(res.TotalPayout) / float64(res.TotalCost)
	}
	return res, nil
}
