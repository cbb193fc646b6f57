package slot

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RawWinnings 未缩放、未取整的收益
type RawWinnings struct {
	Payout   float64 `json:"payout"`
	Damage   float64 `json:"damage"`
	Epicness float64 `json:"epicness"`
}

// Winnings 一次旋转的最终收益（已取整）
type Winnings struct {
	Payout   int64 `json:"payout"`
	Damage   int64 `json:"damage"`
	Epicness int64 `json:"epicness"`
}

// IsZero 是否没有任何收益
func (w Winnings) IsZero() bool {
	return w.Payout == 0 && w.Damage == 0 && w.Epicness == 0
}

// WinningsFor 汇总各线结果并按下注缩放
//
//	payout   = round(Σpayout   × 档位花费 × 线数)
//	damage   = round(Σdamage   × 档位倍数)
//	epicness = round(Σepicness × 档位倍数)
//
// 取整为四舍五入（半数向上）
func WinningsFor(bet Bet, moves []*Move) (Winnings, error) {
	if err := bet.Lines.Validate(); err != nil {
		return Winnings{}, err
	}

	payout, damage, epicness := decimal.Zero, decimal.Zero, decimal.Zero
	for i, m := range moves {
		if m == nil {
			return Winnings{}, fmt.Errorf("%w: line %d has no move", ErrInvalidMove, i)
		}
		payout = payout.Add(decimal.NewFromFloat(m.Payout))
		damage = damage.Add(decimal.NewFromFloat(m.Damage))
		epicness = epicness.Add(decimal.NewFromFloat(m.Epicness))
	}

	stake := decimal.NewFromInt(bet.Boost.Cost).Mul(decimal.NewFromInt(int64(bet.Lines)))
	multiplier := decimal.NewFromFloat(bet.Boost.Multiplier)

	return Winnings{
		Payout:   payout.Mul(stake).Round(0).IntPart(),
		Damage:   damage.Mul(multiplier).Round(0).IntPart(),
		Epicness: epicness.Mul(multiplier).Round(0).IntPart(),
	}, nil
}
