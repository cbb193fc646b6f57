package slot

import (
	"fmt"
)

// Reels 5列×3行，按列排列（表现层逐列播放动画）
type Reels [ReelColumns][ReelRows]Cell

// BetResult 一次旋转的结果
type BetResult struct {
	Winnings     Winnings       `json:"winnings"`
	Reels        Reels          `json:"reels"`
	RowWinStatus [ReelRows]bool `json:"row_win_status"`
	FeaturedMove *Move          `json:"featured_move"`
	Moves        []*Move        `json:"moves"`
}

// HasWin 是否有任意一行中奖
func (r *BetResult) HasWin() bool {
	for _, w := range r.RowWinStatus {
		if w {
			return true
		}
	}
	return false
}

// MoveIDs 下注行结果ID
func (r *BetResult) MoveIDs() []string {
	ids := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		ids[i] = m.ID
	}
	return ids
}

// ToBetResult 把各线结果组装成卷轴结果
// 未下注的行用随机结果的静止布局填充，不参与结算
func (c *Catalog) ToBetResult(bet Bet, moves []*Move, src RandomSource) (*BetResult, error) {
	if err := bet.Lines.Validate(); err != nil {
		return nil, err
	}
	if len(moves) != bet.Lines.Count() {
		return nil, fmt.Errorf("%w: %d lines, %d moves", ErrMoveCountMismatch, bet.Lines.Count(), len(moves))
	}
	for i, m := range moves {
		if m == nil {
			return nil, fmt.Errorf("%w: line %d has no move", ErrInvalidMove, i)
		}
	}

	winnings, err := WinningsFor(bet, moves)
	if err != nil {
		return nil, err
	}

	built := make([]Row, len(moves))
	for i, m := range moves {
		built[i] = m.Build(src)
	}

	filler := func() (Row, error) {
		m, err := c.Draw(src)
		if err != nil {
			return Row{}, err
		}
		return m.BuildStill(src), nil
	}

	var (
		rows   [ReelRows]Row
		status [ReelRows]bool
	)
	switch bet.Lines {
	case LineFront:
		top, err := filler()
		if err != nil {
			return nil, err
		}
		rows[0], rows[1] = top, built[0]
		if rows[2], err = filler(); err != nil {
			return nil, err
		}
		status = [ReelRows]bool{false, moves[0].IsWin(), false}
	case LineFlanks:
		middle, err := filler()
		if err != nil {
			return nil, err
		}
		rows = [ReelRows]Row{built[0], middle, built[1]}
		status = [ReelRows]bool{moves[0].IsWin(), false, moves[1].IsWin()}
	case LineAll:
		rows = [ReelRows]Row{built[0], built[1], built[2]}
		status = [ReelRows]bool{moves[0].IsWin(), moves[1].IsWin(), moves[2].IsWin()}
	}

	out := make([]*Move, len(moves))
	copy(out, moves)

	return &BetResult{
		Winnings:     winnings,
		Reels:        transpose(rows),
		RowWinStatus: status,
		FeaturedMove: FeaturedMove(moves),
		Moves:        out,
	}, nil
}

// FeaturedMove 选出驱动中奖提示/音效的结果
// 有中奖时取赔付最高者，否则取史诗度最高者；相同时取靠前的
func FeaturedMove(moves []*Move) *Move {
	var best *Move
	for _, m := range moves {
		if !m.IsWin() {
			continue
		}
		if best == nil || m.Payout > best.Payout {
			best = m
		}
	}
	if best != nil {
		return best
	}

	for _, m := range moves {
		if best == nil || m.Epicness > best.Epicness {
			best = m
		}
	}
	return best
}

func transpose(rows [ReelRows]Row) Reels {
	var reels Reels
	for r := 0; r < ReelRows; r++ {
		for col := 0; col < ReelColumns; col++ {
			reels[col][r] = rows[r][col]
		}
	}
	return reels
}
