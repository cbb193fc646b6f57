package slot

import (
	"fmt"
	"strings"
)

// BoostChoice 加成档位：决定每条线的花费以及伤害/史诗度倍数
type BoostChoice struct {
	Label      string  `json:"label" mapstructure:"label"`
	Cost       int64   `json:"cost" mapstructure:"cost"`
	Multiplier float64 `json:"multiplier" mapstructure:"multiplier"`
}

// DefaultBoosts 默认加成档位
func DefaultBoosts() []BoostChoice {
	return []BoostChoice{
		{Label: "Normal", Cost: 10, Multiplier: 1.0},
		{Label: "Strong", Cost: 30, Multiplier: 1.15},
		{Label: "Max", Cost: 50, Multiplier: 1.3},
		{Label: "Epic", Cost: 100, Multiplier: 1.5},
	}
}

// BoostLadder 加成档位表
type BoostLadder struct {
	choices []BoostChoice
}

// NewBoostLadder 校验并创建档位表
func NewBoostLadder(choices []BoostChoice) (*BoostLadder, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("%w: empty ladder", ErrInvalidBoost)
	}
	seen := make(map[string]bool, len(choices))
	for _, c := range choices {
		key := strings.ToLower(c.Label)
		switch {
		case c.Label == "":
			return nil, fmt.Errorf("%w: empty label", ErrInvalidBoost)
		case seen[key]:
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidBoost, c.Label)
		case c.Cost <= 0:
			return nil, fmt.Errorf("%w: %s cost %d", ErrInvalidBoost, c.Label, c.Cost)
		case c.Multiplier <= 0:
			return nil, fmt.Errorf("%w: %s multiplier %v", ErrInvalidBoost, c.Label, c.Multiplier)
		}
		seen[key] = true
	}

	out := make([]BoostChoice, len(choices))
	copy(out, choices)
	return &BoostLadder{choices: out}, nil
}

// All 全部档位（副本）
func (l *BoostLadder) All() []BoostChoice {
	out := make([]BoostChoice, len(l.choices))
	copy(out, l.choices)
	return out
}

// Default 第一档
func (l *BoostLadder) Default() BoostChoice {
	return l.choices[0]
}

// Get 按序号获取
func (l *BoostLadder) Get(index int) (BoostChoice, error) {
	if index < 0 || index >= len(l.choices) {
		return BoostChoice{}, fmt.Errorf("%w: index %d", ErrInvalidBoost, index)
	}
	return l.choices[index], nil
}

// ByLabel 按名称获取（不区分大小写）
func (l *BoostLadder) ByLabel(label string) (BoostChoice, error) {
	for _, c := range l.choices {
		if strings.EqualFold(c.Label, label) {
			return c, nil
		}
	}
	return BoostChoice{}, fmt.Errorf("%w: unknown boost %q", ErrInvalidBoost, label)
}

// Cheapest 最便宜的档位花费
func (l *BoostLadder) Cheapest() int64 {
	min := l.choices[0].Cost
	for _, c := range l.choices[1:] {
		if c.Cost < min {
			min = c.Cost
		}
	}
	return min
}

// LineChoice 下注线数
type LineChoice int

const (
	LineFront  LineChoice = 1 // 只押中间行
	LineFlanks LineChoice = 2 // 上下两行
	LineAll    LineChoice = 3 // 全部三行
)

// Validate 线数只能是1/2/3
func (l LineChoice) Validate() error {
	switch l {
	case LineFront, LineFlanks, LineAll:
		return nil
	default:
		return fmt.Errorf("%w %d", ErrIllegalLines, int(l))
	}
}

// Label 线数名称
func (l LineChoice) Label() string {
	switch l {
	case LineFront:
		return "Front"
	case LineFlanks:
		return "Flanks"
	case LineAll:
		return "All"
	default:
		return fmt.Sprintf("Lines(%d)", int(l))
	}
}

// Count 线数
func (l LineChoice) Count() int {
	return int(l)
}

// Rows 计入结算的行号
func (l LineChoice) Rows() []int {
	switch l {
	case LineFront:
		return []int{1}
	case LineFlanks:
		return []int{0, 2}
	case LineAll:
		return []int{0, 1, 2}
	default:
		return nil
	}
}

// Bet 一次旋转的下注
type Bet struct {
	Boost BoostChoice `json:"boost"`
	Lines LineChoice  `json:"lines"`
}

// Validate 校验下注
func (b Bet) Validate() error {
	if err := b.Lines.Validate(); err != nil {
		return err
	}
	if b.Boost.Cost <= 0 || b.Boost.Multiplier <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidBoost, b.Boost)
	}
	return nil
}

// Cost 总花费 = 档位花费 × 线数
func (b Bet) Cost() int64 {
	return b.Boost.Cost * int64(b.Lines)
}
