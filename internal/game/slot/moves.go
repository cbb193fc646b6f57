package slot

import (
	"fmt"
	"math"
	"sync"
)

// probabilityEpsilon 概率总和允许的误差
const probabilityEpsilon = 1e-4

// SoundID 结果对应的音效
type SoundID string

const (
	SoundScatter   SoundID = "scatter"
	SoundPunch     SoundID = "punch"
	SoundSword     SoundID = "sword"
	SoundBoomerang SoundID = "boomerang"
	SoundTronium   SoundID = "tronium"
	SoundBlock     SoundID = "block"
	SoundTrash     SoundID = "trash"
)

// MoveSpec 结果表中的一行
type MoveSpec struct {
	ID          string
	Probability float64
	Payout      float64
	Damage      float64
	Epicness    float64
	Layout      Layout
	Sound       SoundID
	WinMessage  string
}

// Move 带权重的单行结果
type Move struct {
	ID          string  `json:"id"`
	Probability float64 `json:"probability"`
	Payout      float64 `json:"payout"`
	Damage      float64 `json:"damage"`
	Epicness    float64 `json:"epicness"`
	Sound       SoundID `json:"sound"`
	WinMessage  string  `json:"win_message,omitempty"`

	layout  Layout
	symbols *SymbolRegistry
}

// IsWin 是否中奖
func (m *Move) IsWin() bool {
	return m.Damage+m.Payout > 0
}

// Build 生成这一结果的行布局
func (m *Move) Build(src RandomSource) Row {
	return m.layout(src, m.symbols)
}

// BuildStill 生成行布局，所有格子强制静止
func (m *Move) BuildStill(src RandomSource) Row {
	return m.Build(src).Still()
}

// Winnings 未缩放的收益
func (m *Move) Winnings() RawWinnings {
	return RawWinnings{
		Payout:   m.Payout,
		Damage:   m.Damage,
		Epicness: m.Epicness,
	}
}

// String 返回结果ID
func (m *Move) String() string {
	return m.ID
}

// CatalogEntry 累积概率表中的一项
type CatalogEntry struct {
	CumulativeMax float64 `json:"cumulative_max"`
	Move          *Move   `json:"move"`
}

// Catalog 结果表，Create 只能调用一次，失败后也不能重试
type Catalog struct {
	mu      sync.Mutex
	symbols *SymbolRegistry
	entries []CatalogEntry
	byID    map[string]*Move
	created bool
}

// NewCatalog 创建并校验结果表
func NewCatalog(symbols *SymbolRegistry, rows []MoveSpec) (*Catalog, error) {
	c := &Catalog{symbols: symbols}
	if err := c.Create(rows); err != nil {
		return nil, err
	}
	return c, nil
}

// Create 按表顺序构建累积概率表，只能调用一次
func (c *Catalog) Create(rows []MoveSpec) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.created {
		return ErrCatalogAlreadyCreated
	}
	c.created = true

	if len(rows) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidMove)
	}
	if c.symbols == nil {
		c.symbols = DefaultSymbols()
	}

	entries := make([]CatalogEntry, 0, len(rows))
	byID := make(map[string]*Move, len(rows))
	cumulative := 0.0
	for _, row := range rows {
		if err := validateSpec(row); err != nil {
			return err
		}
		if _, exists := byID[row.ID]; exists {
			return fmt.Errorf("%w: duplicate move id %q", ErrInvalidMove, row.ID)
		}

		move := &Move{
			ID:          row.ID,
			Probability: row.Probability,
			Payout:      row.Payout,
			Damage:      row.Damage,
			Epicness:    row.Epicness,
			Sound:       row.Sound,
			WinMessage:  row.WinMessage,
			layout:      row.Layout,
			symbols:     c.symbols,
		}
		cumulative += row.Probability
		entries = append(entries, CatalogEntry{CumulativeMax: cumulative, Move: move})
		byID[move.ID] = move
	}

	last := entries[len(entries)-1].CumulativeMax
	if math.Abs(last-1) > probabilityEpsilon {
		return fmt.Errorf("%w: they sum %v", ErrBadProbabilitySum, last)
	}
	entries[len(entries)-1].CumulativeMax = 1

	c.entries = entries
	c.byID = byID
	return nil
}

func validateSpec(row MoveSpec) error {
	switch {
	case row.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidMove)
	case row.Probability <= 0 || row.Probability >= 1:
		return fmt.Errorf("%w: %s probability %v not in (0,1)", ErrInvalidMove, row.ID, row.Probability)
	case row.Payout < 0 || row.Damage < 0 || row.Epicness < 0:
		return fmt.Errorf("%w: %s has negative multiplier", ErrInvalidMove, row.ID)
	case row.Layout == nil:
		return fmt.Errorf("%w: %s has no layout", ErrInvalidMove, row.ID)
	}
	return nil
}

// Resolve 把 [0,1) 的抽取值映射到结果：第一个 CumulativeMax > draw 的项
func (c *Catalog) Resolve(draw float64) (*Move, error) {
	for i := range c.entries {
		if c.entries[i].CumulativeMax > draw {
			return c.entries[i].Move, nil
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrNoMoveForDraw, draw)
}

// Draw 抽取一个随机数并立即映射
func (c *Catalog) Draw(src RandomSource) (*Move, error) {
	return c.Resolve(src.Float64())
}

// DrawN 为n条线独立抽取，返回抽取值与结果
func (c *Catalog) DrawN(src RandomSource, n int) ([]float64, []*Move, error) {
	draws := make([]float64, n)
	moves := make([]*Move, n)
	for i := 0; i < n; i++ {
		draws[i] = src.Float64()
		m, err := c.Resolve(draws[i])
		if err != nil {
			return nil, nil, err
		}
		moves[i] = m
	}
	return draws, moves, nil
}

// ResolveAll 按记录的抽取值重新映射
func (c *Catalog) ResolveAll(draws []float64) ([]*Move, error) {
	moves := make([]*Move, len(draws))
	for i, d := range draws {
		m, err := c.Resolve(d)
		if err != nil {
			return nil, err
		}
		moves[i] = m
	}
	return moves, nil
}

// Entries 累积概率表（副本）
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Moves 全部结果，按表顺序
func (c *Catalog) Moves() []*Move {
	out := make([]*Move, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Move
	}
	return out
}

// Get 按ID查找结果
func (c *Catalog) Get(id string) (*Move, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// Symbols 结果表使用的符号注册表
func (c *Catalog) Symbols() *SymbolRegistry {
	return c.symbols
}

// ExpectedPayout 单线理论赔付倍数 Σ p·payout
func (c *Catalog) ExpectedPayout() float64 {
	sum := 0.0
	for _, e := range c.entries {
		sum += e.Move.Probability * e.Move.Payout
	}
	return sum
}

// WinProbability 单线中奖概率
func (c *Catalog) WinProbability() float64 {
	sum := 0.0
	for _, e := range c.entries {
		if e.Move.IsWin() {
			sum += e.Move.Probability
		}
	}
	return sum
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog 标准结果表，进程内只构建一次
// 表数据有误属于程序缺陷，直接panic
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		symbols := DefaultSymbols()
		c, err := NewCatalog(symbols, StandardMoves(symbols))
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
