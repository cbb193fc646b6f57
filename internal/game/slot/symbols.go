package slot

import (
	"fmt"
	"sync"
)

// SymbolKind 符号种类
type SymbolKind int

const (
	KindAttack          SymbolKind = iota // 攻击符号 (A-D)
	KindScatter                           // 分散符号
	KindTrash                             // 填充符号
	KindNegativeScatter                   // 负分散符号（敌人闪避）
	KindJoker                             // 小丑
)

// String 种类名称
func (k SymbolKind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindScatter:
		return "scatter"
	case KindTrash:
		return "trash"
	case KindNegativeScatter:
		return "negative_scatter"
	case KindJoker:
		return "joker"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Symbol 卷轴符号
// ID 同时是表现层的精灵/音效键，对引擎不透明
type Symbol struct {
	ID         string     `json:"id"`
	Kind       SymbolKind `json:"kind"`
	CanAnimate bool       `json:"can_animate"`
	Index      int        `json:"-"`
}

// String 返回符号ID
func (s Symbol) String() string {
	return s.ID
}

// Active 生成激活格子
func (s Symbol) Active() Cell {
	return Cell{Symbol: s, Active: true}
}

// Still 生成静止格子
func (s Symbol) Still() Cell {
	return Cell{Symbol: s, Active: false}
}

// 标准符号
var (
	SymbolPunch     = Symbol{ID: "punch", Kind: KindAttack, CanAnimate: true}     // A
	SymbolSword     = Symbol{ID: "sword", Kind: KindAttack, CanAnimate: true}     // B
	SymbolBoomerang = Symbol{ID: "boomerang", Kind: KindAttack, CanAnimate: true} // C
	SymbolTronium   = Symbol{ID: "tronium", Kind: KindAttack, CanAnimate: true}   // D

	SymbolTrashA = Symbol{ID: "tA", Kind: KindTrash}
	SymbolTrashB = Symbol{ID: "tB", Kind: KindTrash}
	SymbolTrashC = Symbol{ID: "tC", Kind: KindTrash}
	SymbolTrashD = Symbol{ID: "tD", Kind: KindTrash}
	SymbolTrashE = Symbol{ID: "tE", Kind: KindTrash}

	SymbolNegScatter = Symbol{ID: "scatterneg", Kind: KindNegativeScatter, CanAnimate: true}
	SymbolScatter    = Symbol{ID: "scatter", Kind: KindScatter, CanAnimate: true}
	SymbolJoker      = Symbol{ID: "joker", Kind: KindJoker, CanAnimate: true}
)

// SymbolRegistry 符号注册表，构建后只读
type SymbolRegistry struct {
	all    []Symbol
	byKind map[SymbolKind][]Symbol
	byID   map[string]Symbol
}

// NewSymbolRegistry 按给定顺序注册符号
func NewSymbolRegistry(symbols ...Symbol) (*SymbolRegistry, error) {
	if len(symbols) == 0 {
		return nil, ErrEmptyRegistry
	}

	r := &SymbolRegistry{
		all:    make([]Symbol, 0, len(symbols)),
		byKind: make(map[SymbolKind][]Symbol),
		byID:   make(map[string]Symbol, len(symbols)),
	}

	for _, s := range symbols {
		if s.ID == "" {
			return nil, fmt.Errorf("%w: empty symbol id", ErrInvalidSymbol)
		}
		if _, exists := r.byID[s.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate symbol id %q", ErrInvalidSymbol, s.ID)
		}
		s.Index = len(r.all)
		r.all = append(r.all, s)
		r.byKind[s.Kind] = append(r.byKind[s.Kind], s)
		r.byID[s.ID] = s
	}

	return r, nil
}

var (
	defaultSymbols     *SymbolRegistry
	defaultSymbolsOnce sync.Once
)

// DefaultSymbols 标准符号表（进程内只构建一次）
func DefaultSymbols() *SymbolRegistry {
	defaultSymbolsOnce.Do(func() {
		r, err := NewSymbolRegistry(
			SymbolPunch, SymbolSword, SymbolBoomerang, SymbolTronium,
			SymbolTrashA, SymbolTrashB, SymbolTrashC, SymbolTrashD, SymbolTrashE,
			SymbolNegScatter, SymbolScatter, SymbolJoker,
		)
		if err != nil {
			panic(err)
		}
		defaultSymbols = r
	})
	return defaultSymbols
}

// All 返回全部符号（副本）
func (r *SymbolRegistry) All() []Symbol {
	out := make([]Symbol, len(r.all))
	copy(out, r.all)
	return out
}

// OfKind 返回某一种类的符号（副本）
func (r *SymbolRegistry) OfKind(kind SymbolKind) []Symbol {
	list := r.byKind[kind]
	out := make([]Symbol, len(list))
	copy(out, list)
	return out
}

// Get 按ID查找
func (r *SymbolRegistry) Get(id string) (Symbol, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// MustGet 按ID查找，不存在时panic
func (r *SymbolRegistry) MustGet(id string) Symbol {
	s, ok := r.byID[id]
	if !ok {
		panic(fmt.Sprintf("slot: unknown symbol %q", id))
	}
	return s
}

// Random 随机任意符号
func (r *SymbolRegistry) Random(src RandomSource) Symbol {
	return r.all[pickIndex(src, len(r.all))]
}

// RandomOfKind 随机某种类的符号
func (r *SymbolRegistry) RandomOfKind(src RandomSource, kind SymbolKind) Symbol {
	list := r.byKind[kind]
	if len(list) == 0 {
		panic(fmt.Sprintf("slot: no symbols of kind %s", kind))
	}
	return list[pickIndex(src, len(list))]
}
