package slot

// 卷轴尺寸
const (
	ReelRows    = 3
	ReelColumns = 5
)

// Cell 卷轴上的一个格子
// Active 只表示表现层是否高亮/播放动画，与赔付无关
type Cell struct {
	Symbol Symbol `json:"symbol"`
	Active bool   `json:"active"`
}

// Row 一行5个格子
type Row [ReelColumns]Cell

// Still 返回所有格子都静止的副本
func (r Row) Still() Row {
	for i := range r {
		r[i].Active = false
	}
	return r
}

// SymbolIDs 返回行内符号ID
func (r Row) SymbolIDs() []string {
	ids := make([]string, len(r))
	for i, c := range r {
		ids[i] = c.Symbol.ID
	}
	return ids
}

// Layout 行布局生成器，每次结算都重新调用（填充符号是随机的）
type Layout func(src RandomSource, symbols *SymbolRegistry) Row

// 两种不同攻击符号的固定组合
var attackRankPairs = [][2]string{
	{"punch", "boomerang"},
	{"punch", "sword"},
	{"punch", "tronium"},
	{"boomerang", "sword"},
	{"boomerang", "tronium"},
	{"sword", "tronium"},
}

func toRow(cells []Cell) Row {
	var r Row
	copy(r[:], cells)
	return r
}

func trash(src RandomSource, symbols *SymbolRegistry) Symbol {
	return symbols.RandomOfKind(src, KindTrash)
}

func attack(src RandomSource, symbols *SymbolRegistry) Symbol {
	return symbols.RandomOfKind(src, KindAttack)
}

func stillCells(syms []Symbol) []Cell {
	cells := make([]Cell, len(syms))
	for i, s := range syms {
		cells[i] = s.Still()
	}
	return cells
}

// attackPair 从固定组合中抽取两种不同的攻击符号，并随机先后
func attackPair(src RandomSource, symbols *SymbolRegistry) (Symbol, Symbol) {
	ids := attackRankPairs[pickIndex(src, len(attackRankPairs))]
	pair := shuffle(src, []Symbol{symbols.MustGet(ids[0]), symbols.MustGet(ids[1])})
	return pair[0], pair[1]
}

// FullKind 5个相同攻击符号，全部激活
func FullKind(sym Symbol) Layout {
	return func(RandomSource, *SymbolRegistry) Row {
		c := sym.Active()
		return Row{c, c, c, c, c}
	}
}

// FourOfKind 4个相同攻击符号 + 1个填充
func FourOfKind(sym Symbol) Layout {
	return func(src RandomSource, symbols *SymbolRegistry) Row {
		return toRow(shuffle(src, []Cell{
			sym.Active(),
			sym.Active(),
			sym.Active(),
			sym.Active(),
			trash(src, symbols).Still(),
		}))
	}
}

// ThreeOfKind 3个相同攻击符号 + 2个填充
func ThreeOfKind(sym Symbol) Layout {
	return func(src RandomSource, symbols *SymbolRegistry) Row {
		return toRow(shuffle(src, []Cell{
			sym.Active(),
			sym.Active(),
			sym.Active(),
			trash(src, symbols).Still(),
			trash(src, symbols).Still(),
		}))
	}
}

// ThreeAndTwo 3个X + 2个Y，全部激活
func ThreeAndTwo(three, two Symbol) Layout {
	return func(src RandomSource, _ *SymbolRegistry) Row {
		return toRow(shuffle(src, []Cell{
			three.Active(),
			three.Active(),
			three.Active(),
			two.Active(),
			two.Active(),
		}))
	}
}

// ScatterRow 1个分散符号 + 2个不同攻击符号 + 2个填充
func ScatterRow(src RandomSource, symbols *SymbolRegistry) Row {
	attacks := symbols.OfKind(KindAttack)
	i := pickIndex(src, len(attacks))
	first := attacks[i]
	rest := append(attacks[:i:i], attacks[i+1:]...)
	second := rest[pickIndex(src, len(rest))]

	return toRow(shuffle(src, []Cell{
		symbols.MustGet(SymbolScatter.ID).Active(),
		first.Still(),
		second.Still(),
		trash(src, symbols).Still(),
		trash(src, symbols).Still(),
	}))
}

// ThreeAttackNegScatter 3个攻击 + 1个填充洗牌后，末尾固定负分散符号
func ThreeAttackNegScatter(src RandomSource, symbols *SymbolRegistry) Row {
	a := attack(src, symbols)
	cells := stillCells(shuffle(src, []Symbol{a, a, a, trash(src, symbols)}))
	return toRow(append(cells, symbols.MustGet(SymbolNegScatter.ID).Active()))
}

// FourAttackNegScatter 4个攻击（不洗牌）+ 负分散符号
func FourAttackNegScatter(src RandomSource, symbols *SymbolRegistry) Row {
	a := attack(src, symbols)
	return Row{
		a.Still(),
		a.Still(),
		a.Still(),
		a.Still(),
		symbols.MustGet(SymbolNegScatter.ID).Active(),
	}
}

// TwoAttackThreeTrash 2个攻击 + 3个填充
func TwoAttackThreeTrash(src RandomSource, symbols *SymbolRegistry) Row {
	a := attack(src, symbols)
	return toRow(stillCells(shuffle(src, []Symbol{
		a,
		a,
		trash(src, symbols),
		trash(src, symbols),
		trash(src, symbols),
	})))
}

// OneAttackFourTrash 1个攻击 + 4个填充
func OneAttackFourTrash(src RandomSource, symbols *SymbolRegistry) Row {
	return toRow(stillCells(shuffle(src, []Symbol{
		attack(src, symbols),
		trash(src, symbols),
		trash(src, symbols),
		trash(src, symbols),
		trash(src, symbols),
	})))
}

// PairSingleTwoTrash 2个A + 1个B + 2个填充（A、B不同）
func PairSingleTwoTrash(src RandomSource, symbols *SymbolRegistry) Row {
	a, b := attackPair(src, symbols)
	return toRow(stillCells(shuffle(src, []Symbol{
		a,
		a,
		b,
		trash(src, symbols),
		trash(src, symbols),
	})))
}

// TwoPairsOneTrash 2个A + 2个B + 1个填充（A、B不同）
func TwoPairsOneTrash(src RandomSource, symbols *SymbolRegistry) Row {
	a, b := attackPair(src, symbols)
	return toRow(stillCells(shuffle(src, []Symbol{
		a,
		a,
		b,
		b,
		trash(src, symbols),
	})))
}

// AllTrash 5个独立随机的填充符号
func AllTrash(src RandomSource, symbols *SymbolRegistry) Row {
	var r Row
	for i := range r {
		r[i] = trash(src, symbols).Still()
	}
	return r
}
