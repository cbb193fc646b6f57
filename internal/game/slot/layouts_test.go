package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countKinds(r Row) map[SymbolKind]int {
	counts := make(map[SymbolKind]int)
	for _, c := range r {
		counts[c.Symbol.Kind]++
	}
	return counts
}

func countIDs(r Row) map[string]int {
	counts := make(map[string]int)
	for _, c := range r {
		counts[c.Symbol.ID]++
	}
	return counts
}

func activeCount(r Row) int {
	n := 0
	for _, c := range r {
		if c.Active {
			n++
		}
	}
	return n
}

func TestFullKindUsesNoDraws(t *testing.T) {
	src := NewScriptedSource()
	row := FullKind(SymbolTronium)(src, DefaultSymbols())

	for _, c := range row {
		assert.Equal(t, "tronium", c.Symbol.ID)
		assert.True(t, c.Active)
	}
	assert.Equal(t, 0, src.Consumed())
}

func TestFourAttackNegScatterFixedOrder(t *testing.T) {
	src := NewScriptedSource(0.99)
	row := FourAttackNegScatter(src, DefaultSymbols())

	assert.Equal(t, []string{"tronium", "tronium", "tronium", "tronium", "scatterneg"}, row.SymbolIDs())
	for i := 0; i < 4; i++ {
		assert.False(t, row[i].Active)
	}
	assert.True(t, row[4].Active)
	assert.Equal(t, 1, src.Consumed())
}

func TestThreeAttackNegScatterLastCell(t *testing.T) {
	// 攻击, 填充, 然后4个元素洗牌（3次抽取）
	src := NewScriptedSource(0, 0, 0.99, 0.99, 0.99)
	row := ThreeAttackNegScatter(src, DefaultSymbols())

	assert.Equal(t, []string{"punch", "punch", "punch", "tA", "scatterneg"}, row.SymbolIDs())
	assert.Equal(t, 1, activeCount(row))
	assert.True(t, row[4].Active)
	assert.Equal(t, 5, src.Consumed())
}

func TestLayoutFamilies(t *testing.T) {
	symbols := DefaultSymbols()
	src := NewSeededSource(7)

	tests := []struct {
		name   string
		layout Layout
		check  func(t *testing.T, r Row)
	}{
		{"FourOfKind", FourOfKind(SymbolSword), func(t *testing.T, r Row) {
			ids := countIDs(r)
			assert.Equal(t, 4, ids["sword"])
			assert.Equal(t, 1, countKinds(r)[KindTrash])
			assert.Equal(t, 4, activeCount(r))
		}},
		{"ThreeOfKind", ThreeOfKind(SymbolBoomerang), func(t *testing.T, r Row) {
			assert.Equal(t, 3, countIDs(r)["boomerang"])
			assert.Equal(t, 2, countKinds(r)[KindTrash])
			assert.Equal(t, 3, activeCount(r))
		}},
		{"ThreeAndTwo", ThreeAndTwo(SymbolPunch, SymbolTronium), func(t *testing.T, r Row) {
			ids := countIDs(r)
			assert.Equal(t, 3, ids["punch"])
			assert.Equal(t, 2, ids["tronium"])
			assert.Equal(t, 5, activeCount(r))
		}},
		{"ScatterRow", ScatterRow, func(t *testing.T, r Row) {
			kinds := countKinds(r)
			assert.Equal(t, 1, kinds[KindScatter])
			assert.Equal(t, 2, kinds[KindAttack])
			assert.Equal(t, 2, kinds[KindTrash])
			assert.Equal(t, 1, activeCount(r))
			var attacks []string
			for _, c := range r {
				if c.Symbol.Kind == KindAttack {
					attacks = append(attacks, c.Symbol.ID)
				}
				if c.Symbol.Kind == KindScatter {
					assert.True(t, c.Active)
				}
			}
			assert.NotEqual(t, attacks[0], attacks[1])
		}},
		{"TwoAttackThreeTrash", TwoAttackThreeTrash, func(t *testing.T, r Row) {
			kinds := countKinds(r)
			assert.Equal(t, 2, kinds[KindAttack])
			assert.Equal(t, 3, kinds[KindTrash])
			assert.Equal(t, 0, activeCount(r))
		}},
		{"OneAttackFourTrash", OneAttackFourTrash, func(t *testing.T, r Row) {
			kinds := countKinds(r)
			assert.Equal(t, 1, kinds[KindAttack])
			assert.Equal(t, 4, kinds[KindTrash])
			assert.Equal(t, 0, activeCount(r))
		}},
		{"PairSingleTwoTrash", PairSingleTwoTrash, func(t *testing.T, r Row) {
			assert.Equal(t, 2, countKinds(r)[KindTrash])
			var pattern []int
			for id, n := range countIDs(r) {
				if s, _ := symbols.Get(id); s.Kind == KindAttack {
					pattern = append(pattern, n)
				}
			}
			assert.ElementsMatch(t, []int{2, 1}, pattern)
			assert.Equal(t, 0, activeCount(r))
		}},
		{"TwoPairsOneTrash", TwoPairsOneTrash, func(t *testing.T, r Row) {
			assert.Equal(t, 1, countKinds(r)[KindTrash])
			var pattern []int
			for id, n := range countIDs(r) {
				if s, _ := symbols.Get(id); s.Kind == KindAttack {
					pattern = append(pattern, n)
				}
			}
			assert.ElementsMatch(t, []int{2, 2}, pattern)
			assert.Equal(t, 0, activeCount(r))
		}},
		{"AllTrash", AllTrash, func(t *testing.T, r Row) {
			assert.Equal(t, 5, countKinds(r)[KindTrash])
			assert.Equal(t, 0, activeCount(r))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 200; i++ {
				tt.check(t, tt.layout(src, symbols))
			}
		})
	}
}

func TestEveryStandardMoveBuildsFullRow(t *testing.T) {
	c := DefaultCatalog()
	src := NewSeededSource(11)

	for _, m := range c.Moves() {
		for i := 0; i < 50; i++ {
			row := m.Build(src)
			for col, cell := range row {
				require.NotEmpty(t, cell.Symbol.ID, "%s col %d", m.ID, col)
			}
			if !m.IsWin() {
				continue
			}
			assert.Positive(t, activeCount(row), "%s should highlight cells", m.ID)
		}

		still := m.BuildStill(src)
		assert.Equal(t, 0, activeCount(still), m.ID)
	}
}
