package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoostLadder(t *testing.T) {
	ladder, err := NewBoostLadder(DefaultBoosts())
	require.NoError(t, err)

	assert.Equal(t, "Normal", ladder.Default().Label)
	assert.Equal(t, int64(10), ladder.Cheapest())

	b, err := ladder.ByLabel("epic")
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.Cost)
	assert.Equal(t, 1.5, b.Multiplier)

	b, err = ladder.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Strong", b.Label)

	_, err = ladder.Get(4)
	assert.ErrorIs(t, err, ErrInvalidBoost)
	_, err = ladder.ByLabel("legendary")
	assert.ErrorIs(t, err, ErrInvalidBoost)

	// 返回副本
	all := ladder.All()
	all[0].Cost = 1
	assert.Equal(t, int64(10), ladder.Default().Cost)
}

func TestBoostLadderValidation(t *testing.T) {
	tests := []struct {
		name    string
		choices []BoostChoice
	}{
		{"empty", nil},
		{"no label", []BoostChoice{{Cost: 10, Multiplier: 1}}},
		{"zero cost", []BoostChoice{{Label: "A", Cost: 0, Multiplier: 1}}},
		{"zero multiplier", []BoostChoice{{Label: "A", Cost: 10}}},
		{"duplicate", []BoostChoice{{Label: "A", Cost: 10, Multiplier: 1}, {Label: "a", Cost: 20, Multiplier: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoostLadder(tt.choices)
			assert.ErrorIs(t, err, ErrInvalidBoost)
		})
	}
}

func TestLineChoice(t *testing.T) {
	assert.Equal(t, "Front", LineFront.Label())
	assert.Equal(t, "Flanks", LineFlanks.Label())
	assert.Equal(t, "All", LineAll.Label())
	assert.Equal(t, []int{0, 2}, LineFlanks.Rows())
	assert.Nil(t, LineChoice(5).Rows())

	bet := Bet{Boost: BoostChoice{Label: "Max", Cost: 50, Multiplier: 1.3}, Lines: LineAll}
	assert.Equal(t, int64(150), bet.Cost())
	assert.NoError(t, bet.Validate())

	bet.Lines = 0
	assert.ErrorIs(t, bet.Validate(), ErrIllegalLines)
}

func TestEngineNewBet(t *testing.T) {
	e := NewDefaultEngine()

	bet, err := e.NewBet("strong", 2)
	require.NoError(t, err)
	assert.Equal(t, "Strong", bet.Boost.Label)
	assert.Equal(t, LineFlanks, bet.Lines)

	_, err = e.NewBet("nope", 1)
	assert.ErrorIs(t, err, ErrInvalidBoost)

	_, err = e.NewBet("Normal", 4)
	assert.ErrorIs(t, err, ErrIllegalLines)
}

func TestEngineSpinIsReproducible(t *testing.T) {
	e := NewDefaultEngine()
	bet, err := e.NewBet("Normal", 3)
	require.NoError(t, err)

	for seed := uint64(1); seed <= 20; seed++ {
		a, err := e.SpinWith(bet, NewSeededSource(seed))
		require.NoError(t, err)
		b, err := e.SpinWith(bet, NewSeededSource(seed))
		require.NoError(t, err)

		assert.Len(t, a.Draws, 3)
		assert.Equal(t, a.Draws, b.Draws)
		assert.Equal(t, a.Result.Reels, b.Result.Reels)
		assert.Equal(t, a.Result.Winnings, b.Result.Winnings)
		assert.Equal(t, a.Result.MoveIDs(), b.Result.MoveIDs())
	}
}

func TestEngineReplay(t *testing.T) {
	e, err := NewEngine(DefaultCatalog(), mustLadder(t), NewSeededSource(99))
	require.NoError(t, err)
	bet, err := e.NewBet("Epic", 2)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		out, err := e.Spin(bet)
		require.NoError(t, err)

		replayed, err := e.Replay(bet, out.Draws)
		require.NoError(t, err)
		assert.Equal(t, out.Result.Winnings, replayed.Result.Winnings)
		assert.Equal(t, out.Result.RowWinStatus, replayed.Result.RowWinStatus)
		assert.Equal(t, out.Result.MoveIDs(), replayed.Result.MoveIDs())
		assert.Equal(t, out.Result.FeaturedMove.ID, replayed.Result.FeaturedMove.ID)
	}

	_, err = e.Replay(bet, []float64{0.5})
	assert.ErrorIs(t, err, ErrMoveCountMismatch)
	_, err = e.Replay(bet, []float64{0.5, 1.5})
	assert.ErrorIs(t, err, ErrNoMoveForDraw)
}

func TestNewEngineRequiresCatalogAndLadder(t *testing.T) {
	_, err := NewEngine(nil, mustLadder(t), nil)
	assert.ErrorIs(t, err, ErrInvalidMove)
	_, err = NewEngine(DefaultCatalog(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidBoost)

	e, err := NewEngine(DefaultCatalog(), mustLadder(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, e.source)
}

func mustLadder(t *testing.T) *BoostLadder {
	t.Helper()
	ladder, err := NewBoostLadder(DefaultBoosts())
	require.NoError(t, err)
	return ladder
}
