package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoves(t *testing.T, ids ...string) []*Move {
	t.Helper()
	c := DefaultCatalog()
	moves := make([]*Move, len(ids))
	for i, id := range ids {
		m, ok := c.Get(id)
		require.True(t, ok, "unknown move %s", id)
		moves[i] = m
	}
	return moves
}

func boost(t *testing.T, label string) BoostChoice {
	t.Helper()
	ladder, err := NewBoostLadder(DefaultBoosts())
	require.NoError(t, err)
	b, err := ladder.ByLabel(label)
	require.NoError(t, err)
	return b
}

func TestWinningsFor(t *testing.T) {
	tests := []struct {
		name  string
		boost string
		lines LineChoice
		moves []string
		want  Winnings
	}{
		{
			name:  "single line tronium jackpot",
			boost: "Normal",
			lines: LineFront,
			moves: []string{"5D"},
			want:  Winnings{Payout: 500, Damage: 50, Epicness: 250},
		},
		{
			name:  "payout scales with lines",
			boost: "Epic",
			lines: LineAll,
			moves: []string{"5D", "5T", "5T"},
			want:  Winnings{Payout: 15000, Damage: 75, Epicness: 375},
		},
		{
			name:  "multiplier rounding",
			boost: "Strong",
			lines: LineFlanks,
			moves: []string{"3B2T", "3B2T"},
			want:  Winnings{Payout: 84, Damage: 16, Epicness: 23},
		},
		{
			name:  "half rounds up",
			boost: "Normal",
			lines: LineFront,
			moves: []string{"5B"},
			want:  Winnings{Payout: 35, Damage: 13, Epicness: 40},
		},
		{
			name:  "dodge keeps epicness only",
			boost: "Max",
			lines: LineFlanks,
			moves: []string{"3ABCD1SN1T", "4ABCD1SN"},
			want:  Winnings{Payout: 0, Damage: 0, Epicness: 325},
		},
		{
			name:  "all miss",
			boost: "Normal",
			lines: LineAll,
			moves: []string{"5T", "5T", "1ABCD4T"},
			want:  Winnings{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := Bet{Boost: boost(t, tt.boost), Lines: tt.lines}
			got, err := WinningsFor(bet, mustMoves(t, tt.moves...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWinningsForIllegalLines(t *testing.T) {
	for _, lines := range []LineChoice{0, 4, -1} {
		_, err := WinningsFor(Bet{Boost: boost(t, "Normal"), Lines: lines}, nil)
		assert.ErrorIs(t, err, ErrIllegalLines, "lines=%d", lines)
	}

	_, err := WinningsFor(Bet{Boost: boost(t, "Normal"), Lines: 4}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4")
}

func TestWinningsForNilMove(t *testing.T) {
	_, err := WinningsFor(Bet{Boost: boost(t, "Normal"), Lines: LineFront}, []*Move{nil})
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestWinningsIsZero(t *testing.T) {
	assert.True(t, Winnings{}.IsZero())
	assert.False(t, Winnings{Epicness: 1}.IsZero())
}
