package simple

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/montplusa/connect-four/pkg/ai/random"
	"github.com/montplusa/connect-four/pkg/game"
)

var (
	cross  = game.Player{ID: 1, Name: "cross"}
	nought = game.Player{ID: 2, Name: "nought"}
)

type drop struct {
	col int
	m   game.Marker
}

func board(t *testing.T, h, w int, drops ...drop) *game.Board {
	t.Helper()
	b, err := game.NewBoard(h, w)
	require.NoError(t, err)
	for _, d := range drops {
		_, err := b.Apply(d.col, d.m)
		require.NoError(t, err)
	}
	return b
}

func TestBlocksRowThreat(t *testing.T) {
	b := board(t, 6, 7, drop{0, game.Plus}, drop{1, game.Plus}, drop{2, game.Plus})
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 3, col)
	assert.Equal(t, 3, New(rand.New(rand.NewSource(1))).Move(game.NewView(b, nought)))
}

func TestBlocksColumnThreat(t *testing.T) {
	b := board(t, 6, 7, drop{2, game.Plus}, drop{2, game.Plus}, drop{2, game.Plus})
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 2, col)
}

func TestBlocksDiagonalThreat(t *testing.T) {
	b := board(t, 6, 7,
		drop{0, game.Plus},
		drop{1, game.Minus}, drop{1, game.Plus},
		drop{2, game.Minus}, drop{2, game.Minus}, drop{2, game.Plus},
	)
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 3, col)
}

func TestBlockBeforeWinInSameGroup(t *testing.T) {
	// X X X _ _ O O O on the bottom row
	b := board(t, 6, 8,
		drop{0, game.Plus}, drop{1, game.Plus}, drop{2, game.Plus},
		drop{5, game.Minus}, drop{6, game.Minus}, drop{7, game.Minus},
	)
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 3, col, "nought blocks instead of winning at 4")

	col, ok = Decide(game.NewView(b, cross), game.Plus)
	require.True(t, ok)
	assert.Equal(t, 4, col, "cross blocks instead of winning at 3")
}

func TestEarlierGroupWinBeatsLaterGroupBlock(t *testing.T) {
	// nought can finish a row at column 3 while cross threatens column 6
	b := board(t, 6, 7,
		drop{0, game.Minus}, drop{1, game.Minus}, drop{2, game.Minus},
		drop{6, game.Plus}, drop{6, game.Plus}, drop{6, game.Plus},
	)
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 3, col)
}

func TestEarlierGroupBlockBeatsLaterGroupWin(t *testing.T) {
	// cross threatens the bottom row at 3 while nought could finish column 6
	b := board(t, 6, 7,
		drop{0, game.Plus}, drop{1, game.Plus}, drop{2, game.Plus},
		drop{6, game.Minus}, drop{6, game.Minus}, drop{6, game.Minus},
	)
	col, ok := Decide(game.NewView(b, nought), game.Minus)
	require.True(t, ok)
	assert.Equal(t, 3, col)
}

func TestColumnBlockBeatsDiagonalWin(t *testing.T) {
	// nought owns the diagonal (5,0) (4,1) (3,2) and needs (2,3);
	// cross stacks three in column 6
	b := board(t, 6, 7,
		drop{0, game.Minus},
		drop{1, game.Plus}, drop{1, game.Minus},
		drop{2, game.Plus}, drop{2, game.Plus}, drop{2, game.Minus},
		drop{3, game.Minus}, drop{3, game.Plus}, drop{3, game.Minus},
		drop{6, game.Plus}, drop{6, game.Plus}, drop{6, game.Plus},
	)
	v := game.NewView(b, nought)
	require.Equal(t, 3, v.Remaining(3), "(2,3) is the next drop in column 3")
	col, ok := Decide(v, game.Minus)
	require.True(t, ok)
	assert.Equal(t, 6, col)
}

func TestFallsBackToSeededRandom(t *testing.T) {
	// two in a row is not a decision
	b := board(t, 6, 7, drop{0, game.Plus}, drop{1, game.Plus})
	m := game.Minus
	for i := 0; i < 6; i++ {
		_, err := b.Apply(4, m)
		require.NoError(t, err)
		m = m.Opponent()
	}
	v := game.NewView(b, nought)
	_, ok := Decide(v, game.Minus)
	require.False(t, ok)

	for seed := int64(0); seed < 20; seed++ {
		want := random.Pick(rand.New(rand.NewSource(seed)), v.OpenColumns())
		got := New(rand.New(rand.NewSource(seed))).Move(v)
		assert.Equal(t, want, got)
		assert.NotEqual(t, 4, got)
	}
}
