package game

import (
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted plays a fixed list of columns, then repeats the last one.
type scripted struct {
	cols   []int
	i      int
	resets int
	seen   []int // 呼び出し時の空きマス総数
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Move(v View) int {
	s.seen = append(s.seen, v.TotalRemaining())
	c := s.cols[len(s.cols)-1]
	if s.i < len(s.cols) {
		c = s.cols[s.i]
	}
	s.i++
	return c
}

func (s *scripted) Reset() {
	s.i = 0
	s.resets++
}

func quietLogger() log.FieldLogger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() RunnerConfig {
	cfg := DefaultRunnerConfig()
	cfg.Logger = quietLogger()
	cfg.Rand = rand.New(rand.NewSource(1))
	cfg.First = 1
	return cfg
}

func newPlayers(t *testing.T, a1, a2 AI) (Player, Player) {
	t.Helper()
	p1, err := NewPlayer(1, "alice", a1)
	require.NoError(t, err)
	p2, err := NewPlayer(2, "bob", a2)
	require.NoError(t, err)
	return p1, p2
}

// 42 手で盤面が埋まり四目ができない手順（先手 +1）
var drawSequence = []int{
	5, 4, 5, 0, 6, 2, 4, 5, 5, 0, 4, 1, 1, 0, 4, 5, 6, 5, 3, 1, 1,
	2, 2, 6, 2, 6, 6, 3, 6, 2, 0, 3, 0, 3, 3, 4, 3, 1, 4, 2, 1, 0,
}

func split(seq []int) (first, second []int) {
	for i, c := range seq {
		if i%2 == 0 {
			first = append(first, c)
		} else {
			second = append(second, c)
		}
	}
	return first, second
}

func TestPlayerMarkers(t *testing.T) {
	p1, p2 := newPlayers(t, &scripted{cols: []int{0}}, &scripted{cols: []int{0}})
	assert.Equal(t, Plus, p1.Marker())
	assert.Equal(t, 4, p1.Target())
	assert.Equal(t, Minus, p2.Marker())
	assert.Equal(t, -4, p2.Target())

	_, err := NewPlayer(3, "carol", &scripted{})
	assert.True(t, errors.Is(err, ErrInvalidPlayer))
	_, err = NewPlayer(1, "dave", nil)
	assert.True(t, errors.Is(err, ErrInvalidPlayer))
}

func TestNewGameRunnerValidation(t *testing.T) {
	p1, p2 := newPlayers(t, &scripted{cols: []int{0}}, &scripted{cols: []int{1}})
	_, err := NewGameRunner(p1, p1, testConfig())
	assert.True(t, errors.Is(err, ErrInvalidPlayer))

	cfg := testConfig()
	cfg.Width = 3
	_, err = NewGameRunner(p1, p2, cfg)
	assert.True(t, errors.Is(err, ErrInvalidDimensions))

	cfg = testConfig()
	cfg.First = 5
	_, err = NewGameRunner(p1, p2, cfg)
	assert.True(t, errors.Is(err, ErrInvalidPlayer))
}

func TestRunVerticalWin(t *testing.T) {
	a1 := &scripted{cols: []int{0}}
	a2 := &scripted{cols: []int{1}}
	p1, p2 := newPlayers(t, a1, a2)
	gr, err := NewGameRunner(p1, p2, testConfig())
	require.NoError(t, err)

	res, err := gr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, GameOver, gr.State())
	assert.Equal(t, 1, res.WinnerID)
	assert.Equal(t, "alice", res.Winner)
	assert.False(t, res.Draw())
	assert.Len(t, res.Moves, 7)
	assert.Equal(t, [2]string{"alice", "bob"}, res.Order)
	assert.Equal(t, Move{Player: 1, Column: 0, Row: 2}, res.Moves[6])
	assert.Equal(t, 1, a1.resets)
	assert.Equal(t, 1, a2.resets)
}

func TestRunDraw(t *testing.T) {
	first, second := split(drawSequence)
	p1, p2 := newPlayers(t, &scripted{cols: first}, &scripted{cols: second})
	gr, err := NewGameRunner(p1, p2, testConfig())
	require.NoError(t, err)

	res, err := gr.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Draw())
	assert.Empty(t, res.Winner)
	assert.Len(t, res.Moves, 42)
	for _, row := range res.Final {
		assert.NotContains(t, row, 0)
	}
}

func TestRunRejectedMoveKeepsTurn(t *testing.T) {
	// alice fills column 0 then tries it again twice before switching to 1
	a1 := &scripted{cols: []int{0, 0, 0, 9, 0, -1, 1}}
	a2 := &scripted{cols: []int{0, 0, 0, 2, 2, 2, 2}}
	p1, p2 := newPlayers(t, a1, a2)
	var recs []Record
	cfg := testConfig()
	cfg.Recorder = RecorderFunc(func(rec Record) error {
		recs = append(recs, rec)
		return nil
	})
	gr, err := NewGameRunner(p1, p2, cfg)
	require.NoError(t, err)

	res, err := gr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rejections)
	// 拒否された問い合わせでは盤面は変わらない
	assert.Equal(t, []int{42, 40, 38, 36, 36, 36, 36}, a1.seen[:7])
	assert.Equal(t, Move{Player: 1, Column: 1, Row: 5}, res.Moves[6])

	require.Len(t, recs, len(res.Moves))
	for i, rec := range recs {
		assert.Equal(t, i, rec.Move)
		assert.Equal(t, res.ID, rec.GameID)
		assert.Equal(t, res.Moves[i].Column, rec.Column)
	}
	// 記録は着手前の盤面
	assert.Equal(t, 0, recs[0].Grid[5][0])
	assert.Equal(t, 1, recs[1].Grid[5][0])
	assert.Equal(t, "bob", recs[1].Player)
	assert.Equal(t, 0, recs[6].Grid[5][1])
}

func TestRunPolicyStalled(t *testing.T) {
	p1, p2 := newPlayers(t, &scripted{cols: []int{-3}}, &scripted{cols: []int{0}})
	cfg := testConfig()
	cfg.MaxRejections = 5
	gr, err := NewGameRunner(p1, p2, cfg)
	require.NoError(t, err)

	_, err = gr.Run(context.Background())
	assert.True(t, errors.Is(err, ErrPolicyStalled), "%v", err)
}

func TestRunRecorderError(t *testing.T) {
	p1, p2 := newPlayers(t, &scripted{cols: []int{0}}, &scripted{cols: []int{1}})
	boom := errors.New("disk full")
	cfg := testConfig()
	cfg.Recorder = RecorderFunc(func(Record) error { return boom })
	gr, err := NewGameRunner(p1, p2, cfg)
	require.NoError(t, err)

	_, err = gr.Run(context.Background())
	assert.True(t, errors.Is(err, boom))
}

func TestRunCancelled(t *testing.T) {
	p1, p2 := newPlayers(t, &scripted{cols: []int{0}}, &scripted{cols: []int{1}})
	gr, err := NewGameRunner(p1, p2, testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gr.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunRandomFirstPlayer(t *testing.T) {
	counts := map[string]int{}
	for seed := int64(0); seed < 40; seed++ {
		p1, p2 := newPlayers(t, &scripted{cols: []int{0}}, &scripted{cols: []int{1}})
		cfg := testConfig()
		cfg.First = 0
		cfg.Rand = rand.New(rand.NewSource(seed))
		gr, err := NewGameRunner(p1, p2, cfg)
		require.NoError(t, err)
		res, err := gr.Run(context.Background())
		require.NoError(t, err)
		counts[res.Order[0]]++
		// 先手が必ず縦四目で勝つ
		assert.Equal(t, res.Order[0], res.Winner)
	}
	assert.Positive(t, counts["alice"])
	assert.Positive(t, counts["bob"])
}
