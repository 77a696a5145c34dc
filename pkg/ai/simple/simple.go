// Package simple implements the line-completion heuristic: block the opponent's
// three-in-a-line, otherwise complete our own, otherwise play a random open column.
package simple

import (
	"math/rand"
	"time"

	"github.com/montplusa/connect-four/pkg/ai/random"
	"github.com/montplusa/connect-four/pkg/game"
)

const nearWin = game.ConnectN - 1

// SimpleAI scans rows, then columns, then diagonals. Within each group a
// blocking move is preferred over a winning one; the first group that has
// either decides the column.
type SimpleAI struct {
	rng *rand.Rand
}

// New returns a SimpleAI whose random fallback draws from rng.
// A nil rng is seeded from the clock.
func New(rng *rand.Rand) *SimpleAI {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SimpleAI{rng: rng}
}

func (s *SimpleAI) Name() string { return "simple" }

func (s *SimpleAI) Move(v game.View) int {
	if col, ok := Decide(v, v.Marker()); ok {
		return col
	}
	return random.Pick(s.rng, v.OpenColumns())
}

// Decide returns the heuristic column for marker m, or false when no group
// holds a line one move from completion.
func Decide(v game.View, m game.Marker) (int, bool) {
	self := nearWin * int(m)
	for _, group := range v.Lines().Groups() {
		if col, ok := completing(v, group, -self); ok {
			return col, true
		}
		if col, ok := completing(v, group, self); ok {
			return col, true
		}
	}
	return -1, false
}

// completing finds the first line in group summing to target with exactly one
// empty cell and returns that cell's column.
func completing(v game.View, group []game.Line, target int) (int, bool) {
	for _, l := range group {
		if v.Sum(l) != target {
			continue
		}
		col, empties := -1, 0
		for _, p := range l.Cells {
			if v.Cell(p.Row, p.Col) == game.Empty {
				col = p.Col
				empties++
			}
		}
		if empties == 1 {
			return col, true
		}
	}
	return -1, false
}
