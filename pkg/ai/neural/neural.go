// Package neural plays the column an external model ranks highest. The model
// sees the grids from its last K turns flattened row-major and answers one score per column.
package neural

import (
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/montplusa/connect-four/pkg/game"
)

// Ranker scores every column for the given input window; higher is better.
type Ranker interface {
	Rank(input []float64) ([]float64, error)
}

// Config controls how the snapshot window is built.
type Config struct {
	// Window is the number of grids fed to the model. A grid is taken each
	// time this player moves, so opponent drops show up inside the next one.
	Window int
	// RightPadding puts the zero snapshots after the history instead of before it.
	RightPadding bool
	// Perspective flips the grid so the player's own marker is always +1.
	Perspective bool
}

func DefaultConfig() Config {
	return Config{Window: 4}
}

// NeuralAI keeps its own rolling history, so one instance serves one seat.
type NeuralAI struct {
	ranker  Ranker
	cfg     Config
	history [][]float64
	name    string
}

func New(ranker Ranker, cfg Config) *NeuralAI {
	if cfg.Window <= 0 {
		cfg.Window = 1
	}
	return &NeuralAI{ranker: ranker, cfg: cfg, name: "neural"}
}

// WithName overrides the reported name, e.g. with the model file.
func (ai *NeuralAI) WithName(name string) *NeuralAI {
	ai.name = name
	return ai
}

func (ai *NeuralAI) Name() string { return ai.name }

// Reset drops the history at the start of a game.
func (ai *NeuralAI) Reset() { ai.history = nil }

func (ai *NeuralAI) Move(v game.View) int {
	ai.push(flatten(v, ai.cfg.Perspective))
	scores, err := ai.ranker.Rank(ai.Input())
	if err != nil {
		log.WithError(err).WithField("ai", ai.name).Warn("ranker failed, playing first open column")
		scores = nil
	}
	return Choose(scores, v)
}

func (ai *NeuralAI) push(snap []float64) {
	ai.history = append(ai.history, snap)
	if over := len(ai.history) - ai.cfg.Window; over > 0 {
		ai.history = ai.history[over:]
	}
}

// Input is the padded window, Window*H*W values long.
func (ai *NeuralAI) Input() []float64 {
	if len(ai.history) == 0 {
		return nil
	}
	size := len(ai.history[0])
	out := make([]float64, 0, ai.cfg.Window*size)
	pad := make([]float64, (ai.cfg.Window-len(ai.history))*size)
	if !ai.cfg.RightPadding {
		out = append(out, pad...)
	}
	for _, snap := range ai.history {
		out = append(out, snap...)
	}
	if ai.cfg.RightPadding {
		out = append(out, pad...)
	}
	return out
}

func flatten(v game.View, perspective bool) []float64 {
	sign := 1.0
	if perspective && v.Marker() == game.Minus {
		sign = -1.0
	}
	out := make([]float64, 0, v.Height()*v.Width())
	for r := 0; r < v.Height(); r++ {
		for c := 0; c < v.Width(); c++ {
			out = append(out, sign*float64(v.Cell(r, c)))
		}
	}
	return out
}

// Choose returns the best scored column that still has room. Columns without
// a score rank last, in index order.
func Choose(scores []float64, v game.View) int {
	cols := make([]int, v.Width())
	for i := range cols {
		cols[i] = i
	}
	score := func(c int) (float64, bool) {
		if c < len(scores) {
			return scores[c], true
		}
		return 0, false
	}
	sort.SliceStable(cols, func(i, j int) bool {
		si, oki := score(cols[i])
		sj, okj := score(cols[j])
		if oki != okj {
			return oki
		}
		return si > sj
	})
	for _, c := range cols {
		if v.Remaining(c) > 0 {
			return c
		}
	}
	return -1
}
