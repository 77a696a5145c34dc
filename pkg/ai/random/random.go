package random

import (
	"math/rand"
	"time"

	"github.com/montplusa/connect-four/pkg/game"
)

// RandomAI は空きのある列からランダムに選ぶ実装
type RandomAI struct {
	rng *rand.Rand
}

// New は RandomAI を生成する。rng が nil なら時刻で初期化
func New(rng *rand.Rand) *RandomAI {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &RandomAI{rng: rng}
}

func (r *RandomAI) Name() string { return "random" }

func (r *RandomAI) Move(v game.View) int {
	return Pick(r.rng, v.OpenColumns())
}

// Pick は cols から一様に 1 つ選ぶ。空なら -1
func Pick(rng *rand.Rand, cols []int) int {
	if len(cols) == 0 {
		return -1
	}
	return cols[rng.Intn(len(cols))]
}
