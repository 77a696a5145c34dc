package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/montplusa/connect-four/pkg/ai/players"
	"github.com/montplusa/connect-four/pkg/dataset"
	"github.com/montplusa/connect-four/pkg/game"
)

// 引き分けのやり直し上限
const maxReplays = 1000

// Summary は対戦結果の集計
type Summary struct {
	Games      int
	Draws      int
	Wins       map[string]int
	Moves      int
	Rejections int
	Replays    int
	Elapsed    time.Duration
}

func (s *Summary) String() string {
	names := make([]string, 0, len(s.Wins))
	for n := range s.Wins {
		names = append(names, n)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names)+1)
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", n, s.Wins[n]))
	}
	parts = append(parts, fmt.Sprintf("draws: %d", s.Draws))
	return fmt.Sprintf("%d games in %s (%s)", s.Games, s.Elapsed.Round(time.Millisecond), strings.Join(parts, ", "))
}

// 対戦結果の構造体
type gameResult struct {
	index   int
	result  *game.BattleResult
	records []game.Record
	replays int
	err     error
}

// Run は cfg.Games 局をワーカープールで実行し、終わった対局から順に sink へ書き出す。
// sink は nil でもよい。最初の致命的エラーで残りの対局を打ち切る。
func Run(ctx context.Context, cfg Config, sink dataset.Writer, logger log.FieldLogger) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	start := time.Now()
	tasks := make(chan int)
	results := make(chan gameResult)

	// ワーカープールの作成
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go worker(ctx, i, cfg, sink != nil, tasks, results, logger, &wg)
	}

	// タスクの送信
	go func() {
		defer close(tasks)
		for i := 0; i < cfg.Games; i++ {
			select {
			case tasks <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// 結果の収集
	summary := &Summary{Wins: map[string]int{cfg.Names[0]: 0, cfg.Names[1]: 0}}
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	for res := range results {
		if res.err != nil {
			fail(res.err)
			continue
		}
		if firstErr != nil {
			continue
		}
		summary.Games++
		summary.Moves += len(res.result.Moves)
		summary.Rejections += res.result.Rejections
		summary.Replays += res.replays
		if res.result.Draw() {
			summary.Draws++
		} else {
			summary.Wins[res.result.Winner]++
		}
		if sink != nil {
			if err := sink.Write(res.records); err != nil {
				fail(errors.WithMessagef(err, "writing game %d", res.index))
				continue
			}
		}
		logger.WithFields(log.Fields{
			"game":   res.index,
			"id":     res.result.ID,
			"winner": res.result.Winner,
			"moves":  len(res.result.Moves),
			"done":   summary.Games,
			"total":  cfg.Games,
		}).Debug("game finished")
	}
	summary.Elapsed = time.Since(start)

	// 中断でタスクが一つも配られなかった場合
	if firstErr == nil && summary.Games < cfg.Games {
		firstErr = parent.Err()
	}
	// 打ち切られても書き終えた対局は残す
	if sink != nil {
		if err := sink.Flush(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "flushing dataset")
		}
	}
	return summary, firstErr
}

// ワーカー関数
func worker(ctx context.Context, id int, cfg Config, record bool, tasks <-chan int, results chan<- gameResult, logger log.FieldLogger, wg *sync.WaitGroup) {
	defer wg.Done()
	entry := logger.WithField("worker", id)
	for idx := range tasks {
		results <- playGame(ctx, cfg, idx, record, entry)
	}
}

func seedFor(cfg Config, idx int) int64 {
	if cfg.Seed == 0 {
		return time.Now().UnixNano() + int64(idx)
	}
	return cfg.Seed + int64(idx)
}

func playGame(ctx context.Context, cfg Config, idx int, record bool, logger log.FieldLogger) gameResult {
	rng := rand.New(rand.NewSource(seedFor(cfg, idx)))
	for replays := 0; replays <= maxReplays; replays++ {
		var buf *dataset.Buffer
		if record {
			buf = &dataset.Buffer{}
		}
		runner, err := newRunner(cfg, rng, buf, logger)
		if err != nil {
			return gameResult{index: idx, err: err}
		}
		result, err := runner.Run(ctx)
		if err != nil {
			return gameResult{index: idx, err: errors.WithMessagef(err, "game %d", idx)}
		}
		if result.Draw() && cfg.RepeatDraws {
			continue
		}
		res := gameResult{index: idx, result: result, replays: replays}
		if buf != nil {
			res.records = buf.Records
		}
		return res
	}
	return gameResult{index: idx, err: errors.Errorf("game %d drew %d times in a row", idx, maxReplays+1)}
}

func newRunner(cfg Config, rng *rand.Rand, buf *dataset.Buffer, logger log.FieldLogger) (*game.GameRunner, error) {
	env := players.Env{Height: cfg.Height, Width: cfg.Width, Rand: rng}
	var seats [2]game.Player
	for i := range seats {
		ai, err := players.New(cfg.Players[i], env)
		if err != nil {
			return nil, err
		}
		if seats[i], err = game.NewPlayer(i+1, cfg.Names[i], ai); err != nil {
			return nil, err
		}
	}
	rc := game.RunnerConfig{
		Height:        cfg.Height,
		Width:         cfg.Width,
		Rand:          rng,
		Logger:        logger,
		MaxRejections: cfg.MaxRejections,
	}
	if buf != nil {
		rc.Recorder = buf
	}
	return game.NewGameRunner(seats[0], seats[1], rc)
}
