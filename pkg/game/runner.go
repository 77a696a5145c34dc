package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Move は適用された一手
type Move struct {
	Player int `json:"player"`
	Column int `json:"column"`
	Row    int `json:"row"`
}

// BattleResult は対戦結果の記録
type BattleResult struct {
	ID         uuid.UUID `json:"id"`
	Height     int       `json:"height"`
	Width      int       `json:"width"`
	Order      [2]string `json:"order"`     // 先手, 後手の名前
	WinnerID   int       `json:"winner_id"` // 引き分けは 0
	Winner     string    `json:"winner,omitempty"`
	Moves      []Move    `json:"moves"`
	Rejections int       `json:"rejections"`
	Final      [][]int   `json:"final"`
}

// Draw は引き分けか
func (r *BattleResult) Draw() bool { return r.WinnerID == 0 }

// RunnerConfig は GameRunner の設定
type RunnerConfig struct {
	Height int
	Width  int
	// Rand は先手決定に使う。nil なら時刻で初期化
	Rand     *rand.Rand
	Recorder Recorder
	Logger   log.FieldLogger
	// MaxRejections 回連続で不正な列を返すと ErrPolicyStalled。0 は無制限
	MaxRejections int
	// First は先手のプレイヤー ID。0 ならランダム
	First int
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Height: DefaultHeight,
		Width:  DefaultWidth,
	}
}

// GameRunner は対戦を管理
type GameRunner struct {
	players [2]Player
	cfg     RunnerConfig
	rng     *rand.Rand
	log     log.FieldLogger
	state   TurnState
}

// NewGameRunner はプレイヤーをセットして返す
func NewGameRunner(p1, p2 Player, cfg RunnerConfig) (*GameRunner, error) {
	if p1.ID == p2.ID {
		return nil, errors.Wrapf(ErrInvalidPlayer, "both players have id %d", p1.ID)
	}
	for _, p := range []Player{p1, p2} {
		if _, err := NewPlayer(p.ID, p.Name, p.AI); err != nil {
			return nil, err
		}
	}
	if cfg.Height < MinSize || cfg.Width < MinSize {
		return nil, errors.Wrapf(ErrInvalidDimensions, "got %dx%d", cfg.Height, cfg.Width)
	}
	if cfg.First != 0 && cfg.First != p1.ID && cfg.First != p2.ID {
		return nil, errors.Wrapf(ErrInvalidPlayer, "first player id %d", cfg.First)
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &GameRunner{
		players: [2]Player{p1, p2},
		cfg:     cfg,
		rng:     rng,
		log:     logger,
		state:   AwaitingMove,
	}, nil
}

// State は直近の Run の最終状態
func (gr *GameRunner) State() TurnState { return gr.state }

func (gr *GameRunner) firstIndex() int {
	switch gr.cfg.First {
	case gr.players[0].ID:
		return 0
	case gr.players[1].ID:
		return 1
	default:
		return gr.rng.Intn(2)
	}
}

// Run は対戦を 1 局実行して BattleResult を返す。
// ctx は手番の合間にだけ確認する。
func (gr *GameRunner) Run(ctx context.Context) (*BattleResult, error) {
	board, err := NewBoard(gr.cfg.Height, gr.cfg.Width)
	if err != nil {
		return nil, err
	}
	for _, p := range gr.players {
		if r, ok := p.AI.(Resetter); ok {
			r.Reset()
		}
	}

	turn := gr.firstIndex()
	result := &BattleResult{
		ID:     uuid.New(),
		Height: board.Height(),
		Width:  board.Width(),
		Order:  [2]string{gr.players[turn].Name, gr.players[1-turn].Name},
		Moves:  make([]Move, 0, board.TotalRemaining()),
	}
	entry := gr.log.WithField("game", result.ID)
	entry.WithFields(log.Fields{"first": result.Order[0], "second": result.Order[1]}).Debug("game started")

	var (
		snapshot  [][]int
		col, row  int
		rejectErr error
		streak    int
	)
	gr.state = AwaitingMove
	for gr.state != GameOver {
		player := gr.players[turn]
		switch gr.state {
		case AwaitingMove:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if board.Full() {
				return nil, errors.Wrap(ErrNoPositionsLeft, "queried a move on a full board")
			}
			if gr.cfg.Recorder != nil && snapshot == nil {
				snapshot = board.Grid()
			}
			col = player.AI.Move(NewView(board, player))
			row, err = board.Apply(col, player.Marker())
			switch {
			case err == nil:
				gr.state = MoveApplied
			case IsRejection(err):
				rejectErr = err
				gr.state = MoveRejected
			default:
				return nil, errors.WithMessagef(err, "move %d by %s", len(result.Moves), player.Name)
			}

		case MoveRejected:
			result.Rejections++
			streak++
			entry.WithFields(log.Fields{"player": player.Name, "column": col}).
				WithError(rejectErr).Warn("move rejected")
			if gr.cfg.MaxRejections > 0 && streak >= gr.cfg.MaxRejections {
				return nil, errors.Wrapf(ErrPolicyStalled, "%s rejected %d times in a row", player.Name, streak)
			}
			gr.state = AwaitingMove

		case MoveApplied:
			streak = 0
			entry.WithFields(log.Fields{
				"turn":   len(result.Moves),
				"player": player.Name,
				"column": col,
				"row":    row,
			}).Debug("move applied")
			if gr.cfg.Recorder != nil {
				rec := Record{
					GameID: result.ID,
					Move:   len(result.Moves),
					Player: player.Name,
					Column: col,
					Grid:   snapshot,
				}
				if err := gr.cfg.Recorder.Record(rec); err != nil {
					return nil, errors.WithMessage(err, "recording move")
				}
				snapshot = nil
			}
			result.Moves = append(result.Moves, Move{Player: player.ID, Column: col, Row: row})
			gr.state = Resolved

		case Resolved:
			switch {
			case board.HasWon(player.Marker()):
				result.WinnerID = player.ID
				result.Winner = player.Name
				gr.state = GameOver
			case board.Full():
				gr.state = GameOver
			default:
				turn = 1 - turn
				gr.state = AwaitingMove
			}
		}
	}

	result.Final = board.Grid()
	entry.WithFields(log.Fields{"winner": result.Winner, "moves": len(result.Moves)}).Debug("game over")
	return result, nil
}
