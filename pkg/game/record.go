package game

import "github.com/google/uuid"

// Record はデータセットの 1 行。着手前の盤面と選ばれた列
type Record struct {
	GameID uuid.UUID `json:"game_id"`
	Move   int       `json:"move"`
	Player string    `json:"player_name"`
	Column int       `json:"chosen_column"`
	Grid   [][]int   `json:"grid_snapshot"`
}

// Recorder は着手ごとに Record を受け取る
type Recorder interface {
	Record(rec Record) error
}

// RecorderFunc は関数を Recorder として使うためのアダプタ
type RecorderFunc func(rec Record) error

func (f RecorderFunc) Record(rec Record) error { return f(rec) }
