package game

import "github.com/pkg/errors"

var (
	// ErrInvalidDimensions は 4 未満の盤面サイズ（四目が作れない）
	ErrInvalidDimensions = errors.New("board must be at least 4x4")
	ErrInvalidColumn     = errors.New("column out of range")
	ErrColumnFull        = errors.New("column full")
	// ErrNoPositionsLeft は満杯の盤面への着手。Runner が先に引き分けを検出するので通常は起きない
	ErrNoPositionsLeft = errors.New("no positions left")
	ErrInvalidMarker   = errors.New("invalid marker")
	ErrInvalidPlayer   = errors.New("invalid player")
	// ErrPolicyStalled は AI が不正な列を返し続けた場合
	ErrPolicyStalled = errors.New("policy keeps choosing invalid columns")
)

// IsRejection は Runner が再入力で処理する着手エラーかどうか
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidColumn) || errors.Is(err, ErrColumnFull)
}
