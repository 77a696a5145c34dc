package game

// TurnState は GameRunner の状態
type TurnState uint8

const (
	// AwaitingMove は手番プレイヤーの着手待ち（初期状態）
	AwaitingMove TurnState = iota
	// MoveRejected は不正な列。同じプレイヤーに再度問い合わせる
	MoveRejected
	MoveApplied
	// Resolved は勝敗判定済み
	Resolved
	// GameOver は終端
	GameOver
)

var turnStateStrings = [...]string{
	"AwaitingMove",
	"MoveRejected",
	"MoveApplied",
	"Resolved",
	"GameOver",
}

func (s TurnState) String() string {
	if int(s) >= len(turnStateStrings) {
		return "Unknown"
	}
	return turnStateStrings[s]
}
