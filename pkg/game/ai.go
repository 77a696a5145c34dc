package game

// AI はゲーム用エージェントのインターフェース
type AI interface {
	Name() string
	// 盤面を見て着手する列を返す
	Move(v View) int
}

// Resetter を実装する AI は対局開始時に Reset が呼ばれる
type Resetter interface {
	Reset()
}

// View は AI に渡す読み取り専用の盤面
type View struct {
	board *Board
	me    Player
}

// NewView は board を p の視点で包む
func NewView(board *Board, p Player) View {
	return View{board: board, me: p}
}

// Me は手番のプレイヤー
func (v View) Me() Player        { return v.me }
func (v View) Marker() Marker    { return v.me.Marker() }
func (v View) Height() int       { return v.board.height }
func (v View) Width() int        { return v.board.width }
func (v View) Lines() *LineIndex { return v.board.lines }

func (v View) Cell(row, col int) Marker { return v.board.Cell(row, col) }
func (v View) Remaining(col int) int    { return v.board.Remaining(col) }
func (v View) TotalRemaining() int      { return v.board.total }
func (v View) OpenColumns() []int       { return v.board.OpenColumns() }
func (v View) Sum(l Line) int           { return v.board.Sum(l) }

// Grid はスナップショットのコピーを返す
func (v View) Grid() [][]int { return v.board.Grid() }
