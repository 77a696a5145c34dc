package game

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	DefaultHeight = 6
	DefaultWidth  = 7
)

// Marker はマスの値。Empty=0, プレイヤー1=+1, プレイヤー2=-1
type Marker int8

const (
	Empty Marker = 0
	Plus  Marker = 1
	Minus Marker = -1
)

// Opponent は相手のマーカー
func (m Marker) Opponent() Marker { return -m }

// Valid は着手に使えるマーカーか
func (m Marker) Valid() bool { return m == Plus || m == Minus }

func (m Marker) String() string {
	switch m {
	case Plus:
		return "X"
	case Minus:
		return "O"
	default:
		return "."
	}
}

// Board は盤面情報を保持。行は上から 0 で数える
type Board struct {
	height    int
	width     int
	cells     []Marker // 行優先
	remaining []int    // 列ごとの空きマス数
	total     int      // 空きマス総数
	lines     *LineIndex
}

// NewBoard は空の盤面を返す
func NewBoard(height, width int) (*Board, error) {
	lines, err := NewLineIndex(height, width)
	if err != nil {
		return nil, err
	}
	b := &Board{
		height:    height,
		width:     width,
		cells:     make([]Marker, height*width),
		remaining: make([]int, width),
		total:     height * width,
		lines:     lines,
	}
	for c := range b.remaining {
		b.remaining[c] = height
	}
	return b, nil
}

// Clone は Board のディープコピーを返す。LineIndex は共有する
func (b *Board) Clone() *Board {
	nb := *b
	nb.cells = append([]Marker(nil), b.cells...)
	nb.remaining = append([]int(nil), b.remaining...)
	return &nb
}

func (b *Board) Height() int       { return b.height }
func (b *Board) Width() int        { return b.width }
func (b *Board) Lines() *LineIndex { return b.lines }

// Cell は (row, col) の値
func (b *Board) Cell(row, col int) Marker {
	return b.cells[row*b.width+col]
}

// Remaining は列 col の空きマス数
func (b *Board) Remaining(col int) int { return b.remaining[col] }

func (b *Board) TotalRemaining() int { return b.total }

// Full は空きマスがないか
func (b *Board) Full() bool { return b.total == 0 }

// NextRow は列 col に次に置かれる行。満杯なら -1
func (b *Board) NextRow(col int) int {
	return b.height - 1 - (b.height - b.remaining[col])
}

// OpenColumns は空きのある列
func (b *Board) OpenColumns() []int {
	open := make([]int, 0, b.width)
	for c, n := range b.remaining {
		if n > 0 {
			open = append(open, c)
		}
	}
	return open
}

// Grid は height×width のスナップショット
func (b *Board) Grid() [][]int {
	g := make([][]int, b.height)
	for r := range g {
		g[r] = make([]int, b.width)
		for c := range g[r] {
			g[r][c] = int(b.cells[r*b.width+c])
		}
	}
	return g
}

// Sum はライン上 4 マスの合計
func (b *Board) Sum(l Line) int {
	s := 0
	for _, p := range l.Cells {
		s += int(b.cells[p.Row*b.width+p.Col])
	}
	return s
}

// Apply は列 col に m を落とし、置いた行を返す。
// エラー時は盤面を一切変更しない。
func (b *Board) Apply(col int, m Marker) (int, error) {
	if col < 0 || col >= b.width {
		return -1, errors.Wrapf(ErrInvalidColumn, "column %d, width %d", col, b.width)
	}
	if !m.Valid() {
		return -1, errors.Wrapf(ErrInvalidMarker, "marker %d", m)
	}
	if b.remaining[col] == 0 {
		return -1, errors.Wrapf(ErrColumnFull, "column %d", col)
	}
	// 列に空きがあるのに残数 0 なら計数が壊れている
	if b.total == 0 {
		return -1, errors.Wrapf(ErrNoPositionsLeft, "column %d still has %d", col, b.remaining[col])
	}
	row := b.NextRow(col)
	b.cells[row*b.width+col] = m
	b.remaining[col]--
	b.total--
	return row, nil
}

// HasWon は m の四目が存在するか。セル値が {-1,0,1} なので合計 4m は 4 マスとも m の場合のみ
func (b *Board) HasWon(m Marker) bool {
	_, ok := b.WinningLine(m)
	return ok
}

// WinningLine は m が完成させた最初のライン（生成順）
func (b *Board) WinningLine(m Marker) (Line, bool) {
	if !m.Valid() {
		return Line{}, false
	}
	target := ConnectN * int(m)
	for _, l := range b.lines.Lines() {
		if b.Sum(l) == target {
			return l, true
		}
	}
	return Line{}, false
}

// Winner は勝者のマーカー。いなければ Empty
func (b *Board) Winner() Marker {
	if b.HasWon(Plus) {
		return Plus
	}
	if b.HasWon(Minus) {
		return Minus
	}
	return Empty
}

// String はログ用のテキスト表示
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.height; r++ {
		for c := 0; c < b.width; c++ {
			sb.WriteString(b.Cell(r, c).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
