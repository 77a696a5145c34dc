package game

import (
	"fmt"

	"github.com/pkg/errors"
)

const (
	// ConnectN は勝利に必要な連続数
	ConnectN = 4
	MinSize  = ConnectN
)

// Orientation はラインの向き
type Orientation uint8

const (
	Row Orientation = iota
	Column
	Diagonal
	AntiDiagonal
)

var orientationStrings = [...]string{"row", "column", "diagonal", "anti-diagonal"}

func (o Orientation) String() string {
	if int(o) >= len(orientationStrings) {
		return fmt.Sprintf("Orientation(%d)", o)
	}
	return orientationStrings[o]
}

// Point はグリッド上の座標。Col はそのマスに着手するときの列でもある
type Point struct {
	Row int
	Col int
}

// Line は一直線に並ぶ 4 マス
type Line struct {
	Orientation Orientation
	Cells       [ConnectN]Point
}

// Columns は各マスの列を返す
func (l Line) Columns() [ConnectN]int {
	var cols [ConnectN]int
	for i, p := range l.Cells {
		cols[i] = p.Col
	}
	return cols
}

// LineIndex は盤面サイズから決まる全ラインの一覧。生成後は読み取り専用
type LineIndex struct {
	height, width int
	lines         []Line
	nRows, nCols  int
}

// NewLineIndex は height×width の盤面の全ラインを列挙する。
// 並び順は行、列、斜め（対角と反対角の組）で、勝敗判定と Simple AI の走査順になる。
func NewLineIndex(height, width int) (*LineIndex, error) {
	if height < MinSize || width < MinSize {
		return nil, errors.Wrapf(ErrInvalidDimensions, "got %dx%d", height, width)
	}
	nRows := height * (width - 3)
	nCols := width * (height - 3)
	nDiags := 2 * (height - 3) * (width - 3)
	li := &LineIndex{
		height: height,
		width:  width,
		lines:  make([]Line, 0, nRows+nCols+nDiags),
		nRows:  nRows,
		nCols:  nCols,
	}

	// 行: 開始列ごとに全行
	for c := 0; c <= width-ConnectN; c++ {
		for r := 0; r < height; r++ {
			l := Line{Orientation: Row}
			for k := 0; k < ConnectN; k++ {
				l.Cells[k] = Point{r, c + k}
			}
			li.lines = append(li.lines, l)
		}
	}

	// 列: 開始行ごとに全列
	for r := 0; r <= height-ConnectN; r++ {
		for c := 0; c < width; c++ {
			l := Line{Orientation: Column}
			for k := 0; k < ConnectN; k++ {
				l.Cells[k] = Point{r + k, c}
			}
			li.lines = append(li.lines, l)
		}
	}

	// 斜め: 4x4 の部分盤面ごとに対角、反対角
	for c := 0; c <= width-ConnectN; c++ {
		for r := 0; r <= height-ConnectN; r++ {
			d := Line{Orientation: Diagonal}
			a := Line{Orientation: AntiDiagonal}
			for k := 0; k < ConnectN; k++ {
				d.Cells[k] = Point{r + k, c + k}
				a.Cells[k] = Point{r + ConnectN - 1 - k, c + k}
			}
			li.lines = append(li.lines, d, a)
		}
	}
	return li, nil
}

func (li *LineIndex) Height() int { return li.height }
func (li *LineIndex) Width() int  { return li.width }
func (li *LineIndex) Len() int    { return len(li.lines) }

// Lines は生成順の全ライン。呼び出し側は変更しないこと
func (li *LineIndex) Lines() []Line { return li.lines }

func (li *LineIndex) Rows() []Line { return li.lines[:li.nRows] }

func (li *LineIndex) Columns() []Line { return li.lines[li.nRows : li.nRows+li.nCols] }

// Diagonals は対角と反対角が交互に並ぶ
func (li *LineIndex) Diagonals() []Line { return li.lines[li.nRows+li.nCols:] }

// Groups は行、列、斜めの 3 グループを走査順で返す
func (li *LineIndex) Groups() [3][]Line {
	return [3][]Line{li.Rows(), li.Columns(), li.Diagonals()}
}
