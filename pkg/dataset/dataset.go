// Package dataset collects per-move records and writes them as CSV or JSON lines.
package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/montplusa/connect-four/pkg/game"
)

// Buffer keeps the records of one game in memory. Not safe for concurrent use.
type Buffer struct {
	Records []game.Record
}

func (b *Buffer) Record(rec game.Record) error {
	b.Records = append(b.Records, rec)
	return nil
}

func (b *Buffer) Reset() { b.Records = b.Records[:0] }

// Writer persists finished games.
type Writer interface {
	Write(recs []game.Record) error
	Flush() error
}

// CSVWriter writes one row per move: game, move, player, choice and one
// col_i field per column holding that column top-down as a JSON list.
type CSVWriter struct {
	w      *csv.Writer
	width  int
	header bool
}

func NewCSVWriter(w io.Writer, width int) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), width: width}
}

func (cw *CSVWriter) Header() []string {
	h := []string{"game", "move", "player", "choice"}
	for c := 0; c < cw.width; c++ {
		h = append(h, fmt.Sprintf("col_%d", c))
	}
	return h
}

func (cw *CSVWriter) Write(recs []game.Record) error {
	if !cw.header {
		if err := cw.w.Write(cw.Header()); err != nil {
			return errors.Wrap(err, "writing csv header")
		}
		cw.header = true
	}
	for _, rec := range recs {
		row := []string{rec.GameID.String(), strconv.Itoa(rec.Move), rec.Player, strconv.Itoa(rec.Column)}
		for c := 0; c < cw.width; c++ {
			row = append(row, columnField(rec.Grid, c))
		}
		if err := cw.w.Write(row); err != nil {
			return errors.Wrapf(err, "writing move %d of game %s", rec.Move, rec.GameID)
		}
	}
	return nil
}

func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func columnField(grid [][]int, col int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := range grid {
		if r > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(grid[r][col]))
	}
	sb.WriteByte(']')
	return sb.String()
}

// JSONWriter writes one game.Record per line.
type JSONWriter struct {
	enc *json.Encoder
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

func (jw *JSONWriter) Write(recs []game.Record) error {
	for _, rec := range recs {
		if err := jw.enc.Encode(rec); err != nil {
			return errors.Wrapf(err, "encoding move %d of game %s", rec.Move, rec.GameID)
		}
	}
	return nil
}

func (jw *JSONWriter) Flush() error { return nil }
