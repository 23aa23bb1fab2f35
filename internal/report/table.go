package report

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment is horizontal alignment of a table column.
type Alignment int

// Alignments.
const (
	AlignLeft Alignment = iota
	AlignRight
)

// Table is markdown table padded by display width, so columns line up
// for names in any script.
type Table struct {
	Header []string
	Align  []Alignment
	Rows   [][]string
}

// Write writes table in markdown syntax.
func (t Table) Write(w io.Writer) error {
	widths := make([]int, len(t.Header))
	for ix, h := range t.Header {
		widths[ix] = max(runewidth.StringWidth(escape(h)), 3)
	}
	for _, row := range t.Rows {
		for ix := 0; ix < len(row) && ix < len(widths); ix++ {
			widths[ix] = max(widths[ix], runewidth.StringWidth(escape(row[ix])))
		}
	}

	var sb strings.Builder

	t.writeRow(&sb, t.Header, widths)

	sb.WriteString("|")
	for ix, width := range widths {
		if t.align(ix) == AlignRight {
			sb.WriteString(" " + strings.Repeat("-", width-1) + ": |")
		} else {
			sb.WriteString(" " + strings.Repeat("-", width) + " |")
		}
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		t.writeRow(&sb, row, widths)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func (t Table) writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")
	for ix, width := range widths {
		var cell string
		if ix < len(row) {
			cell = escape(row[ix])
		}

		sb.WriteString(" ")
		if t.align(ix) == AlignRight {
			sb.WriteString(runewidth.FillLeft(cell, width))
		} else {
			sb.WriteString(runewidth.FillRight(cell, width))
		}
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func (t Table) align(ix int) Alignment {
	if ix < len(t.Align) {
		return t.Align[ix]
	}
	return AlignLeft
}

func escape(cell string) string {
	return strings.ReplaceAll(cell, "|", `\|`)
}
