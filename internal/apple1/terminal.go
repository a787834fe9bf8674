package apple1

const (
	terminalRows = 24
	terminalCols = 40
)

// TerminalModel is a 40x24 character buffer with cursor, wrap and scroll,
// fed by the PIA's display byte stream per spec §4.3.
type TerminalModel struct {
	lines      [terminalRows]string
	row, col   int
}

// NewTerminalModel returns an empty 24-row terminal with the cursor at
// (0, 0).
func NewTerminalModel() *TerminalModel {
	return &TerminalModel{}
}

// Write consumes one byte from the PIA display stream. Only 0x20..=0x5F and
// 0x0D have any effect; everything else is discarded, per spec §6.
func (t *TerminalModel) Write(b byte) {
	switch {
	case b == 0x0D:
		t.newline()
	case b >= 0x20 && b <= 0x5F:
		t.put(b)
	}
}

func (t *TerminalModel) put(b byte) {
	line := t.lines[t.row]
	for len(line) < t.col {
		line += " "
	}
	if t.col < len(line) {
		line = line[:t.col] + string(b) + line[t.col+1:]
	} else {
		line += string(b)
	}
	t.lines[t.row] = line
	t.col++
	if t.col >= terminalCols {
		t.newline()
	}
}

func (t *TerminalModel) newline() {
	t.col = 0
	if t.row == terminalRows-1 {
		t.scroll()
		return
	}
	t.row++
}

func (t *TerminalModel) scroll() {
	copy(t.lines[:], t.lines[1:])
	t.lines[terminalRows-1] = ""
}

// Cursor returns the current (row, col) position.
func (t *TerminalModel) Cursor() (int, int) { return t.row, t.col }

// GetLines returns each of the 24 rows, padded to exactly 40 characters.
func (t *TerminalModel) GetLines() [terminalRows]string {
	var out [terminalRows]string
	for i, line := range t.lines {
		for len(line) < terminalCols {
			line += " "
		}
		out[i] = line
	}
	return out
}
