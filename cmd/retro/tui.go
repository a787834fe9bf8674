package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/otley-retro/trimachine/internal/altair8800"
	"github.com/otley-retro/trimachine/internal/apple1"
	"github.com/otley-retro/trimachine/internal/nascom"
)

// tickMsg drives the emulated machine forward by one frame's worth of
// cycles, scheduled by tea.Tick the way hejops-gone's debugger model drives
// single CPU steps from key presses instead — here the clock, not the
// keyboard, is what advances the machine.
type tickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

var (
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	ledOnStyle  = lipgloss.NewStyle().Bold(true)
	ledOffStyle = lipgloss.NewStyle().Faint(true)
)

func quitKey(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return true
	default:
		return false
	}
}

// --- Apple 1 ---

type apple1Model struct {
	sys           *apple1.System
	cyclesPerTick int
	fps           int
	perf          bool
}

func (m apple1Model) Init() tea.Cmd { return tick(m.fps) }

func (m apple1Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quitKey(msg) {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter {
			m.sys.KeyPress(0x0D)
		} else if len(msg.Runes) == 1 {
			m.sys.KeyPress(byte(msg.Runes[0]) & 0x7F)
		}
		return m, nil
	case tickMsg:
		m.sys.Run(m.cyclesPerTick)
		return m, tick(m.fps)
	}
	return m, nil
}

func (m apple1Model) View() string {
	lines := m.sys.Terminal.GetLines()
	row, col := m.sys.Terminal.Cursor()
	rendered := make([]string, len(lines))
	for i, line := range lines {
		if i != row || col >= len(line) {
			rendered[i] = line
			continue
		}
		rendered[i] = line[:col] + cursorStyle.Render(string(line[col])) + line[col+1:]
	}
	body := strings.Join(rendered, "\n")
	footer := dimStyle.Render("Apple 1  |  ctrl+c/esc to quit")
	if m.perf {
		footer += dimStyle.Render(fmt.Sprintf("  |  %d instructions", m.sys.CPU.InstructionCount))
	}
	return panelStyle.Render(body) + "\n" + footer
}

// --- Nascom ---

type nascomModel struct {
	sys           *nascom.System
	cyclesPerTick int
	fps           int
	perf          bool
}

func (m nascomModel) Init() tea.Cmd { return tick(m.fps) }

func (m nascomModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quitKey(msg) {
			return m, tea.Quit
		}
		if len(msg.Runes) == 1 {
			row, col := asciiToMatrix(byte(msg.Runes[0]) & 0x7F)
			m.sys.KeyDown(row, col)
			m.sys.KeyUp(row, col)
		}
		return m, nil
	case tickMsg:
		m.sys.Run(m.cyclesPerTick)
		return m, tick(m.fps)
	}
	return m, nil
}

func (m nascomModel) View() string {
	rows := make([]string, 16)
	for i := range rows {
		rows[i] = m.sys.Video.DecodeRow(i)
	}
	body := strings.Join(rows, "\n")
	status := "running"
	if m.sys.IsHalted() {
		status = "halted"
	}
	footer := dimStyle.Render(fmt.Sprintf("Nascom  |  %s  |  ctrl+c/esc to quit", status))
	if m.perf {
		footer += dimStyle.Render(fmt.Sprintf("  |  %d instructions", m.sys.CPU.InstructionCount))
	}
	return panelStyle.Render(body) + "\n" + footer
}

// --- Altair 8800 ---

type altairModel struct {
	sys           *altair8800.System
	cyclesPerTick int
	fps           int
	perf          bool
	output        *strings.Builder
}

// newAltairModel wires the serial output sink once, at construction, to a
// shared builder pointer that survives every value-copy bubbletea makes of
// the model across Update calls.
func newAltairModel(sys *altair8800.System, cyclesPerTick, fps int, perf bool) altairModel {
	m := altairModel{sys: sys, cyclesPerTick: cyclesPerTick, fps: fps, perf: perf, output: &strings.Builder{}}
	out := m.output
	sys.Serial.TxOut = func(b byte) { out.WriteByte(b) }
	return m
}

func (m altairModel) Init() tea.Cmd { return tick(m.fps) }

func (m altairModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if quitKey(msg) {
			return m, tea.Quit
		}
		if len(msg.Runes) == 1 {
			m.sys.Serial.Push(byte(msg.Runes[0]) & 0x7F)
		}
		return m, nil
	case tickMsg:
		if !m.sys.CPU.Halted {
			m.sys.Run(m.cyclesPerTick)
		}
		return m, tick(m.fps)
	}
	return m, nil
}

func (m altairModel) View() string {
	leds := func(on bool) lipgloss.Style {
		if on {
			return ledOnStyle
		}
		return ledOffStyle
	}
	var addrLEDs, dataLEDs strings.Builder
	for bit := 15; bit >= 0; bit-- {
		on := m.sys.Panel.AddressLEDs&(1<<uint(bit)) != 0
		addrLEDs.WriteString(leds(on).Render("*"))
	}
	for bit := 7; bit >= 0; bit-- {
		on := m.sys.Panel.DataLEDs&(1<<uint(bit)) != 0
		dataLEDs.WriteString(leds(on).Render("*"))
	}
	panel := fmt.Sprintf("ADDR %s\nDATA %s", addrLEDs.String(), dataLEDs.String())
	status := "running"
	if m.sys.CPU.Halted {
		status = "halted"
	}
	footer := dimStyle.Render(fmt.Sprintf("Altair 8800  |  %s  |  ctrl+c/esc to quit", status))
	if m.perf {
		footer += dimStyle.Render(fmt.Sprintf("  |  %d instructions", m.sys.CPU.InstructionCount))
	}
	return panelStyle.Render(panel) + "\n" + panelStyle.Render(m.output.String()) + "\n" + footer
}
