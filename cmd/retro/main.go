// Command retro is the reference host for the emulation engine: it selects
// one of the three machines, optionally loads a ROM image and a program,
// and either drives it from a raw terminal or from an interactive bubbletea
// TUI, per spec §6. It follows the teacher's flat, flag-free main.go
// convention (`./intuition_engine [-ie32|-m68k] filename`), extended only
// with the standard library flag package for the host's own knobs — the
// engine packages underneath never import flag, fmt, or log.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/otley-retro/trimachine/internal/altair8800"
	"github.com/otley-retro/trimachine/internal/apple1"
	"github.com/otley-retro/trimachine/internal/nascom"
	"github.com/otley-retro/trimachine/internal/softload"
)

// Nominal clock rates, used only to turn -fps into a per-tick cycle budget
// (spec §5 "callers enforce wall-clock pacing by choosing n to match one
// animation frame").
const (
	apple1Hz = 1_000_000
	nascomHz = 1_774_000
	altairHz = 2_000_000
)

func main() {
	machine := flag.String("machine", "apple1", "machine to run: apple1, nascom, altair8800")
	romPath := flag.String("rom", "", "path to a ROM image (apple1: monitor ROM at 0xFF00; nascom: lower ROM at 0x0000)")
	loadPath := flag.String("load", "", "path to a program image to load via System.LoadSoftware")
	loadAddr := flag.String("addr", "0x0000", "load address for -load, e.g. 0x0300")
	fps := flag.Int("fps", 60, "animation frames per second; controls the per-tick cycle budget")
	perf := flag.Bool("perf", false, "enable InstructionCount bookkeeping and report it (each frame; once on halt for headless altair8800)")
	tui := flag.Bool("tui", false, "run the interactive bubbletea TUI instead of a plain terminal loop")
	flag.Parse()

	addr64, err := strconv.ParseUint(*loadAddr, 0, 16)
	if err != nil {
		log.Fatalf("retro: invalid -addr %q: %v", *loadAddr, err)
	}
	addr := uint16(addr64)

	switch *machine {
	case "apple1":
		runApple1(*romPath, *loadPath, addr, *fps, *perf, *tui)
	case "nascom":
		runNascom(*romPath, *loadPath, addr, *fps, *perf, *tui)
	case "altair8800":
		runAltair(*romPath, *loadPath, addr, *fps, *perf, *tui)
	default:
		log.Fatalf("retro: unknown -machine %q (want apple1, nascom or altair8800)", *machine)
	}
}

func readFileOrDie(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("retro: %v", err)
	}
	return data
}

func runApple1(romPath, loadPath string, addr uint16, fps int, perf, tui bool) {
	sys := apple1.New()
	sys.CPU.PerfEnabled = perf

	if romPath != "" {
		sys.Bus.LoadROM(readFileOrDie(romPath))
		sys.Reset()
	}
	if loadPath != "" {
		entry, err := softload.FromFile(loadPath, addr, apple1.OverlapsROM)
		if err != nil {
			log.Fatalf("retro: %v", err)
		}
		sys.LoadSoftware(entry)
	}

	cyclesPerTick := apple1Hz / fps
	if tui {
		runTUI(apple1Model{sys: sys, cyclesPerTick: cyclesPerTick, fps: fps, perf: perf})
		return
	}
	runApple1Headless(sys, cyclesPerTick, fps, perf)
}

func runNascom(romPath, loadPath string, addr uint16, fps int, perf, tui bool) {
	sys := nascom.New()
	sys.CPU.PerfEnabled = perf

	if romPath != "" {
		sys.Mem.LoadROM(readFileOrDie(romPath))
		sys.Reset()
	}
	if loadPath != "" {
		entry, err := softload.FromFile(loadPath, addr, nascom.OverlapsROM)
		if err != nil {
			log.Fatalf("retro: %v", err)
		}
		sys.LoadSoftware(entry)
	}

	cyclesPerTick := nascomHz / fps
	if tui {
		runTUI(nascomModel{sys: sys, cyclesPerTick: cyclesPerTick, fps: fps, perf: perf})
		return
	}
	runNascomHeadless(sys, cyclesPerTick, fps, perf)
}

func runAltair(romPath, loadPath string, addr uint16, fps int, perf, tui bool) {
	sys := altair8800.New()
	sys.CPU.PerfEnabled = perf

	if romPath != "" {
		log.Fatalf("retro: altair8800 has no protected ROM window (spec §4.2); use -load to deposit a boot image instead")
	}
	if loadPath != "" {
		entry, err := softload.FromFile(loadPath, addr, nil)
		if err != nil {
			log.Fatalf("retro: %v", err)
		}
		sys.LoadSoftware(entry)
	}
	sys.Panel.AddressSwitches = addr
	sys.Panel.Examine()
	sys.Panel.Run()

	cyclesPerTick := altairHz / fps
	if tui {
		runTUI(newAltairModel(sys, cyclesPerTick, fps, perf))
		return
	}
	runAltairHeadless(sys, cyclesPerTick, fps, perf)
}

func runTUI(model tea.Model) {
	if _, err := tea.NewProgram(model).Run(); err != nil {
		log.Fatalf("retro: %v", err)
	}
}

// rawStdin puts stdin in raw mode and returns a channel of bytes read from
// it one at a time, mirroring the teacher's TerminalHost: raw mode disables
// OS-level echo and line buffering so keystrokes reach the engine one at a
// time instead of only after Enter. The returned restore func must be
// deferred by the caller.
func rawStdin() (keys <-chan byte, restore func(), err error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, nil, fmt.Errorf("setting raw mode: %w", err)
	}

	ch := make(chan byte, 16)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				ch <- buf[0]
			}
			if err != nil {
				close(ch)
				return
			}
		}
	}()

	return ch, func() { _ = term.Restore(fd, oldState) }, nil
}

// asciiToMatrix maps a 7-bit ASCII byte onto the nascom keyboard matrix's
// 8x8 (row, col) address space. The real keyboard's physical layout is
// outside the engine's contract (spec §7 leaves row/col addressing to the
// caller); this host picks a simple, reversible split of the byte's bits.
func asciiToMatrix(b byte) (row, col int) {
	return int(b>>3) & 7, int(b) & 7
}

func runApple1Headless(sys *apple1.System, cyclesPerTick, fps int, perf bool) {
	keys, restore, err := rawStdin()
	if err != nil {
		log.Fatalf("retro: %v", err)
	}
	defer restore()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	fmt.Print("\033[2J")
	for range ticker.C {
		select {
		case b, ok := <-keys:
			if !ok {
				return
			}
			if b == 0x1B {
				return
			}
			sys.KeyPress(b & 0x7F)
		default:
		}

		sys.Run(cyclesPerTick)

		fmt.Print("\033[H")
		for _, line := range sys.Terminal.GetLines() {
			fmt.Println(line)
		}
		if perf {
			fmt.Printf("instructions: %d\n", sys.CPU.InstructionCount)
		}
	}
}

func runNascomHeadless(sys *nascom.System, cyclesPerTick, fps int, perf bool) {
	keys, restore, err := rawStdin()
	if err != nil {
		log.Fatalf("retro: %v", err)
	}
	defer restore()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	fmt.Print("\033[2J")
	for range ticker.C {
		select {
		case b, ok := <-keys:
			if !ok {
				return
			}
			if b == 0x1B {
				return
			}
			row, col := asciiToMatrix(b & 0x7F)
			sys.KeyDown(row, col)
			sys.KeyUp(row, col)
		default:
		}

		sys.Run(cyclesPerTick)

		fmt.Print("\033[H")
		for row := 0; row < 16; row++ {
			fmt.Println(sys.Video.DecodeRow(row))
		}
		if perf {
			fmt.Printf("instructions: %d  halted: %v\n", sys.CPU.InstructionCount, sys.IsHalted())
		}
	}
}

func runAltairHeadless(sys *altair8800.System, cyclesPerTick, fps int, perf bool) {
	sys.Serial.TxOut = func(b byte) { fmt.Printf("%c", b) }

	keys, restore, err := rawStdin()
	if err != nil {
		log.Fatalf("retro: %v", err)
	}
	defer restore()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for range ticker.C {
		select {
		case b, ok := <-keys:
			if !ok {
				return
			}
			if b == 0x1B {
				return
			}
			sys.Serial.Push(b & 0x7F)
		default:
		}

		sys.Run(cyclesPerTick)

		if sys.CPU.Halted {
			if perf {
				fmt.Printf("\n[halted after %d instructions]\n", sys.CPU.InstructionCount)
			}
			return
		}
	}
}
