// Package softload turns a file on disk into a software.Entry, the only
// package under internal/ where a failed operation surfaces as a Go error: the
// engine packages themselves are lenient (spec §7), but "file not found" and
// "program too large for its window" are host-level failures, matching the
// teacher's CPU6502Runner.LoadProgram / CPUZ80Runner.LoadProgram split.
package softload

import (
	"fmt"
	"os"

	"github.com/otley-retro/trimachine/internal/software"
)

// ROMWindow reports whether a region starting at start for length bytes
// overlaps a machine's ROM space. Each machine package supplies its own
// (apple1.OverlapsROM, nascom.OverlapsROM); the altair8800 machine has no
// ROM window, so callers pass nil there.
type ROMWindow func(start uint16, length int) bool

// FromFile reads path in full and wraps it in a single-region software.Entry
// starting at addr, with the entry point set to addr. window classifies the
// region against the target machine's ROM space; a nil window always yields
// OverlaysROM == false.
func FromFile(path string, addr uint16, window ROMWindow) (software.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return software.Entry{}, fmt.Errorf("softload: reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return software.Entry{}, fmt.Errorf("softload: %s is empty", path)
	}
	if len(data) > 0x10000 {
		return software.Entry{}, fmt.Errorf("softload: %s is %d bytes, too large for a 64KiB address space", path, len(data))
	}

	overlaysROM := false
	if window != nil {
		overlaysROM = window(addr, len(data))
	}

	return software.Entry{
		Regions:     []software.Region{{Start: addr, Bytes: data}},
		EntryPoint:  addr,
		OverlaysROM: overlaysROM,
	}, nil
}
