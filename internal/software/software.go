// Package software defines the loader-facing representation of a runnable
// image: a set of byte regions plus an entry point, consumed by each
// machine's System.LoadSoftware. It is deliberately machine-agnostic —
// the classification of "does this overlay ROM space" is left to the
// consuming bus, since only the bus knows where its ROM window sits.
package software

// Region is a contiguous run of bytes destined for a fixed start address.
// Start wraps modulo 0x10000 when the loader writes it, per spec semantics.
type Region struct {
	Start uint16
	Bytes []byte
}

// Entry is the lifecycle object loaders construct and System.LoadSoftware
// consumes: a list of regions plus where execution should resume.
type Entry struct {
	Regions    []Region
	EntryPoint uint16

	// OverlaysROM, when true, tells the consuming System that at least one
	// region falls inside ROM space and a post-load reset is required so
	// the CPU re-reads its reset vector (spec §4.2 "Region loading").
	OverlaysROM bool
}

// Empty reports whether the entry carries no regions at all, in which case
// LoadSoftware must be a no-op per spec §7 ("Software entry with empty
// regions").
func (e Entry) Empty() bool {
	return len(e.Regions) == 0
}
