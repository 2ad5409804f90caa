// bus_timing_table.go - TimingTable: a page-indexed vector of 7-lane
// cost vectors serving the cycle accountant (spec 3). Populated by
// bus defaults, then overlaid by CP15's cache/TCM model (spec 4.4) and
// by VRAM bank routing (spec 4.5) exactly like BusPointerTable.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// TimingLane indexes the seven cost lanes of a TimingEntry.
type TimingLane int

const (
	TimingReadNonseq16 TimingLane = iota
	TimingReadNonseq32
	TimingReadSeq32
	TimingWriteNonseq16
	TimingWriteNonseq32
	TimingWriteSeq32
	TimingCodeFetch
	numTimingLanes
)

// TimingEntry is the 7-lane cost vector for one page.
type TimingEntry [numTimingLanes]uint8

// defaultBusTiming is the un-cached, non-TCM cost vector for ordinary
// bus regions (main RAM-class access costs; exact cycle counts are a
// platform constant table owned by the ambient frontend, not the
// core - the core only needs consistent relative costs to drive the
// scheduler). Values chosen to match GBA/NDS bus-width folklore: 32-bit
// accesses to a 16-bit bus cost two sequential fetches.
var defaultBusTiming = TimingEntry{
	TimingReadNonseq16:  1,
	TimingReadNonseq32:  2,
	TimingReadSeq32:     1,
	TimingWriteNonseq16: 1,
	TimingWriteNonseq32: 2,
	TimingWriteSeq32:    1,
	TimingCodeFetch:     1,
}

// cachedCodeTiming / cachedDataTiming implement spec 4.4's cache-hint
// timing model: "Code cache: all 1-cycle. Data cache: 3 for nonseq and
// 1 for seq." These are not per-page computed; they are the two fixed
// vectors CP15 installs over a region when that region's cache flag
// and the global cache-enable are both set.
var cachedCodeTiming = TimingEntry{
	TimingReadNonseq16: 1, TimingReadNonseq32: 1, TimingReadSeq32: 1,
	TimingWriteNonseq16: 1, TimingWriteNonseq32: 1, TimingWriteSeq32: 1,
	TimingCodeFetch: 1,
}

var cachedDataTiming = TimingEntry{
	TimingReadNonseq16: 3, TimingReadNonseq32: 3, TimingReadSeq32: 1,
	TimingWriteNonseq16: 3, TimingWriteNonseq32: 3, TimingWriteSeq32: 1,
	TimingCodeFetch: 1,
}

// zeroWaitTiming is the TCM overlay cost vector: ITCM/DTCM are
// zero-wait-state by construction.
var zeroWaitTiming = TimingEntry{
	TimingReadNonseq16: 1, TimingReadNonseq32: 1, TimingReadSeq32: 1,
	TimingWriteNonseq16: 1, TimingWriteNonseq32: 1, TimingWriteSeq32: 1,
	TimingCodeFetch: 1,
}
