// vram_usage_regions.go - static tables for the VRAM mapping engine
// (spec 4.5): which usage kinds exist, which banks may select which
// mst value, and which usage kinds are CPU-read-only (skip
// writeback). Recovered in detail from original_source/dust's
// bank_cnt.rs (see SPEC_FULL.md) rather than accepting any mst value.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import "fmt"

// VramUsage enumerates the destinations a bank's bytes can be routed
// to. LCDC is the "plain linear memory, no special routing" mode every
// bank supports.
type VramUsage int

const (
	UsageLcdc VramUsage = iota
	UsageBgA
	UsageObjA
	UsageBgB
	UsageObjB
	UsageTexture
	UsageTexPalette
	UsageExtPaletteBg
	UsageExtPaletteObj
	UsageArm7
	numVramUsages
)

// ReadOnlyUsage reports whether usage is CPU-read-only and therefore
// never participates in writeback (spec 4.5: "Certain usage kinds
// (texture, texture palette, extended palettes) are read-only from
// the CPU and skip writeback").
func (u VramUsage) ReadOnly() bool {
	switch u {
	case UsageTexture, UsageTexPalette, UsageExtPaletteBg, UsageExtPaletteObj:
		return true
	default:
		return false
	}
}

// bankLegalUsages is the per-bank legality table: which mst values
// (indices into this slice) are defined for that bank. An mst value
// outside this table's length is a ConfigurationPanic (spec 4.5, 7),
// matching dust's bank_cnt.rs panic-on-undefined-mst behavior rather
// than silently accepting any value.
var bankLegalUsages = [9][]VramUsage{
	vramBankA: {UsageLcdc, UsageBgA, UsageObjA, UsageTexture},
	vramBankB: {UsageLcdc, UsageBgA, UsageObjA, UsageTexture},
	vramBankC: {UsageLcdc, UsageBgA, UsageArm7, UsageTexture, UsageBgB},
	vramBankD: {UsageLcdc, UsageBgA, UsageArm7, UsageTexture, UsageBgB},
	vramBankE: {UsageLcdc, UsageBgA, UsageObjA, UsageTexPalette, UsageExtPaletteBg},
	vramBankF: {UsageLcdc, UsageBgA, UsageObjA, UsageTexPalette, UsageExtPaletteBg, UsageExtPaletteObj},
	vramBankG: {UsageLcdc, UsageBgA, UsageObjA, UsageTexPalette, UsageExtPaletteBg, UsageExtPaletteObj},
	vramBankH: {UsageLcdc, UsageBgB, UsageExtPaletteBg},
	vramBankI: {UsageLcdc, UsageBgB, UsageObjB, UsageExtPaletteObj},
}

// usageRegionSize is the byte size of one "usage region" a bank can be
// mapped into: the addressable window that kind of usage occupies,
// used to compute offset-into-region modulus (spec 4.5's "offset").
var usageRegionSize = [numVramUsages]uint32{
	UsageLcdc:           128 * 1024,
	UsageBgA:            128 * 1024,
	UsageObjA:           128 * 1024,
	UsageBgB:            32 * 1024,
	UsageObjB:           16 * 1024,
	UsageTexture:        128 * 1024,
	UsageTexPalette:     16 * 1024,
	UsageExtPaletteBg:   8 * 1024,
	UsageExtPaletteObj:  8 * 1024,
	UsageArm7:           128 * 1024,
}

// ConfigurationPanic is the typed panic value spec 7 mandates for
// guest-unrecoverable misconfiguration (nothing in this module recovers
// it, so the process aborts).
type ConfigurationPanic struct{ Reason string }

func (c ConfigurationPanic) String() string { return c.Reason }

func panicConfig(format string, args ...any) {
	panic(ConfigurationPanic{Reason: fmt.Sprintf(format, args...)})
}
