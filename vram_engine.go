// vram_engine.go - the VRAM bank mapping engine (spec 3, 4.5): nine
// bank-control registers, occupancy bitmaps, single-vs-multi-bank
// routing, and shadow-buffer writeback. Grounded on the teacher's
// VoodooEngine texture-upload staging-buffer idiom (video_voodoo.go),
// which already shows "write lands in a CPU-visible staging buffer,
// then gets reconciled into backing storage" - generalized here from a
// one-shot upload to a continuously dirty-tracked shadow.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// vramWindow is the CPU address window a bank's bytes are routed
// into. Several VramUsage kinds share a window (e.g. texture and
// ordinary BG-A tile data both live in the BG-A window; only their
// semantic tag and read-only-ness differ), matching hardware's actual
// address layout.
type vramWindow int

const (
	windowBgA vramWindow = iota
	windowBgB
	windowObjA
	windowObjB
	windowLcdc
	windowArm7
	numVramWindows
)

func windowFor(u VramUsage) vramWindow {
	switch u {
	case UsageBgA, UsageTexture, UsageTexPalette:
		return windowBgA
	case UsageObjA:
		return windowObjA
	case UsageBgB, UsageExtPaletteBg:
		return windowBgB
	case UsageObjB, UsageExtPaletteObj:
		return windowObjB
	case UsageArm7:
		return windowArm7
	default:
		return windowLcdc
	}
}

// windowBaseAddr/windowSize describe each window's CPU-visible extent
// (spec 4.2's "routed by bits 21..23").
var windowBaseAddr = [numVramWindows]uint32{
	windowBgA:  0x06000000,
	windowBgB:  0x06200000,
	windowObjA: 0x06400000,
	windowObjB: 0x06600000,
	windowLcdc: 0x06800000,
	windowArm7: 0x06000000, // A7's own 0x06xxxxxx view, independent of the A9's
}

var windowSize = [numVramWindows]uint32{
	windowBgA:  0x200000,
	windowBgB:  0x200000,
	windowObjA: 0x200000,
	windowObjB: 0x200000,
	windowLcdc: 0x200000,
	windowArm7: 0x200000,
}

// bankMapping is one bank's currently-resolved placement, or the zero
// value when the bank is disabled.
type bankMapping struct {
	valid     bool
	usage     VramUsage
	window    vramWindow
	pageStart uint32 // first page index within the window
	pageCount uint32
}

// VramEngine owns the nine bank-control registers and the derived
// occupancy/shadow/writeback state (spec 4.5).
type VramEngine struct {
	mem *SystemMemory

	control [numVramBanks]uint8
	mapping [numVramBanks]bankMapping

	occupancy [numVramWindows][]uint16 // per-window, per-page bank bitmask
	shadow    [numVramWindows]*MemoryRegion
	writeback [numVramWindows][]byte // per-byte dirty bitmap

	tableA9, tableA7 *BusPointerTable
}

func NewVramEngine(mem *SystemMemory, tableA9, tableA7 *BusPointerTable) *VramEngine {
	e := &VramEngine{mem: mem, tableA9: tableA9, tableA7: tableA7}
	for w := vramWindow(0); w < numVramWindows; w++ {
		pages := windowSize[w] / pageSize
		e.occupancy[w] = make([]uint16, pages)
		e.shadow[w] = NewMemoryRegion(windowSize[w])
		e.writeback[w] = make([]byte, windowSize[w]/8)
	}
	return e
}

// vramCtrlEnable/vramCtrlMstMask/vramCtrlOffsetShift describe the
// one-byte-per-bank control register layout (spec 4.5: "enabled flag,
// mst, offset").
const (
	vramCtrlEnable      = 1 << 7
	vramCtrlMstMask      = 0x07
	vramCtrlOffsetShift  = 3
	vramCtrlOffsetMask   = 0x03
)

// WriteBankControl installs bank's new control byte, unmapping its
// old contribution and remapping its new one (spec 4.5's two-phase
// "for the previous and new mapping separately" update).
func (e *VramEngine) WriteBankControl(bank int, v uint8) {
	old := e.mapping[bank]
	if old.valid {
		e.adjustOccupancy(bank, old, false)
	}

	e.control[bank] = v
	next := e.resolve(bank, v)
	e.mapping[bank] = next
	if next.valid {
		e.adjustOccupancy(bank, next, true)
	}

	if old.valid {
		e.remapWindow(old.window)
	}
	if next.valid && (!old.valid || next.window != old.window) {
		e.remapWindow(next.window)
	}
}

// resolve decodes a bank-control byte into a mapping, applying the
// per-bank MST legality table and bank H/I's modulo-region-count
// offset handling recovered from original_source/dust (see
// SPEC_FULL.md).
func (e *VramEngine) resolve(bank int, v uint8) bankMapping {
	if v&vramCtrlEnable == 0 {
		return bankMapping{}
	}
	mst := v & vramCtrlMstMask
	legal := bankLegalUsages[bank]
	if int(mst) >= len(legal) {
		panicConfig("vram: bank %d has no usage defined for mst=%d", bank, mst)
	}
	usage := legal[mst]
	window := windowFor(usage)

	bankPages := vramBankSizes[bank] / pageSize
	windowPages := windowSize[window] / pageSize
	regionPages := usageRegionSize[usage] / pageSize
	if regionPages == 0 || regionPages > windowPages {
		regionPages = windowPages
	}

	offsetField := (v >> vramCtrlOffsetShift) & vramCtrlOffsetMask
	// Bank H/I: offset indexes modulo the usage region's page count
	// rather than a flat multiply, matching dust's bank_cnt.rs (spec
	// H/I special-casing, see SPEC_FULL.md).
	var pageStart uint32
	if bank == vramBankH || bank == vramBankI {
		if regionPages == 0 {
			pageStart = 0
		} else {
			pageStart = (uint32(offsetField) * bankPages) % regionPages
		}
	} else {
		pageStart = uint32(offsetField) * bankPages
		if pageStart+bankPages > windowPages {
			pageStart = pageStart % windowPages
		}
	}

	return bankMapping{valid: true, usage: usage, window: window, pageStart: pageStart, pageCount: bankPages}
}

func (e *VramEngine) adjustOccupancy(bank int, m bankMapping, adding bool) {
	bit := uint16(1 << uint(bank))
	occ := e.occupancy[m.window]
	for i := uint32(0); i < m.pageCount; i++ {
		idx := m.pageStart + i
		if int(idx) >= len(occ) {
			continue
		}
		if adding {
			occ[idx] |= bit
		} else {
			occ[idx] &^= bit
		}
	}
}

func popcount9(v uint16) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

// remapWindow recomputes the CPU fast-path mapping for every page of
// window, honoring the single-vs-multi-bank routing rule (spec 4.5).
func (e *VramEngine) remapWindow(w vramWindow) {
	occ := e.occupancy[w]
	base := windowBaseAddr[w]
	tables := e.tablesFor(w)

	for page := 0; page < len(occ); page++ {
		addr := base + uint32(page)*pageSize
		bits := occ[page]
		switch popcount9(bits) {
		case 0:
			for _, t := range tables {
				t.Unmap(addr, pageSize)
			}
		case 1:
			bank := leastBankOf(bits)
			usage := e.mapping[bank].usage
			access := pageAccessBits(accessReadCode | accessReadData)
			if !usage.ReadOnly() {
				access |= accessWrite8 | accessWrite16 | accessWrite32
			}
			regionOffset := addr - windowBaseAddr[w] - (e.mapping[bank].pageStart * pageSize)
			for _, t := range tables {
				t.Map(addr, pageSize, e.mem.VRAM[bank], regionOffset, access, &defaultBusTiming)
			}
		default:
			// Multiple banks contribute: fast path is read-only against
			// the shadow buffer, writes fall through to Access below
			// (spec 4.5). The shadow must already hold the OR of every
			// contributing bank's storage before it goes live on the
			// fast path, or a CPU read landing here before any CPU
			// write touches the page would see stale/zero bytes instead
			// of the OR a slow-path Access would compute.
			e.syncShadowPage(w, addr, bits)
			for _, t := range tables {
				t.Map(addr, pageSize, e.shadow[w], addr-base, accessReadCode|accessReadData, &defaultBusTiming)
			}
		}
	}
}

// syncShadowPage fills one page of window w's shadow buffer with the
// bitwise OR of every bank named in bits, at the given page-aligned
// addr. Called whenever a page transitions into multi-bank occupancy
// so the fast path is never live against a shadow that hasn't been
// reconciled yet (spec 8, scenario 3).
func (e *VramEngine) syncShadowPage(w vramWindow, addr uint32, bits uint16) {
	base := windowBaseAddr[w]
	off := addr - base
	for i := uint32(0); i < pageSize; i++ {
		var result uint8
		for b := 0; b < numVramBanks; b++ {
			if bits&(1<<uint(b)) == 0 {
				continue
			}
			bankOff := off + i - e.mapping[b].pageStart*pageSize
			result |= e.mem.VRAM[b].Read8(bankOff)
		}
		e.shadow[w].Write8(off+i, result)
	}
}

func leastBankOf(bits uint16) int {
	for b := 0; b < numVramBanks; b++ {
		if bits&(1<<uint(b)) != 0 {
			return b
		}
	}
	return 0
}

// tablesFor returns which CPUs' pointer tables a window's remap
// touches. Only the A7-visible window is A7-exclusive; every other
// window is an A9 concern (spec 4.2: the A7 only ever sees banks C/D
// when so assigned, modeled as windowArm7).
func (e *VramEngine) tablesFor(w vramWindow) []*BusPointerTable {
	if w == windowArm7 {
		return []*BusPointerTable{e.tableA7}
	}
	return []*BusPointerTable{e.tableA9}
}

// Access is the slow-path entry point bus_decoders.go calls for
// addresses the fast path didn't resolve: unmapped pages (return
// zero/ignore) and multi-bank pages (OR-read, fan-out write, spec
// 4.5).
func (e *VramEngine) Access(owner CpuID, addr uint32, kind accessKind, v any) any {
	w := windowLcdc
	if owner == CpuARM7 {
		w = windowArm7
	} else {
		sel := addr & 0x00E00000
		switch sel {
		case 0x000000:
			w = windowBgA
		case 0x200000:
			w = windowBgB
		case 0x400000:
			w = windowObjA
		case 0x600000:
			w = windowObjB
		default:
			w = windowLcdc
		}
	}

	base := windowBaseAddr[w]
	page := (addr - base) / pageSize
	if int(page) >= len(e.occupancy[w]) {
		return zeroOf(kind)
	}
	bits := e.occupancy[w][page]
	count := popcount9(bits)
	isWrite := kind == accessDataWrite8 || kind == accessDataWrite16 || kind == accessDataWrite32

	if count == 0 {
		if isWrite {
			debugWarnf("vram: write to unbacked page at 0x%08X", addr)
		}
		return zeroOf(kind)
	}

	if !isWrite {
		// Multi-bank read: bitwise-OR of every contributing bank at
		// this offset (spec 4.5).
		off := addr - base
		var result uint32
		for b := 0; b < numVramBanks; b++ {
			if bits&(1<<uint(b)) == 0 {
				continue
			}
			bankOff := off - e.mapping[b].pageStart*pageSize
			result |= readNatural(e.mem.VRAM[b], bankOff, kind)
		}
		return narrowResult(result, kind)
	}

	// Multi-bank write: fan out to every contributing bank, update the
	// shadow buffer and its per-byte writeback bitmap.
	off := addr - base
	for b := 0; b < numVramBanks; b++ {
		if bits&(1<<uint(b)) == 0 {
			continue
		}
		if e.mapping[b].usage.ReadOnly() {
			continue
		}
		bankOff := off - e.mapping[b].pageStart*pageSize
		writeNatural(e.mem.VRAM[b], bankOff, kind, v)
	}
	writeNatural(e.shadow[w], off, kind, v)
	e.markDirty(w, off, kind)
	return nil
}

func (e *VramEngine) markDirty(w vramWindow, off uint32, kind accessKind) {
	n := uint32(1)
	switch kind {
	case accessDataWrite16:
		n = 2
	case accessDataWrite32:
		n = 4
	}
	wb := e.writeback[w]
	for i := uint32(0); i < n; i++ {
		byteIdx := (off + i) / 8
		bit := byte(1) << ((off + i) % 8)
		if int(byteIdx) < len(wb) {
			wb[byteIdx] |= bit
		}
	}
}

func readNatural(r *MemoryRegion, off uint32, kind accessKind) uint32 {
	switch kind {
	case accessDataRead8:
		return uint32(r.Read8(off))
	case accessDataRead16:
		return uint32(r.Read16(off))
	default:
		return r.Read32(off)
	}
}

func writeNatural(r *MemoryRegion, off uint32, kind accessKind, v any) {
	switch kind {
	case accessDataWrite8:
		r.Write8(off, v.(uint8))
	case accessDataWrite16:
		r.Write16(off, v.(uint16))
	case accessDataWrite32:
		r.Write32(off, v.(uint32))
	}
}

func narrowResult(v uint32, kind accessKind) any {
	switch kind {
	case accessDataRead8:
		return uint8(v)
	case accessDataRead16:
		return uint16(v)
	default:
		return v
	}
}

// Reset clears every bank control register back to disabled.
func (e *VramEngine) Reset() {
	for i := range e.control {
		e.WriteBankControl(i, 0)
	}
	for w := range e.shadow {
		e.shadow[w].Clear()
		for i := range e.writeback[w] {
			e.writeback[w][i] = 0
		}
	}
}
