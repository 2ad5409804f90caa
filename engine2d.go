// engine2d.go - the A9's 2D engine register file (spec 6's "snapshot
// of background registers, window registers, palette and OAM
// snapshot"). Owns every MMIO register dust's engine_2d/render.rs
// enumerates (SPEC_FULL.md) and hands a ScanlineSnapshot to the
// external Renderer2D once per visible scanline; never composites a
// pixel itself. Grounded on the teacher's video_chip.go register-file
// shape (a flat array of control registers plus a per-scanline
// "compose and hand to the backend" call), adapted from "one chip, one
// scanline callback" to "one register file, one snapshot struct."

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	ioDispcnt    = 0x04000000
	ioBgCntBase  = 0x04000008 // BG0CNT..BG3CNT, 2 bytes each
	ioBgHOfsBase = 0x04000010
	ioBgVOfsBase = 0x04000012
	ioBgPStride  = 0x04
	ioBgXYBase   = 0x04000028 // BG2X/Y, BG3X/Y (affine reference points), 4 bytes each
	ioBgPABase   = 0x04000020 // BG2PA..BG3PD, 2 bytes each
	ioWin0HBase  = 0x04000040
	ioWin1HBase  = 0x04000042
	ioWin0VBase  = 0x04000044
	ioWin1VBase  = 0x04000046
	ioWinInBase  = 0x04000048
	ioWinOutBase = 0x04000049
	ioMosaic     = 0x0400004C
	ioBldCnt     = 0x04000050
	ioBldAlpha   = 0x04000052
	ioBldY       = 0x04000054
)

// Engine2D owns the A9 main 2D engine's register state (spec 6) and
// the shared Palette/OAM blocks it snapshots alongside them.
type Engine2D struct {
	mem *SystemMemory

	dispcnt uint32

	bgControl [4]uint16
	bgHOfs    [4]uint16
	bgVOfs    [4]uint16
	bgPA, bgPB, bgPC, bgPD [2]int16
	bgRefX, bgRefY         [2]int32

	win0H, win1H, win0V, win1V uint16
	winIn, winOut              uint16

	mosaic uint16

	bldCnt   uint16
	bldAlpha uint16
	bldY     uint16

	renderer Renderer2D
}

func NewEngine2D(mem *SystemMemory) *Engine2D { return &Engine2D{mem: mem} }

// AttachRenderer wires the external scanline compositor (spec 6).
// Emitting a snapshot with no renderer attached is a silent no-op:
// headless/test configurations run the core without one.
func (e *Engine2D) AttachRenderer(r Renderer2D) { e.renderer = r }

// EmitScanline builds and hands off the snapshot for the given line
// (spec 6). Called by VideoTiming once per visible scanline (spec
// 4.7's per-scanline cadence), never during VBlank lines.
func (e *Engine2D) EmitScanline(line int) {
	if e.renderer == nil {
		return
	}
	snap := ScanlineSnapshot{
		Scanline:      line,
		BgControl:     e.bgControl,
		BgScrollX:     e.bgHOfs,
		BgScrollY:     e.bgVOfs,
		BgRotA:        e.bgPA,
		BgRotB:        e.bgPB,
		BgRotC:        e.bgPC,
		BgRotD:        e.bgPD,
		BgRefX:        e.bgRefX,
		BgRefY:        e.bgRefY,
		Win0Control:   uint8(e.winIn),
		Win1Control:   uint8(e.winIn >> 8),
		WinOutControl: uint8(e.winOut),
		WinObjControl: uint8(e.winOut >> 8),
		Win0Left:      uint8(e.win0H >> 8),
		Win0Right:     uint8(e.win0H),
		Win1Left:      uint8(e.win1H >> 8),
		Win1Right:     uint8(e.win1H),
		Win0Top:       uint8(e.win0V >> 8),
		Win0Bottom:    uint8(e.win0V),
		Win1Top:       uint8(e.win1V >> 8),
		Win1Bottom:    uint8(e.win1V),
		MosaicControl: e.mosaic,
		BlendMode:     uint8((e.bldCnt >> 6) & 0x3),
		BlendEVA:      uint8(e.bldAlpha & 0x1F),
		BlendEVB:      uint8((e.bldAlpha >> 8) & 0x1F),
		BlendEVY:      uint8(e.bldY & 0x1F),
		MasterBright:  int16(e.bldY),
	}
	copy(snap.Palette[:], e.mem.Palette.Bytes())
	copy(snap.OAM[:], e.mem.OAM.Bytes())
	e.renderer.Scanline(snap)
}

func (e *Engine2D) ReadIO16(addr uint32) uint16 {
	switch {
	case addr == ioDispcnt:
		return uint16(e.dispcnt)
	case addr == ioDispcnt+2:
		return uint16(e.dispcnt >> 16)
	case addr >= ioBgCntBase && addr < ioBgCntBase+4*2:
		return e.bgControl[(addr-ioBgCntBase)/2]
	case addr >= ioBgHOfsBase && addr < ioBgHOfsBase+4*4:
		i := (addr - ioBgHOfsBase) / 4
		if (addr-ioBgHOfsBase)%4 == 0 {
			return e.bgHOfs[i]
		}
		return e.bgVOfs[i]
	case addr == ioWin0HBase:
		return e.win0H
	case addr == ioWin1HBase:
		return e.win1H
	case addr == ioWin0VBase:
		return e.win0V
	case addr == ioWin1VBase:
		return e.win1V
	case addr == ioWinInBase:
		return e.winIn
	case addr == ioMosaic:
		return e.mosaic
	case addr == ioBldCnt:
		return e.bldCnt
	case addr == ioBldAlpha:
		return e.bldAlpha
	case addr == ioBldY:
		return e.bldY
	}
	return 0
}

func (e *Engine2D) WriteIO16(addr uint32, v uint16) {
	switch {
	case addr == ioDispcnt:
		e.dispcnt = write16Into32Lo(e.dispcnt, v)
	case addr == ioDispcnt+2:
		e.dispcnt = write16Into32Hi(e.dispcnt, v)
	case addr >= ioBgCntBase && addr < ioBgCntBase+4*2:
		e.bgControl[(addr-ioBgCntBase)/2] = v
	case addr >= ioBgHOfsBase && addr < ioBgHOfsBase+4*4:
		i := (addr - ioBgHOfsBase) / 4
		if (addr-ioBgHOfsBase)%4 == 0 {
			e.bgHOfs[i] = v & 0x1FF
		} else {
			e.bgVOfs[i] = v & 0x1FF
		}
	case addr >= ioBgPABase && addr < ioBgPABase+2*8:
		rel := (addr - ioBgPABase) / 2
		bg := rel / 4
		switch rel % 4 {
		case 0:
			e.bgPA[bg] = int16(v)
		case 1:
			e.bgPB[bg] = int16(v)
		case 2:
			e.bgPC[bg] = int16(v)
		case 3:
			e.bgPD[bg] = int16(v)
		}
	case addr >= ioBgXYBase && addr < ioBgXYBase+4*4:
		rel := (addr - ioBgXYBase) / 4
		bg := rel / 2
		lo := rel%2 == 0
		if bg%2 == 0 {
			if lo {
				e.bgRefX[0] = int32(v) | (e.bgRefX[0] & ^int32(0xFFFF))
			} else {
				e.bgRefX[0] = int32(uint32(v)<<16) | (e.bgRefX[0] & 0xFFFF)
			}
		} else {
			if lo {
				e.bgRefY[0] = int32(v) | (e.bgRefY[0] & ^int32(0xFFFF))
			} else {
				e.bgRefY[0] = int32(uint32(v)<<16) | (e.bgRefY[0] & 0xFFFF)
			}
		}
	case addr == ioWin0HBase:
		e.win0H = v
	case addr == ioWin1HBase:
		e.win1H = v
	case addr == ioWin0VBase:
		e.win0V = v
	case addr == ioWin1VBase:
		e.win1V = v
	case addr == ioWinInBase:
		e.winIn = v
	case addr == ioMosaic:
		e.mosaic = v
	case addr == ioBldCnt:
		e.bldCnt = v
	case addr == ioBldAlpha:
		e.bldAlpha = v
	case addr == ioBldY:
		e.bldY = v & 0x1F
	}
}
