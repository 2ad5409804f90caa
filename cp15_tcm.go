// cp15_tcm.go - tightly-coupled memory (spec 4.4): base/size decoding,
// disabled/load/normal mode semantics, and the DTCM-then-ITCM overlay
// order applied to the A9's bus-pointer table.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// tcmBackingSize is the owned storage each TCM region is backed by.
// Real hardware's largest configurable windows (32KB ITCM, 16KB DTCM)
// fit comfortably; a region configured larger than this is clamped to
// it (sizeBytes), so the part of the window past tcmBackingSize is not
// overlaid and falls through to the ordinary bus.
const tcmBackingSize = 32 * 1024

// TcmMode is the three-way mode spec 4.4 describes.
type TcmMode int

const (
	TcmDisabled TcmMode = iota
	TcmLoad
	TcmNormal
)

// TcmControl is one TCM's base/size configuration register (spec 4.4).
type TcmControl struct {
	base      uint32
	sizeShift uint8 // size = 0x200 << sizeShift, sizeShift in [3,23]
}

func (t TcmControl) sizeBytes() uint32 {
	shift := t.sizeShift
	if shift > 23 {
		shift = 23
	}
	size := uint32(0x200) << shift
	if size > tcmBackingSize {
		size = tcmBackingSize
	}
	return size
}

func (c *Cp15) readTcmReg(cm, op2 int) uint32 {
	switch {
	case cm == 1 && op2 == 0:
		return encodeTcmReg(c.dtcm)
	case cm == 1 && op2 == 1:
		return encodeTcmReg(c.itcm)
	}
	return 0
}

func (c *Cp15) writeTcmReg(cm, op2 int, v uint32) {
	switch {
	case cm == 1 && op2 == 0:
		c.dtcm = decodeTcmReg(v)
		c.recomputeTcmOverlay()
	case cm == 1 && op2 == 1:
		c.itcm = decodeTcmReg(v)
		c.itcm.base = 0 // ITCM base is always 0; the stored field is ignored (spec 4.4)
		c.recomputeTcmOverlay()
	}
}

func encodeTcmReg(t TcmControl) uint32 {
	return (t.base &^ 0xFFF) | uint32(t.sizeShift)<<1
}

func decodeTcmReg(v uint32) TcmControl {
	return TcmControl{base: v &^ 0xFFF, sizeShift: uint8((v >> 1) & 0x1F)}
}

func (c *Cp15) dtcmMode() TcmMode {
	if c.control&cp15CtrlDtcmEnable == 0 {
		return TcmDisabled
	}
	if c.control&cp15CtrlDtcmLoadMode != 0 {
		return TcmLoad
	}
	return TcmNormal
}

func (c *Cp15) itcmMode() TcmMode {
	if c.control&cp15CtrlItcmEnable == 0 {
		return TcmDisabled
	}
	if c.control&cp15CtrlItcmLoadMode != 0 {
		return TcmLoad
	}
	return TcmNormal
}

// recomputeTcmOverlay rebuilds the A9 pointer-table overlay for both
// TCMs from scratch (spec 4.4: "computes, as a batch, a minimal unmap
// set and one or two overlay sets ... then merges adjacent ranges").
// Merging is unnecessary here since each TCM is installed as one
// contiguous Map call; DTCM is applied first, ITCM second so it wins
// on any overlap (spec 4.4's stated overlay priority).
func (c *Cp15) recomputeTcmOverlay() {
	if c.dtcmPrevSize > 0 {
		c.table.Unmap(c.dtcmPrevBase, c.dtcmPrevSize)
		c.dtcmPrevSize = 0
	}
	if c.itcmPrevSize > 0 {
		c.table.Unmap(c.itcmPrevBase, c.itcmPrevSize)
		c.itcmPrevSize = 0
	}

	if mode := c.dtcmMode(); mode != TcmDisabled {
		size := c.dtcm.sizeBytes()
		base := c.dtcm.base &^ (pageSize - 1)
		c.table.Map(base, size, c.dtcmStore, 0, tcmAccessBits(mode, false), &zeroWaitTiming)
		c.dtcmPrevBase, c.dtcmPrevSize = base, size
	}

	if mode := c.itcmMode(); mode != TcmDisabled {
		size := c.itcm.sizeBytes()
		c.table.Map(0, size, c.itcmStore, 0, tcmAccessBits(mode, true), &zeroWaitTiming)
		c.itcmPrevBase, c.itcmPrevSize = 0, size
	}
}

// tcmAccessBits implements spec 4.4's load/normal contract: load mode
// accepts writes only (reads miss to whatever underlies the window);
// normal mode serves both reads and writes, for both the code and
// data fetch paths since a TCM has no separate code/data storage.
func tcmAccessBits(mode TcmMode, isCode bool) pageAccessBits {
	bits := pageAccessBits(accessWrite8 | accessWrite16 | accessWrite32)
	if mode == TcmNormal {
		bits |= accessReadCode | accessReadData
	}
	_ = isCode
	return bits
}
