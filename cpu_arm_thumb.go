// cpu_arm_thumb.go - Thumb-state execution (spec 4.11): a flat
// 256-entry table indexed by the top byte of the halfword, covering
// the nineteen Thumb instruction formats.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

type thumbHandler func(c *Interpreter, instr uint16)

var thumbTable = thumbOpTable()

func (c *Interpreter) stepThumb() uint32 {
	pc := c.r[15]
	instr := c.bus.ReadCode16(pc)
	c.r[15] = pc + 2
	thumbTable[instr>>8](c, instr)
	return 1
}

func thumbOpTable() [256]thumbHandler {
	var t [256]thumbHandler
	for i := range t {
		t[i] = classifyThumb(uint8(i))
	}
	return t
}

func classifyThumb(top uint8) thumbHandler {
	switch {
	case top&0xF8 == 0x18:
		return thumbAddSub
	case top&0xE0 == 0x00:
		return thumbMoveShifted
	case top&0xE0 == 0x20:
		return thumbImmediateOp
	case top&0xFC == 0x40:
		return thumbAluOp
	case top&0xFC == 0x44:
		return thumbHiRegOrBx
	case top&0xF8 == 0x48:
		return thumbPcRelLoad
	case top&0xF2 == 0x52:
		return thumbLoadStoreSignExt
	case top&0xF0 == 0x50:
		return thumbLoadStoreRegOffset
	case top&0xE0 == 0x60:
		return thumbLoadStoreImmWord
	case top&0xF0 == 0x80:
		return thumbLoadStoreHalfword
	case top&0xF0 == 0x70:
		return thumbLoadStoreImmByte
	case top&0xF0 == 0x90:
		return thumbSpRelLoadStore
	case top&0xF0 == 0xA0:
		return thumbLoadAddress
	case top&0xFF == 0xB0:
		return thumbAddOffsetSp
	case top&0xF6 == 0xB4:
		return thumbPushPop
	case top&0xF0 == 0xC0:
		return thumbMultipleLoadStore
	case top&0xF0 == 0xD0 && top != 0xDF:
		return thumbConditionalBranch
	case top == 0xDF:
		return thumbSoftwareInterrupt
	case top&0xF8 == 0xE0:
		return thumbUnconditionalBranch
	case top&0xF0 == 0xF0:
		return thumbLongBranchLink
	default:
		return thumbUndefined
	}
}

func thumbUndefined(c *Interpreter, instr uint16) {
	c.JumpToExceptionVector(ExceptionUndefined)
}

func thumbSoftwareInterrupt(c *Interpreter, instr uint16) {
	c.JumpToExceptionVector(ExceptionSWI)
}

// thumbMoveShifted: format 1 (LSL/LSR/ASR Rd, Rs, #imm5).
func thumbMoveShifted(c *Interpreter, instr uint16) {
	op := (instr >> 11) & 0x3
	amount := uint32((instr >> 6) & 0x1F)
	rs := (instr >> 3) & 0x7
	rd := instr & 0x7
	val, carry := barrelShift(c.r[rs], uint32(op), amount, false, c.flag(cpsrC))
	c.r[rd] = val
	c.setFlag(cpsrN, val&0x80000000 != 0)
	c.setFlag(cpsrZ, val == 0)
	c.setFlag(cpsrC, carry)
}

// thumbAddSub: format 2 (ADD/SUB Rd, Rs, Rn|#imm3).
func thumbAddSub(c *Interpreter, instr uint16) {
	immediate := instr&(1<<10) != 0
	isSub := instr&(1<<9) != 0
	rnOrImm := uint32((instr >> 6) & 0x7)
	rs := (instr >> 3) & 0x7
	rd := instr & 0x7

	operand := rnOrImm
	if !immediate {
		operand = c.r[rnOrImm]
	}

	var result uint32
	var carry, overflow bool
	if isSub {
		result, carry, overflow = subWithFlags(c.r[rs], operand)
	} else {
		result, carry, overflow = addWithFlags(c.r[rs], operand)
	}
	c.r[rd] = result
	c.setFlag(cpsrN, result&0x80000000 != 0)
	c.setFlag(cpsrZ, result == 0)
	c.setFlag(cpsrC, carry)
	c.setFlag(cpsrV, overflow)
}

// thumbImmediateOp: format 3 (MOV/CMP/ADD/SUB Rd, #imm8).
func thumbImmediateOp(c *Interpreter, instr uint16) {
	op := (instr >> 11) & 0x3
	rd := (instr >> 8) & 0x7
	imm := uint32(instr & 0xFF)

	switch op {
	case 0: // MOV
		c.r[rd] = imm
		c.setFlag(cpsrN, false)
		c.setFlag(cpsrZ, imm == 0)
	case 1: // CMP
		result, carry, overflow := subWithFlags(c.r[rd], imm)
		c.setFlag(cpsrN, result&0x80000000 != 0)
		c.setFlag(cpsrZ, result == 0)
		c.setFlag(cpsrC, carry)
		c.setFlag(cpsrV, overflow)
	case 2: // ADD
		result, carry, overflow := addWithFlags(c.r[rd], imm)
		c.r[rd] = result
		c.setFlag(cpsrN, result&0x80000000 != 0)
		c.setFlag(cpsrZ, result == 0)
		c.setFlag(cpsrC, carry)
		c.setFlag(cpsrV, overflow)
	case 3: // SUB
		result, carry, overflow := subWithFlags(c.r[rd], imm)
		c.r[rd] = result
		c.setFlag(cpsrN, result&0x80000000 != 0)
		c.setFlag(cpsrZ, result == 0)
		c.setFlag(cpsrC, carry)
		c.setFlag(cpsrV, overflow)
	}
}

// thumbAluOp: format 4, the 2-register ALU operations.
func thumbAluOp(c *Interpreter, instr uint16) {
	op := (instr >> 6) & 0xF
	rs := (instr >> 3) & 0x7
	rd := instr & 0x7
	a, b := c.r[rd], c.r[rs]
	var result uint32
	var carry, overflow bool
	setCV := false
	switch op {
	case 0x0:
		result = a & b
	case 0x1:
		result = a ^ b
	case 0x2:
		result, _ = barrelShift(a, 0, b&0xFF, true, c.flag(cpsrC))
		carry = shiftedCarryOnly(a, 0, b&0xFF, c.flag(cpsrC))
		c.setFlag(cpsrC, carry)
	case 0x3:
		result, _ = barrelShift(a, 1, b&0xFF, true, c.flag(cpsrC))
		c.setFlag(cpsrC, shiftedCarryOnly(a, 1, b&0xFF, c.flag(cpsrC)))
	case 0x4:
		result, _ = barrelShift(a, 2, b&0xFF, true, c.flag(cpsrC))
		c.setFlag(cpsrC, shiftedCarryOnly(a, 2, b&0xFF, c.flag(cpsrC)))
	case 0x5:
		result, carry, overflow = addWithFlags3(a, b, c.flag(cpsrC))
		setCV = true
	case 0x6:
		result, carry, overflow = sbcWithFlags(a, b, c.flag(cpsrC))
		setCV = true
	case 0x7:
		result, _ = barrelShift(a, 3, b&0xFF, true, c.flag(cpsrC))
		c.setFlag(cpsrC, shiftedCarryOnly(a, 3, b&0xFF, c.flag(cpsrC)))
	case 0x8:
		result = a & b // TST
	case 0x9:
		result, carry, overflow = subWithFlags(0, b) // NEG
		setCV = true
	case 0xA:
		result, carry, overflow = subWithFlags(a, b) // CMP
		setCV = true
	case 0xB:
		result, carry, overflow = addWithFlags(a, b) // CMN
		setCV = true
	case 0xC:
		result = a | b
	case 0xD:
		result = a * b
	case 0xE:
		result = a &^ b
	case 0xF:
		result = ^b
	}

	if op != 0x8 && op != 0xA && op != 0xB {
		c.r[rd] = result
	}
	if setCV {
		c.setFlag(cpsrC, carry)
		c.setFlag(cpsrV, overflow)
	}
	c.setFlag(cpsrN, result&0x80000000 != 0)
	c.setFlag(cpsrZ, result == 0)
}

func shiftedCarryOnly(val uint32, shiftType uint32, amount uint32, carryIn bool) bool {
	_, carry := barrelShift(val, shiftType, amount, true, carryIn)
	return carry
}

// thumbHiRegOrBx: format 5 (hi-register ADD/CMP/MOV, BX).
func thumbHiRegOrBx(c *Interpreter, instr uint16) {
	op := (instr >> 8) & 0x3
	hi1 := instr&(1<<7) != 0
	hi2 := instr&(1<<6) != 0
	rs := uint32((instr >> 3) & 0x7)
	rd := uint32(instr & 0x7)
	if hi2 {
		rs += 8
	}
	if hi1 {
		rd += 8
	}

	switch op {
	case 0:
		c.r[rd] += c.r[rs]
	case 1:
		result, carry, overflow := subWithFlags(c.r[rd], c.r[rs])
		c.setFlag(cpsrN, result&0x80000000 != 0)
		c.setFlag(cpsrZ, result == 0)
		c.setFlag(cpsrC, carry)
		c.setFlag(cpsrV, overflow)
	case 2:
		c.r[rd] = c.r[rs]
	case 3:
		target := c.r[rs]
		c.setFlag(cpsrThumb, target&1 != 0)
		c.r[15] = target &^ 1
		return
	}
	if rd == 15 {
		c.r[15] &^= 1
	}
}

// thumbPcRelLoad: format 6 (LDR Rd, [PC, #imm8*4]).
func thumbPcRelLoad(c *Interpreter, instr uint16) {
	rd := (instr >> 8) & 0x7
	imm := uint32(instr&0xFF) * 4
	base := (c.r[15] &^ 3) + imm
	c.r[rd] = c.bus.Read32(base)
}

// thumbLoadStoreRegOffset: format 7.
func thumbLoadStoreRegOffset(c *Interpreter, instr uint16) {
	opc := (instr >> 10) & 0x3
	ro := (instr >> 6) & 0x7
	rb := (instr >> 3) & 0x7
	rd := instr & 0x7
	addr := c.r[rb] + c.r[ro]
	switch opc {
	case 0:
		c.bus.Write32(addr, c.r[rd])
	case 1:
		c.bus.Write8(addr, uint8(c.r[rd]))
	case 2:
		c.r[rd] = c.bus.Read32(addr)
	case 3:
		c.r[rd] = uint32(c.bus.Read8(addr))
	}
}

// thumbLoadStoreSignExt: format 8 (LDRH/LDSB/LDSH/STRH with register offset).
func thumbLoadStoreSignExt(c *Interpreter, instr uint16) {
	hFlag := instr&(1<<11) != 0
	signExt := instr&(1<<10) != 0
	ro := (instr >> 6) & 0x7
	rb := (instr >> 3) & 0x7
	rd := instr & 0x7
	addr := c.r[rb] + c.r[ro]

	switch {
	case !signExt && !hFlag:
		c.bus.Write16(addr, uint16(c.r[rd]))
	case !signExt && hFlag:
		c.r[rd] = uint32(c.bus.Read16(addr))
	case signExt && !hFlag:
		c.r[rd] = uint32(int32(int8(c.bus.Read8(addr))))
	default:
		c.r[rd] = uint32(int32(int16(c.bus.Read16(addr))))
	}
}

// thumbLoadStoreImmWord: format 9, word/byte variant selected by bit12.
func thumbLoadStoreImmWord(c *Interpreter, instr uint16) {
	byteAccess := instr&(1<<12) != 0
	isLoad := instr&(1<<11) != 0
	imm := uint32((instr >> 6) & 0x1F)
	rb := (instr >> 3) & 0x7
	rd := instr & 0x7

	if byteAccess {
		addr := c.r[rb] + imm
		if isLoad {
			c.r[rd] = uint32(c.bus.Read8(addr))
		} else {
			c.bus.Write8(addr, uint8(c.r[rd]))
		}
		return
	}
	addr := c.r[rb] + imm*4
	if isLoad {
		c.r[rd] = c.bus.Read32(addr)
	} else {
		c.bus.Write32(addr, c.r[rd])
	}
}

func thumbLoadStoreImmByte(c *Interpreter, instr uint16) { thumbLoadStoreImmWord(c, instr) }

// thumbLoadStoreHalfword: format 10.
func thumbLoadStoreHalfword(c *Interpreter, instr uint16) {
	isLoad := instr&(1<<11) != 0
	imm := uint32((instr>>6)&0x1F) * 2
	rb := (instr >> 3) & 0x7
	rd := instr & 0x7
	addr := c.r[rb] + imm
	if isLoad {
		c.r[rd] = uint32(c.bus.Read16(addr))
	} else {
		c.bus.Write16(addr, uint16(c.r[rd]))
	}
}

// thumbSpRelLoadStore: format 11.
func thumbSpRelLoadStore(c *Interpreter, instr uint16) {
	isLoad := instr&(1<<11) != 0
	rd := (instr >> 8) & 0x7
	imm := uint32(instr&0xFF) * 4
	addr := c.r[13] + imm
	if isLoad {
		c.r[rd] = c.bus.Read32(addr)
	} else {
		c.bus.Write32(addr, c.r[rd])
	}
}

// thumbLoadAddress: format 12 (ADD Rd, PC|SP, #imm8*4).
func thumbLoadAddress(c *Interpreter, instr uint16) {
	useSp := instr&(1<<11) != 0
	rd := (instr >> 8) & 0x7
	imm := uint32(instr&0xFF) * 4
	if useSp {
		c.r[rd] = c.r[13] + imm
	} else {
		c.r[rd] = (c.r[15] &^ 3) + imm
	}
}

// thumbAddOffsetSp: format 13 (ADD SP, #+/-imm7*4).
func thumbAddOffsetSp(c *Interpreter, instr uint16) {
	imm := uint32(instr&0x7F) * 4
	if instr&(1<<7) != 0 {
		c.r[13] -= imm
	} else {
		c.r[13] += imm
	}
}

// thumbPushPop: format 14.
func thumbPushPop(c *Interpreter, instr uint16) {
	isPop := instr&(1<<11) != 0
	pcLr := instr&(1<<8) != 0
	list := instr & 0xFF

	if isPop {
		addr := c.r[13]
		for i := 0; i < 8; i++ {
			if list&(1<<i) != 0 {
				c.r[i] = c.bus.Read32(addr)
				addr += 4
			}
		}
		if pcLr {
			c.r[15] = c.bus.Read32(addr) &^ 1
			addr += 4
		}
		c.r[13] = addr
		return
	}

	count := 0
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			count++
		}
	}
	if pcLr {
		count++
	}
	addr := c.r[13] - uint32(count)*4
	c.r[13] = addr
	for i := 0; i < 8; i++ {
		if list&(1<<i) != 0 {
			c.bus.Write32(addr, c.r[i])
			addr += 4
		}
	}
	if pcLr {
		c.bus.Write32(addr, c.r[14])
	}
}

// thumbMultipleLoadStore: format 15 (LDMIA/STMIA! Rb, {list}).
func thumbMultipleLoadStore(c *Interpreter, instr uint16) {
	isLoad := instr&(1<<11) != 0
	rb := (instr >> 8) & 0x7
	list := instr & 0xFF
	addr := c.r[rb]
	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0 {
			continue
		}
		if isLoad {
			c.r[i] = c.bus.Read32(addr)
		} else {
			c.bus.Write32(addr, c.r[i])
		}
		addr += 4
	}
	c.r[rb] = addr
}

// thumbConditionalBranch: format 16.
func thumbConditionalBranch(c *Interpreter, instr uint16) {
	cond := uint32((instr >> 8) & 0xF)
	if !c.conditionPasses(cond) {
		return
	}
	offset := int32(int8(instr & 0xFF)) * 2
	c.r[15] = uint32(int32(c.r[15]+4) + offset)
}

// thumbUnconditionalBranch: format 18.
func thumbUnconditionalBranch(c *Interpreter, instr uint16) {
	offset := (int32(instr&0x7FF) << 21 >> 20) // sign-extend the 11-bit field, then *2
	c.r[15] = uint32(int32(c.r[15]+4) + offset)
}

// thumbLongBranchLink: format 19, two halfwords (H=0 sets LR, H=1
// completes the branch and returns).
func thumbLongBranchLink(c *Interpreter, instr uint16) {
	high := instr&(1<<11) != 0
	off := uint32(instr & 0x7FF)
	if !high {
		signed := int32(off << 21) >> 9 // sign-extend 11 bits into bit31..21 position
		c.r[14] = uint32(int32(c.r[15]+4) + signed)
		return
	}
	target := c.r[14] + off<<1
	c.r[14] = (c.r[15]) | 1
	c.r[15] = target &^ 1
}
