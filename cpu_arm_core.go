// cpu_arm_core.go - the shared ARMv4T/v5TE core (spec 4.11, 9): register
// file, banked modes, CPSR/SPSR, exception entry, and the Step() driver
// that picks ARM or Thumb decode and indexes a flat function-pointer
// table with no branches, matching spec 9's design note. Grounded on
// the teacher's CPU_Z80/CPU_IE32 "plain struct + flat opcode table"
// shape (cpu_z80.go's baseOps/cbOps/ddOps arrays), generalized from one
// 256-entry table to ARM's 4096-entry primary table plus a 256-entry
// Thumb table.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// CpuMode is the processor mode encoded in CPSR bits 4:0.
type CpuMode uint32

const (
	ModeUser       CpuMode = 0x10
	ModeFIQ        CpuMode = 0x11
	ModeIRQ        CpuMode = 0x12
	ModeSupervisor CpuMode = 0x13
	ModeAbort      CpuMode = 0x17
	ModeUndefined  CpuMode = 0x1B
	ModeSystem     CpuMode = 0x1F
)

// CPSR bit positions this core models.
const (
	cpsrN     = 1 << 31
	cpsrZ     = 1 << 30
	cpsrC     = 1 << 29
	cpsrV     = 1 << 28
	cpsrIrqD  = 1 << 7
	cpsrFiqD  = 1 << 6
	cpsrThumb = 1 << 5
	cpsrModeMask = 0x1F
)

// ArmVersion distinguishes the A7's ARMv4T from the A9's ARMv5TE
// (spec 3's two-CPU split). It is recorded per Interpreter but no
// handler consults it: CLZ and BLX are not decoded on either core. The
// only difference between the two is the coprocessor bus: MRC/MCR reach
// CP15 on the A9 and trap as undefined on the A7, which has no Cp15.
type ArmVersion int

const (
	ArmV4T ArmVersion = iota
	ArmV5TE
)

// Interpreter implements CpuEngine (spec 4.11) for one CPU core. Two
// instances exist, one per CPU, sharing this type and differing only
// in version and which Bus/Cp15 they're wired to.
type Interpreter struct {
	id      CpuID
	version ArmVersion
	bus     *Bus
	cp15    *Cp15         // non-nil only for the A9; MRC/MCR on the A7 trap undefined
	irq     *IrqController // delivery gating lives here, not in a local flag

	r    [16]uint32 // current-mode view; r13=SP, r14=LR, r15=PC
	cpsr uint32

	// Banked registers. FIQ alone banks r8-r12 separately from every
	// other mode (which all share one r8-r12 pool); every privileged
	// mode additionally banks its own r13/r14 and SPSR.
	nonFiqR8_12 [5]uint32
	fiqR8_12    [5]uint32
	usrBank     [2]uint32 // User/System r13,r14
	fiqBank     [2]uint32 // FIQ r13,r14
	svcBank     [2]uint32
	abtBank     [2]uint32
	irqBank     [2]uint32
	undBank     [2]uint32
	spsrFiq, spsrSvc uint32
	spsrAbt, spsrIrq uint32
	spsrUnd          uint32

	halted            bool
	tBitLoadDisabled  bool
	highVectors       bool

	cycles uint64
}

func NewInterpreter(id CpuID, version ArmVersion, bus *Bus) *Interpreter {
	cpu := &Interpreter{id: id, version: version, bus: bus}
	cpu.cpsr = uint32(ModeSupervisor)
	bus.SetPCSource(func() uint32 { return cpu.r[15] })
	return cpu
}

func (c *Interpreter) AttachCp15(cp15 *Cp15) { c.cp15 = cp15 }

// AttachIrq wires the controller whose Pending() governs whether an
// IRQ exception is taken at the next fetch boundary (spec 4.8): the
// master-enable/IE/IF gating lives in one place, the controller, not
// duplicated into a local pending flag.
func (c *Interpreter) AttachIrq(irq *IrqController) { c.irq = irq }

func (c *Interpreter) mode() CpuMode      { return CpuMode(c.cpsr & cpsrModeMask) }
func (c *Interpreter) thumb() bool        { return c.cpsr&cpsrThumb != 0 }
func (c *Interpreter) setFlag(bit uint32, v bool) {
	if v {
		c.cpsr |= bit
	} else {
		c.cpsr &^= bit
	}
}
func (c *Interpreter) flag(bit uint32) bool { return c.cpsr&bit != 0 }

// switchMode banks out the outgoing mode's r13/r14 (and r8-r14, SPSR
// for FIQ) and banks in the incoming mode's, matching the ARM
// register-window architecture (spec 9's "tagged variant" CPU model
// lives entirely inside this single concrete engine).
func (c *Interpreter) switchMode(next CpuMode) {
	cur := c.mode()
	if cur == next {
		return
	}

	// r8-r12: only FIQ diverges from the shared pool every other mode
	// uses, so the swap only happens crossing the FIQ boundary.
	if cur == ModeFIQ && next != ModeFIQ {
		copy(c.fiqR8_12[:], c.r[8:13])
		copy(c.r[8:13], c.nonFiqR8_12[:])
	} else if cur != ModeFIQ && next == ModeFIQ {
		copy(c.nonFiqR8_12[:], c.r[8:13])
		copy(c.r[8:13], c.fiqR8_12[:])
	}

	c.r13r14Bank(cur)[0], c.r13r14Bank(cur)[1] = c.r[13], c.r[14]
	bank := c.r13r14Bank(next)
	c.r[13], c.r[14] = bank[0], bank[1]

	c.cpsr = (c.cpsr &^ cpsrModeMask) | uint32(next)
}

// r13r14Bank returns the storage slot backing r13/r14 for mode m. User
// and System share one slot, matching real ARM register banking.
func (c *Interpreter) r13r14Bank(m CpuMode) *[2]uint32 {
	switch m {
	case ModeFIQ:
		return &c.fiqBank
	case ModeSupervisor:
		return &c.svcBank
	case ModeAbort:
		return &c.abtBank
	case ModeIRQ:
		return &c.irqBank
	case ModeUndefined:
		return &c.undBank
	default:
		return &c.usrBank
	}
}

func (c *Interpreter) spsr() *uint32 {
	switch c.mode() {
	case ModeFIQ:
		return &c.spsrFiq
	case ModeSupervisor:
		return &c.spsrSvc
	case ModeAbort:
		return &c.spsrAbt
	case ModeIRQ:
		return &c.spsrIrq
	case ModeUndefined:
		return &c.spsrUnd
	}
	return nil // User/System have no SPSR
}

// --- CpuEngine ---

func (c *Interpreter) PC() uint32     { return c.r[15] }
func (c *Interpreter) Halted() bool   { return c.halted }
func (c *Interpreter) SetHalted(h bool) { c.halted = h }

func (c *Interpreter) SetTBitLoadDisabled(d bool) { c.tBitLoadDisabled = d }
func (c *Interpreter) SetHighExceptionVectors(h bool) { c.highVectors = h }

// RequestIRQ/ClearIRQ exist to satisfy CpuEngine; this engine reads
// delivery state straight from the attached IrqController instead of
// mirroring it into a local flag, so both are no-ops here.
func (c *Interpreter) RequestIRQ(mask uint32) {}
func (c *Interpreter) ClearIRQ(mask uint32)   {}

// InvalidateWord is a no-op: this is a pure interpreter with no cached
// decode (spec 4.11's capability must still exist so bus code never
// special-cases the concrete engine).
func (c *Interpreter) InvalidateWord(addr uint32) {}

func (c *Interpreter) Registers() []RegisterSnapshot {
	names := [16]string{"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "r8", "r9", "r10", "r11", "r12", "sp", "lr", "pc"}
	out := make([]RegisterSnapshot, 0, 17)
	for i, n := range names {
		out = append(out, RegisterSnapshot{Name: n, Value: c.r[i]})
	}
	out = append(out, RegisterSnapshot{Name: "cpsr", Value: c.cpsr})
	return out
}

// exceptionVectors maps each kind to its offset from the vector base
// (0x00000000 normally, 0xFFFF0000 with CP15's high-vectors bit set,
// spec 4.4).
var exceptionVectors = map[ExceptionKind]uint32{
	ExceptionReset:         0x00,
	ExceptionUndefined:     0x04,
	ExceptionSWI:           0x08,
	ExceptionPrefetchAbort: 0x0C,
	ExceptionDataAbort:     0x10,
	ExceptionIRQ:           0x18,
	ExceptionFIQ:           0x1C,
}

var exceptionMode = map[ExceptionKind]CpuMode{
	ExceptionReset:         ModeSupervisor,
	ExceptionUndefined:     ModeUndefined,
	ExceptionSWI:           ModeSupervisor,
	ExceptionPrefetchAbort: ModeAbort,
	ExceptionDataAbort:     ModeAbort,
	ExceptionIRQ:           ModeIRQ,
	ExceptionFIQ:           ModeFIQ,
}

// JumpToExceptionVector implements spec 4.8's delivery mechanics: save
// CPSR to the target mode's SPSR, save the return address to its LR,
// force ARM state and IRQs disabled (FIQs too for reset/FIQ), switch
// mode, and set PC to the vector.
func (c *Interpreter) JumpToExceptionVector(kind ExceptionKind) {
	// r[15] already holds the address of the not-yet-executed next
	// instruction (Step advances it before dispatch, see stepArm /
	// stepThumb). SWI/Undefined return with a plain "MOVS PC, LR", so
	// LR = r[15] unadjusted; IRQ/FIQ/abort handlers conventionally
	// return via "SUBS PC, LR, #4", so LR is pre-biased by 4 to
	// compensate, matching real hardware's pipeline-derived offset
	// without this core needing to model the pipeline itself.
	link := c.r[15]
	if kind != ExceptionSWI && kind != ExceptionUndefined {
		link += 4
	}
	savedCPSR := c.cpsr

	c.switchMode(exceptionMode[kind])
	if s := c.spsr(); s != nil {
		*s = savedCPSR
	}
	c.r[14] = link

	c.setFlag(cpsrThumb, false)
	c.setFlag(cpsrIrqD, true)
	if kind == ExceptionReset || kind == ExceptionFIQ {
		c.setFlag(cpsrFiqD, true)
	}

	base := uint32(0)
	if c.highVectors {
		base = 0xFFFF0000
	}
	c.r[15] = base + exceptionVectors[kind]
	c.halted = false
}

// Step executes exactly one instruction (spec 4.11) and returns the
// number of local cycles it consumed. Halt and pending-IRQ checks
// happen at the fetch boundary, matching spec 5's suspension-point
// rule.
func (c *Interpreter) Step() uint32 {
	if c.halted {
		return 1
	}
	if c.irq != nil && c.irq.Pending() && !c.flag(cpsrIrqD) {
		c.JumpToExceptionVector(ExceptionIRQ)
		return 3
	}
	if c.thumb() {
		return c.stepThumb()
	}
	return c.stepArm()
}

// conditionPasses evaluates an ARM condition-code nibble against the
// current flags.
func (c *Interpreter) conditionPasses(cond uint32) bool {
	n, z, cf, v := c.flag(cpsrN), c.flag(cpsrZ), c.flag(cpsrC), c.flag(cpsrV)
	switch cond {
	case 0x0:
		return z
	case 0x1:
		return !z
	case 0x2:
		return cf
	case 0x3:
		return !cf
	case 0x4:
		return n
	case 0x5:
		return !n
	case 0x6:
		return v
	case 0x7:
		return !v
	case 0x8:
		return cf && !z
	case 0x9:
		return !cf || z
	case 0xA:
		return n == v
	case 0xB:
		return n != v
	case 0xC:
		return !z && n == v
	case 0xD:
		return z || n != v
	case 0xE:
		return true
	default:
		return false // 0xF is reserved/unpredictable; treat as never
	}
}
