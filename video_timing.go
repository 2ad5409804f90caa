// video_timing.go - the scanline/frame pulse generator (spec 4.1, 4.6,
// 4.7, 4.10): drives the three display-synchronized event slots that
// scheduler.go statically enumerates but nothing else in the core
// produces. Grounded on ipc.go's pattern of a small state holder that
// owns a couple of IRQ bit constants and reschedules itself each time
// its handler fires.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// Scanline timing in A9 cycles. These are fixed platform constants
// (not configurable by the guest), matching the documented NDS video
// timebase: 2130 A9 cycles per scanline, 192 visible lines followed by
// 71 vertical-blank lines per frame.
const (
	cyclesPerScanline = 2130
	hdrawCycles       = 1606 // HBlank flag sets at this offset into each scanline
	visibleLines      = 192
	vblankLines       = 71
	linesPerFrame     = visibleLines + vblankLines
)

const (
	irqBitVBlank = 1 << 0
	irqBitHBlank = 1 << 1
	irqBitVCount = 1 << 2
)

// VideoTiming owns the scanline counter and drives VBlank/HBlank/
// display-capture pulses on the A9 local scheduler (spec 4.1's "both
// engines observe display capture/VBlank ticks"). The A7 never runs
// its own copy: both CPUs' IRQ controllers are notified from this one
// timebase, matching real hardware where only the A9's PPU generates
// the video clock.
type VideoTiming struct {
	sched *Scheduler // A9 local scheduler
	irq9  *IrqController
	irq7  *IrqController
	dma9  *DmaBank
	dma7  *DmaBank
	geom  *GeometryEngine
	engine2d *Engine2D

	scanline int

	vblankIrqEnabled9, vblankIrqEnabled7 bool
	hblankIrqEnabled9, hblankIrqEnabled7 bool

	inVBlank bool
	inHBlank bool
}

func NewVideoTiming(sched *Scheduler, irq9, irq7 *IrqController, dma9, dma7 *DmaBank, geom *GeometryEngine) *VideoTiming {
	v := &VideoTiming{sched: sched, irq9: irq9, irq7: irq7, dma9: dma9, dma7: dma7, geom: geom}
	sched.SetHandler(SlotHBlank, v.onHBlank)
	sched.SetHandler(SlotVBlank, v.onVBlank)
	sched.SetHandler(SlotDisplayCapture, v.onDisplayCapture)
	return v
}

// Start schedules the first HBlank pulse; callers invoke this once
// after wiring is complete (spec 9's emulator construction order).
func (v *VideoTiming) Start(now Timestamp) {
	v.sched.Schedule(SlotHBlank, now+hdrawCycles)
}

// SetVBlankIrqEnabled/SetHBlankIrqEnabled let the I/O register fabric
// gate delivery per CPU (DISPSTAT's IRQ-enable bits), without this
// driver needing to know about display-register layout beyond the two
// booleans it consults.
func (v *VideoTiming) SetVBlankIrqEnabled(cpu CpuID, e bool) {
	if cpu == CpuARM9 {
		v.vblankIrqEnabled9 = e
	} else {
		v.vblankIrqEnabled7 = e
	}
}

func (v *VideoTiming) SetHBlankIrqEnabled(cpu CpuID, e bool) {
	if cpu == CpuARM9 {
		v.hblankIrqEnabled9 = e
	} else {
		v.hblankIrqEnabled7 = e
	}
}

// AttachEngine2D wires the per-scanline snapshot emitter (spec 6);
// left nil in configurations that never attach a Renderer2D.
func (v *VideoTiming) AttachEngine2D(e *Engine2D) { v.engine2d = e }

func (v *VideoTiming) InVBlank() bool { return v.inVBlank }
func (v *VideoTiming) InHBlank() bool { return v.inHBlank }
func (v *VideoTiming) Scanline() int  { return v.scanline }

// onHBlank fires at hdrawCycles into the current scanline: raises the
// HBlank condition, fires HBlank-triggered DMA on both banks, and
// requests the HBlank IRQ per CPU if enabled (spec 4.6, 4.7).
func (v *VideoTiming) onHBlank(now Timestamp) {
	v.inHBlank = true

	v.dma9.TriggerEvent(DmaEventHBlank)
	v.dma7.TriggerEvent(DmaEventHBlank)
	if v.hblankIrqEnabled9 {
		v.irq9.Request(irqBitHBlank)
	}
	if v.hblankIrqEnabled7 {
		v.irq7.Request(irqBitHBlank)
	}

	v.sched.Schedule(SlotVBlank, now+(cyclesPerScanline-hdrawCycles))
}

// onVBlank fires at the end of each scanline: advances the scanline
// counter, clears HBlank, and on the scanline boundary that starts
// vertical blank, flips the geometry engine's pending buffer swap and
// fires VBlank DMA/IRQ (spec 4.10's "VBlank is called ... every
// frame").
func (v *VideoTiming) onVBlank(now Timestamp) {
	v.inHBlank = false
	v.scanline++
	if v.scanline >= linesPerFrame {
		v.scanline = 0
	}

	wasVBlank := v.inVBlank
	v.inVBlank = v.scanline >= visibleLines

	if !v.inVBlank && v.engine2d != nil {
		v.engine2d.EmitScanline(v.scanline)
	}

	if v.inVBlank && !wasVBlank {
		v.geom.VBlank()
		v.dma9.TriggerEvent(DmaEventVBlank)
		v.dma7.TriggerEvent(DmaEventVBlank)
		if v.vblankIrqEnabled9 {
			v.irq9.Request(irqBitVBlank)
		}
		if v.vblankIrqEnabled7 {
			v.irq7.Request(irqBitVBlank)
		}
		v.sched.Schedule(SlotDisplayCapture, now+hdrawCycles)
	}

	v.sched.Schedule(SlotHBlank, now+hdrawCycles)
}

// onDisplayCapture fires once per frame during the first vblank
// scanline, matching the display-capture unit's documented timing
// window; the capture unit itself (pixel data movement) is an
// external collaborator, so this slot exists purely to keep the event
// ordering spec 4.1 expects available for a future consumer.
func (v *VideoTiming) onDisplayCapture(now Timestamp) {}
