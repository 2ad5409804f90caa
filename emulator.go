// emulator.go - the top-level owning container (spec 9's "single
// owning container" design note): constructs every component in
// spec 2's dependency order, wires the cross-references each
// component needs to its peers, and exposes the handful of
// operations an ambient frontend drives (load BIOS, run, reset).
// Grounded on the teacher's top-level Machine/CoprocessorManager
// construction idiom (coprocessor_manager.go's NewCoprocessorManager,
// which wires a fixed set of worker backends to one shared register
// file) generalized from "one register file, N workers" to "one
// memory/bus substrate, two CPUs."

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// Option configures an Emulator at construction time (SPEC_FULL's
// "plain functional options" ambient choice, matching the teacher's
// NewAudioChip/NewCoprocessorManager-style plain-value constructors
// rather than a parsed config struct).
type Option func(*emulatorConfig)

type emulatorConfig struct {
	renderer2D Renderer2D
	renderer3D Renderer3D
	audioSink  AudioSink
}

// WithRenderer2D attaches the external scanline compositor (spec 6).
func WithRenderer2D(r Renderer2D) Option { return func(c *emulatorConfig) { c.renderer2D = r } }

// WithRenderer3D attaches the external 3D renderer (spec 6, 4.10).
func WithRenderer3D(r Renderer3D) Option { return func(c *emulatorConfig) { c.renderer3D = r } }

// WithAudioSink attaches a narrow PCM sink (spec 6's "audio... narrow
// byte-level interfaces the core consumes but does not define"). The
// emulator stores the sink; no core component writes samples to it.
func WithAudioSink(s AudioSink) Option { return func(c *emulatorConfig) { c.audioSink = s } }

// Emulator owns every shared byte block, both CPUs' private state,
// and the schedulers, per spec 3's ownership summary: "each CPU
// struct exclusively owns its bus-pointer table, timing table, local
// scheduler, DMA/timer/IRQ instances, and IPC halves. Main RAM,
// shared WRAM, VRAM banks, and the scheduler's global side are owned
// by the top-level emulator and referenced by both CPUs."
type Emulator struct {
	Mem *SystemMemory

	Sched9 *Scheduler
	Sched7 *Scheduler
	Global *GlobalScheduler

	Table9 *BusPointerTable
	Table7 *BusPointerTable

	Vram *VramEngine
	Swram *SwramController

	Irq9 *IrqController
	Irq7 *IrqController

	Dma9 *DmaBank
	Dma7 *DmaBank

	Timers9 *TimerBank
	Timers7 *TimerBank

	Ipc *Ipc

	Cp15 *Cp15

	Geom *GeometryEngine

	Engine2D *Engine2D

	Io9 *IoArm9
	Io7 *IoArm7

	Bus9 *Bus
	Bus7 *Bus

	Arm9 *Interpreter
	Arm7 *Interpreter

	Video *VideoTiming

	Runner *Runner

	renderer2D Renderer2D
	audioSink  AudioSink
}

// NewEmulator constructs every component in spec 2's leaves-first
// dependency order and wires the cross-references each later
// component needs. No component rebuilds a pointer graph later
// (spec 9): everything is wired exactly once, here.
func NewEmulator(opts ...Option) *Emulator {
	cfg := emulatorConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	e := &Emulator{renderer2D: cfg.renderer2D, audioSink: cfg.audioSink}

	// 1. clock + schedulers (no dependencies).
	e.Sched9 = NewScheduler(CpuARM9)
	e.Sched7 = NewScheduler(CpuARM7)
	e.Global = NewGlobalScheduler()

	// 2. owned memory blocks.
	e.Mem = NewSystemMemory()

	// 3. bus pointer tables, one per CPU.
	e.Table9 = NewBusPointerTable()
	e.Table7 = NewBusPointerTable()

	// IRQ controllers precede DMA/timers/IPC, all of which request
	// interrupts through them.
	e.Irq9 = NewIrqController(CpuARM9)
	e.Irq7 = NewIrqController(CpuARM7)

	// Buses need the I/O fabric and VRAM engine, both constructed
	// below; build buses last among this group and patch references
	// in afterward rather than guessing at a forward declaration.
	e.Bus9 = NewBus(CpuARM9, e.Table9, e.Mem, nil, nil)
	e.Bus7 = NewBus(CpuARM7, e.Table7, e.Mem, nil, nil)

	// 4/6. VRAM mapping engine, shared by both CPUs' bus decoders.
	e.Vram = NewVramEngine(e.Mem, e.Table9, e.Table7)
	e.Bus9.vram = e.Vram
	e.Bus7.vram = e.Vram
	e.Swram = NewSwramController(e.Mem)
	e.Bus9.AttachSwram(e.Swram)
	e.Bus7.AttachSwram(e.Swram)

	// geometry FIFO + dispatch needs the A9 local scheduler, the
	// global scheduler (for stall-time draining, spec 4.10), and the
	// A9 IRQ controller.
	e.Geom = NewGeometryEngine(e.Sched9, e.Global, e.Irq9)

	// DMA banks need a bus (to perform transfers), the owning CPU's
	// IRQ controller, and (A9 only) the geometry FIFO for GX-FIFO
	// timing.
	e.Dma9 = NewDmaBank(CpuARM9, e.Bus9, e.Irq9, e.Geom.fifo)
	e.Dma7 = NewDmaBank(CpuARM7, e.Bus7, e.Irq7, nil)
	e.Geom.AttachDma(e.Dma9)

	e.Timers9 = NewTimerBank(CpuARM9, e.Sched9, e.Irq9)
	e.Timers7 = NewTimerBank(CpuARM7, e.Sched7, e.Irq7)

	e.Ipc = NewIpc(e.Irq9, e.Irq7)

	// 5. CP15 overlays the A9's bus-pointer/timing tables; only the
	// A9 has a coprocessor bus (spec 4.4).
	e.Cp15 = NewCp15(e.Table9, e.Bus9)
	e.Bus9.AttachCp15(e.Cp15)

	// 2D engine register file, snapshotted once per visible scanline
	// (spec 6) and handed to the attached Renderer2D, if any.
	e.Engine2D = NewEngine2D(e.Mem)
	if cfg.renderer2D != nil {
		e.Engine2D.AttachRenderer(cfg.renderer2D)
	}

	// 7. I/O register fabrics, wired to everything above.
	e.Io9 = NewIoArm9(e.Dma9, e.Timers9, e.Irq9, e.Ipc, e.Vram, e.Geom)
	e.Io7 = NewIoArm7(e.Dma7, e.Timers7, e.Irq7, e.Ipc)
	e.Io9.AttachSwram(e.Swram)
	e.Io7.AttachSwram(e.Swram)
	e.Io9.AttachEngine2D(e.Engine2D)
	e.Bus9.io = e.Io9
	e.Bus7.io = e.Io7

	// video timing drives VBlank/HBlank DMA+IRQ and the geometry
	// engine's buffer swap (spec 4.1, 4.6, 4.7, 4.10); runs on the A9
	// local scheduler, observed by both CPUs.
	e.Video = NewVideoTiming(e.Sched9, e.Irq9, e.Irq7, e.Dma9, e.Dma7, e.Geom)
	e.Io9.AttachVideoTiming(e.Video)
	e.Io7.AttachVideoTiming(e.Video)
	e.Video.AttachEngine2D(e.Engine2D)

	if cfg.renderer3D != nil {
		e.Geom.AttachRenderer(cfg.renderer3D)
	}

	// 9. CPU engines, wired to their buses, CP15 (A9 only), and IRQ
	// controllers.
	e.Arm9 = NewInterpreter(CpuARM9, ArmV5TE, e.Bus9)
	e.Arm7 = NewInterpreter(CpuARM7, ArmV4T, e.Bus7)
	e.Arm9.AttachCp15(e.Cp15)
	e.Arm9.AttachIrq(e.Irq9)
	e.Arm7.AttachIrq(e.Irq7)
	e.Cp15.AttachEngine(e.Arm9)
	e.Irq9.AttachEngine(e.Arm9)
	e.Irq7.AttachEngine(e.Arm7)
	e.Bus9.AttachEngine(e.Arm9)
	e.Bus7.AttachEngine(e.Arm7)

	e.Runner = NewRunner(e.Arm9, e.Arm7, e.Sched9, e.Sched7, e.Global)

	return e
}

// LoadBios copies firmware-supplied BIOS images into their owned
// blocks (spec 3's "LoadBios" raw copy; parsing is out of the core's
// scope per spec 1).
func (e *Emulator) LoadBios9(img []byte) { e.Mem.LoadBios9(img) }
func (e *Emulator) LoadBios7(img []byte) { e.Mem.LoadBios7(img) }

// Start begins the video timebase and the run loop's bookkeeping
// (spec 9's construction-order note: "callers invoke this once after
// wiring is complete").
func (e *Emulator) Start() {
	e.Video.Start(e.Sched9.Now())
}

// Step advances the system by one unit of work (spec 4.1).
func (e *Emulator) Step() { e.Runner.Step() }

// RunInstructions/RunUntil forward to the Runner (spec 4.1, 6: test
// ROMs and debug tooling drive the system this way).
func (e *Emulator) RunInstructions(n uint64) { e.Runner.RunInstructions(n) }
func (e *Emulator) RunUntil(t Timestamp)     { e.Runner.RunUntil(t) }

// Reset restores the owned memory blocks (Mem) and the VRAM mapping
// engine to their constructor defaults (spec 3's lifecycle note:
// "destroyed only at shutdown" - a guest-visible reset reinitializes in
// place rather than reconstructing the container, matching the
// teacher's component_reset.go "Reset restores to constructor defaults"
// idiom). No other component is reset: CP15, shared-WRAM control,
// DMA, timers, IRQ, IPC, the geometry and 2D engines, video timing,
// the schedulers and the CPU registers keep their current state.
func (e *Emulator) Reset() {
	e.Mem.Reset()
	e.Vram.Reset()
}
