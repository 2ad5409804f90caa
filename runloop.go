// runloop.go - the top-level run loop (spec 2, 4.1): advances whichever
// clock's next event is earliest, one unit of work at a time, and lets
// AdvanceTo fire whatever becomes due. Grounded on the teacher's
// Runner.Run/Step split (cpu_x86_runner.go's CPUX86Runner), generalized
// from one CPU driving one scheduler to three clocks (A9 local, A7
// local, global) arbitrated by chooseDriver.
//
// (c) 2026 the nds9core project
// License: GPLv3 or later

package main

// Runner owns the three clocks and the two CPU engines and steps the
// whole system forward (spec 2's "dependency order, leaves first"
// puts this at the top: everything it touches already exists).
type Runner struct {
	arm9 *Interpreter
	arm7 *Interpreter

	sched9 *Scheduler
	sched7 *Scheduler
	global *GlobalScheduler

	InstructionCount uint64
}

func NewRunner(arm9, arm7 *Interpreter, sched9, sched7 *Scheduler, global *GlobalScheduler) *Runner {
	return &Runner{arm9: arm9, arm7: arm7, sched9: sched9, sched7: sched7, global: global}
}

// arm7NextInGlobalTime reports the A7 local scheduler's next event,
// expressed on the A9 timebase chooseDriver arbitrates over. The
// infinite sentinel must not be shifted (clock.go's arm7ToA9 would
// overflow it into a small, wrong value).
func (r *Runner) arm7NextInGlobalTime() Timestamp {
	next := r.sched7.NextEventTime()
	if next == infiniteTimestamp {
		return infiniteTimestamp
	}
	return CpuARM7.toGlobal(next)
}

// Step advances the system by exactly one unit of work: either one
// instruction on whichever CPU's next event is earliest, or (if no
// CPU event is as close as the global scheduler's) firing the global
// scheduler's next due event with no CPU activity (spec 4.1: "a run
// loop advances the core whose next event is earliest... the event
// fires; the loop repeats").
func (r *Runner) Step() {
	arm9Next := r.sched9.NextEventTime()
	arm7Next := r.arm7NextInGlobalTime()
	globalNext := r.global.NextEventTime()

	switch chooseDriver(arm9Next, arm7Next, globalNext) {
	case driveArm9:
		r.stepArm9()
	case driveArm7:
		r.stepArm7()
	case driveGlobal:
		r.global.AdvanceTo(globalNext)
	}
}

func (r *Runner) stepArm9() {
	cycles := r.arm9.Step()
	r.InstructionCount++
	now := r.sched9.Now() + Timestamp(cycles)
	r.sched9.AdvanceTo(now)
	r.global.AdvanceTo(now)
}

func (r *Runner) stepArm7() {
	cycles := r.arm7.Step()
	r.InstructionCount++
	now := r.sched7.Now() + Timestamp(cycles)
	r.sched7.AdvanceTo(now)
	r.global.AdvanceTo(CpuARM7.toGlobal(now))
}

// RunInstructions steps the system n units of work (spec 4.1's unit:
// one CPU instruction, or one fired global event). Test ROMs and
// debug tooling drive the system this way rather than free-running.
func (r *Runner) RunInstructions(n uint64) {
	for i := uint64(0); i < n; i++ {
		r.Step()
	}
}

// RunUntil free-runs until the A9's global-time clock reaches target,
// matching the frame-paced driving a frontend collaborator performs
// (one call per output frame's worth of A9 cycles).
func (r *Runner) RunUntil(target Timestamp) {
	for r.global.Now() < target {
		r.Step()
	}
}
