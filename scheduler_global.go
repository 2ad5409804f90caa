// scheduler_global.go - the global scheduler coordinating events that
// are not owned by either CPU's local schedule (spec 3, 4.1): geometry
// command completion while the 3D FIFO is stalled, and display
// capture/VBlank ticks that both engines observe.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// GlobalScheduler runs on the A9 (global) timebase. It exists because
// some events must keep advancing even while the A9's own local
// scheduler is not the one driving forward progress - notably geometry
// command completion during a FIFO stall, where an A9 DMA feeding the
// FIFO needs to run concurrently with command draining (spec 4.10).
type GlobalScheduler struct {
	*Scheduler
}

// NewGlobalScheduler constructs the global coordination scheduler. It
// is keyed in A9 cycles regardless of which CPU's activity is driving
// it forward.
func NewGlobalScheduler() *GlobalScheduler {
	return &GlobalScheduler{Scheduler: NewScheduler(CpuARM9)}
}

// chooseDriver selects, given both CPUs' local next-event times (already
// expressed in A9 cycles via CpuID.toGlobal) and this scheduler's own
// next-event time, which clock the run loop should advance next. It
// implements spec 4.1's "choose the CPU whose next-event time is
// earliest" rule, with the global scheduler treated as a third,
// always-consulted clock.
type driverChoice int

const (
	driveArm9 driverChoice = iota
	driveArm7
	driveGlobal
)

func chooseDriver(arm9Next, arm7NextGlobal, globalNext Timestamp) driverChoice {
	best := arm9Next
	choice := driveArm9
	if arm7NextGlobal < best {
		best = arm7NextGlobal
		choice = driveArm7
	}
	if globalNext < best {
		choice = driveGlobal
	}
	return choice
}
