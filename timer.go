// timer.go - the four cascaded timers per CPU (spec 3, 4.7). Grounded
// on the teacher's scheduled-overflow idiom used throughout the sound
// chips (e.g. ahx_player.go's tick-scheduling) generalized into the
// scheduler's Schedule/Cancel contract instead of a hand-rolled tick
// counter.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// timerPrescaleShifts maps the 2-bit prescaler select field to a
// shift applied to the A9/A7-local cycle count (1, 64, 256, 1024).
var timerPrescaleShifts = [4]uint{0, 6, 8, 10}

const (
	timerCtrlPrescaleMask = 0x3
	timerCtrlCascade      = 1 << 2
	timerCtrlIRQEnable    = 1 << 6
	timerCtrlEnable       = 1 << 7
)

// Timer is one of the four per-CPU cascaded counters.
type Timer struct {
	index   int
	owner   CpuID
	sched   *Scheduler
	irq     *IrqController
	next    *Timer // the cascade successor, nil for timer 3

	reload  uint16
	control uint16

	// For a counting (non-cascade) timer, startTime/startCounter let
	// ReadCounter() compute the live value without polling the
	// scheduler on every read (spec 4.7: "computes its live value from
	// the scheduled overflow's remaining time").
	startTime    Timestamp
	startCounter uint16

	// For a cascade timer, counter is the authoritative stored value;
	// it has no scheduled overflow event of its own (spec 4.7).
	counter uint16
}

func NewTimer(index int, owner CpuID, sched *Scheduler, irq *IrqController) *Timer {
	return &Timer{index: index, owner: owner, sched: sched, irq: irq}
}

func (t *Timer) slot() EventSlot { return SlotTimer0 + EventSlot(t.index) }

func (t *Timer) cascadeEnabled() bool { return t.control&timerCtrlCascade != 0 }
func (t *Timer) running() bool        { return t.control&timerCtrlEnable != 0 }

// WriteReload latches the 16-bit reload value; it takes effect on the
// next start/overflow, matching hardware (writes while running do not
// retroactively change the in-flight period).
func (t *Timer) WriteReload(v uint16) { t.reload = v }

func (t *Timer) ReadReload() uint16 { return t.reload }
func (t *Timer) ReadControl() uint16 { return t.control }

// WriteControl updates prescale/cascade/irq/enable. A rising edge on
// enable (re)starts the timer from its reload value; a falling edge
// cancels any pending overflow event, per spec 4.1/5's cancellation
// rule: "when state changes invalidate a future event... the owner
// cancels the slot before rewriting control."
func (t *Timer) WriteControl(v uint16) {
	wasRunning := t.running()
	t.control = v
	nowRunning := t.running()

	if wasRunning && !nowRunning {
		t.sched.Cancel(t.slot())
		return
	}
	if !wasRunning && nowRunning {
		t.start(t.reload)
	}
}

func (t *Timer) start(counter uint16) {
	if t.cascadeEnabled() {
		t.counter = counter
		return // cascade timers have no scheduled event (spec 4.7)
	}
	t.startTime = t.sched.Now()
	t.startCounter = counter
	t.scheduleOverflow(counter)
}

func (t *Timer) scheduleOverflow(counter uint16) {
	period := Timestamp(0x10000-uint32(counter)) << timerPrescaleShifts[t.control&timerCtrlPrescaleMask]
	t.sched.Schedule(t.slot(), t.sched.Now()+period)
}

// onOverflow is the scheduler callback for a non-cascade timer's
// overflow event (spec 4.7): reload, request IRQ if enabled, and
// advance a cascaded successor.
func (t *Timer) onOverflow(now Timestamp) {
	if t.control&timerCtrlIRQEnable != 0 {
		t.irq.Request(1 << (3 + t.index))
	}
	t.start(t.reload)
	if t.next != nil && t.next.running() && t.next.cascadeEnabled() {
		t.next.cascadeIncrement()
	}
}

// cascadeIncrement is called by the predecessor timer on its
// overflow. A cascade timer may itself overflow and cascade further
// (spec 4.7: "potentially cascading further").
func (t *Timer) cascadeIncrement() {
	t.counter++
	if t.counter != 0 {
		return
	}
	if t.control&timerCtrlIRQEnable != 0 {
		t.irq.Request(1 << (3 + t.index))
	}
	t.counter = t.reload
	if t.next != nil && t.next.running() && t.next.cascadeEnabled() {
		t.next.cascadeIncrement()
	}
}

// ReadCounter computes the live counter value (spec 4.7).
func (t *Timer) ReadCounter() uint16 {
	if !t.running() {
		return t.counter
	}
	if t.cascadeEnabled() {
		return t.counter
	}
	elapsed := t.sched.Now() - t.startTime
	ticks := uint32(elapsed >> timerPrescaleShifts[t.control&timerCtrlPrescaleMask])
	return uint16(uint32(t.startCounter) + ticks)
}

// TimerBank owns the four timers for one CPU and wires their cascade
// chain and scheduler handlers.
type TimerBank struct {
	Timers [4]*Timer
}

func NewTimerBank(owner CpuID, sched *Scheduler, irq *IrqController) *TimerBank {
	b := &TimerBank{}
	for i := range b.Timers {
		b.Timers[i] = NewTimer(i, owner, sched, irq)
		sched.SetHandler(SlotTimer0+EventSlot(i), b.Timers[i].onOverflow)
	}
	for i := 0; i < 3; i++ {
		b.Timers[i].next = b.Timers[i+1]
	}
	return b
}
