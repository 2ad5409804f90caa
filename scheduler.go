// scheduler.go - per-CPU event scheduler: a min-heap keyed by Timestamp
// over a fixed, statically enumerated set of event slots.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import "container/heap"

// EventSlot is a statically known event identity. There is no dynamic
// per-event allocation: every schedulable event in the system (timer
// overflow, DMA completion, IRQ delivery, geometry command dispatch,
// VBlank, ...) owns exactly one slot, enumerated below.
type EventSlot int

const (
	SlotTimer0 EventSlot = iota
	SlotTimer1
	SlotTimer2
	SlotTimer3
	SlotDma0
	SlotDma1
	SlotDma2
	SlotDma3
	SlotGeomCommand
	SlotGeomSwapBuffers
	SlotVBlank
	SlotHBlank
	SlotDisplayCapture
	numEventSlots
)

// schedEntry is one live heap element. Determinism (spec 4.1): two
// entries with equal When fire in ascending Slot order, so Slot is
// folded into the heap's Less as a tie-breaker.
type schedEntry struct {
	slot  EventSlot
	when  Timestamp
	index int // heap.Interface bookkeeping
}

type schedHeap []*schedEntry

func (h schedHeap) Len() int { return len(h) }
func (h schedHeap) Less(i, j int) bool {
	if h[i].when != h[j].when {
		return h[i].when < h[j].when
	}
	return h[i].slot < h[j].slot
}
func (h schedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *schedHeap) Push(x any) {
	e := x.(*schedEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *schedHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// EventHandler runs when a scheduled slot fires. now is the exact
// Timestamp the event was due.
type EventHandler func(now Timestamp)

// Scheduler is the per-CPU min-heap described in spec 3/4.1. current
// is the CPU's own cycle counter; Invariant: after any sequence of
// Schedule/Cancel/AdvanceTo, NextEventTime() >= current.
type Scheduler struct {
	owner    CpuID
	current  Timestamp
	byslot   [numEventSlots]*schedEntry
	handlers [numEventSlots]EventHandler
	heap     schedHeap
}

// NewScheduler constructs an empty scheduler for the given CPU.
func NewScheduler(owner CpuID) *Scheduler {
	s := &Scheduler{owner: owner}
	heap.Init(&s.heap)
	return s
}

// SetHandler registers (or replaces) the callback invoked when slot
// fires. Handlers are fixed at wiring time, not per-event.
func (s *Scheduler) SetHandler(slot EventSlot, h EventHandler) {
	s.handlers[slot] = h
}

// Now reports the CPU's current local time.
func (s *Scheduler) Now() Timestamp { return s.current }

// Schedule enqueues or reschedules slot for delivery at when. Per
// spec 4.1, a request at or before the current time is silently
// dropped rather than firing immediately from within Schedule -
// callers that need immediate semantics invoke the handler directly.
func (s *Scheduler) Schedule(slot EventSlot, when Timestamp) {
	if when <= s.current {
		return
	}
	if e := s.byslot[slot]; e != nil {
		e.when = when
		heap.Fix(&s.heap, e.index)
		return
	}
	e := &schedEntry{slot: slot, when: when}
	s.byslot[slot] = e
	heap.Push(&s.heap, e)
}

// Cancel removes slot's pending event, if any. Cancellation must
// happen before a state change invalidates a future event (spec 4.1,
// 5): an orphaned event must never fire.
func (s *Scheduler) Cancel(slot EventSlot) {
	e := s.byslot[slot]
	if e == nil {
		return
	}
	heap.Remove(&s.heap, e.index)
	s.byslot[slot] = nil
}

// Pending reports whether slot currently has a scheduled time.
func (s *Scheduler) Pending(slot EventSlot) bool { return s.byslot[slot] != nil }

// NextEventTime returns the earliest pending time, or the sentinel
// infinity value if the heap is empty.
func (s *Scheduler) NextEventTime() Timestamp {
	if len(s.heap) == 0 {
		return infiniteTimestamp
	}
	return s.heap[0].when
}

const infiniteTimestamp Timestamp = ^Timestamp(0)

// AdvanceTo moves the CPU's local clock forward to target, firing
// every event due at or before target in ascending (time, slot)
// order. A handler firing at time T may itself schedule a new event
// at T' > T; that event is only processed by this call if T' <=
// target, preserving causality within the same AdvanceTo.
func (s *Scheduler) AdvanceTo(target Timestamp) {
	if target < s.current {
		return
	}
	for len(s.heap) > 0 && s.heap[0].when <= target {
		e := heap.Pop(&s.heap).(*schedEntry)
		s.byslot[e.slot] = nil
		s.current = e.when
		if h := s.handlers[e.slot]; h != nil {
			h(e.when)
		}
	}
	if target > s.current {
		s.current = target
	}
}
