// debug_monitor_test.go exercises MachineMonitor/ArmDebugAdapter, the
// concrete DebuggableCPU this core actually has (the teacher's
// original file here tested fakes for CPU families this core doesn't
// implement).

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/
package main

import "testing"

func newTestAdapter(t *testing.T, label string, id CpuID) *ArmDebugAdapter {
	t.Helper()
	mem := NewSystemMemory()
	table := NewBusPointerTable()
	bus := NewBus(id, table, mem, nil, nil)
	cpu := NewInterpreter(id, ArmV5TE, bus)
	return NewArmDebugAdapter(label, cpu, bus)
}

func TestArmDebugAdapterRegisters(t *testing.T) {
	a := newTestAdapter(t, "ARM9", CpuARM9)

	if got := a.CPUName(); got != "ARM9" {
		t.Errorf("CPUName() = %q, want ARM9", got)
	}
	if got := a.AddressWidth(); got != 32 {
		t.Errorf("AddressWidth() = %d, want 32", got)
	}

	if !a.SetRegister("r0", 0x1234) {
		t.Fatal("SetRegister(r0) failed")
	}
	got, ok := a.GetRegister("r0")
	if !ok || got != 0x1234 {
		t.Errorf("GetRegister(r0) = (%#x, %v), want (0x1234, true)", got, ok)
	}

	a.SetPC(0x08000000)
	if got := a.GetPC(); got != 0x08000000 {
		t.Errorf("GetPC() = %#x, want 0x08000000", got)
	}

	if _, ok := a.GetRegister("bogus"); ok {
		t.Error("GetRegister(bogus) should fail")
	}
}

func TestArmDebugAdapterBreakpoints(t *testing.T) {
	a := newTestAdapter(t, "ARM9", CpuARM9)

	if !a.SetBreakpoint(0x100) {
		t.Fatal("SetBreakpoint failed")
	}
	if !a.HasBreakpoint(0x100) {
		t.Error("HasBreakpoint should report true after SetBreakpoint")
	}
	if bps := a.ListBreakpoints(); len(bps) != 1 || bps[0] != 0x100 {
		t.Errorf("ListBreakpoints() = %v, want [0x100]", bps)
	}

	if !a.ClearBreakpoint(0x100) {
		t.Error("ClearBreakpoint should succeed on an armed address")
	}
	if a.HasBreakpoint(0x100) {
		t.Error("HasBreakpoint should report false after ClearBreakpoint")
	}
	if a.ClearBreakpoint(0x100) {
		t.Error("ClearBreakpoint should report false on an already-cleared address")
	}
}

func TestArmDebugAdapterConditionalBreakpoint(t *testing.T) {
	a := newTestAdapter(t, "ARM9", CpuARM9)
	a.SetRegister("r1", 5)

	cond := &BreakpointCondition{Source: CondSourceRegister, RegName: "r1", Op: CondOpEqual, Value: 5}
	if !a.SetConditionalBreakpoint(0x200, cond) {
		t.Fatal("SetConditionalBreakpoint failed")
	}
	bp := a.GetConditionalBreakpoint(0x200)
	if bp == nil || bp.Condition != cond {
		t.Fatalf("GetConditionalBreakpoint returned %+v", bp)
	}
}

func TestArmDebugAdapterWatchpoints(t *testing.T) {
	a := newTestAdapter(t, "ARM9", CpuARM9)

	if !a.SetWatchpoint(0x02000000) {
		t.Fatal("SetWatchpoint failed")
	}
	wps := a.ListWatchpoints()
	if len(wps) != 1 || wps[0] != 0x02000000 {
		t.Errorf("ListWatchpoints() = %v, want [0x02000000]", wps)
	}
	if !a.ClearWatchpoint(0x02000000) {
		t.Error("ClearWatchpoint should succeed on an armed address")
	}
	if len(a.ListWatchpoints()) != 0 {
		t.Error("ListWatchpoints() should be empty after ClearWatchpoint")
	}
}

func TestArmDebugAdapterFreezeResume(t *testing.T) {
	a := newTestAdapter(t, "ARM9", CpuARM9)
	if !a.IsRunning() {
		t.Fatal("adapter should start running")
	}
	a.Freeze()
	if a.IsRunning() {
		t.Error("IsRunning() should be false after Freeze")
	}
	a.Resume()
	if !a.IsRunning() {
		t.Error("IsRunning() should be true after Resume")
	}
}

func TestMachineMonitorRegisterAndFocus(t *testing.T) {
	mon := NewMachineMonitor()
	arm9 := newTestAdapter(t, "ARM9", CpuARM9)
	arm7 := newTestAdapter(t, "ARM7", CpuARM7)

	id9 := mon.RegisterCPU("ARM9", arm9)
	id7 := mon.RegisterCPU("ARM7", arm7)
	if id9 == id7 {
		t.Fatal("RegisterCPU should return distinct IDs")
	}

	focused := mon.FocusedCPU()
	if focused == nil || focused.ID != id9 {
		t.Errorf("FocusedCPU() = %+v, want the first-registered CPU", focused)
	}
}

func TestMachineMonitorActivateDeactivate(t *testing.T) {
	mon := NewMachineMonitor()
	arm9 := newTestAdapter(t, "ARM9", CpuARM9)
	mon.RegisterCPU("ARM9", arm9)

	if mon.IsActive() {
		t.Fatal("monitor should start inactive")
	}
	arm9.Resume()
	mon.Activate()
	if !mon.IsActive() {
		t.Error("IsActive() should be true after Activate")
	}
	if arm9.IsRunning() {
		t.Error("Activate should freeze a running CPU")
	}

	mon.Deactivate()
	if mon.IsActive() {
		t.Error("IsActive() should be false after Deactivate")
	}
	if !arm9.IsRunning() {
		t.Error("Deactivate should resume a CPU that was running before Activate")
	}
}

func TestMachineMonitorBreakpointCommands(t *testing.T) {
	mon := NewMachineMonitor()
	arm9 := newTestAdapter(t, "ARM9", CpuARM9)
	mon.RegisterCPU("ARM9", arm9)

	if exit := mon.ExecuteCommand("b $100"); exit {
		t.Fatal("b command should not request exit")
	}
	if !arm9.HasBreakpoint(0x100) {
		t.Error("ExecuteCommand(\"b $100\") should arm a breakpoint at 0x100")
	}

	mon.ExecuteCommand("bc $100")
	if arm9.HasBreakpoint(0x100) {
		t.Error("ExecuteCommand(\"bc $100\") should clear the breakpoint")
	}

	if exit := mon.ExecuteCommand("x"); !exit {
		t.Error("x command should request exit")
	}
}
