package main

import "testing"

type fakeRenderer2D struct {
	snaps []ScanlineSnapshot
}

func (f *fakeRenderer2D) Scanline(s ScanlineSnapshot) { f.snaps = append(f.snaps, s) }

func TestEngine2DRegisterRoundTrip(t *testing.T) {
	e := NewEngine2D(NewSystemMemory())

	e.WriteIO16(ioDispcnt, 0x1234)
	if got := e.ReadIO16(ioDispcnt); got != 0x1234 {
		t.Errorf("DISPCNT lo = %#x, want 0x1234", got)
	}
	e.WriteIO16(ioDispcnt+2, 0x5678)
	if got := e.ReadIO16(ioDispcnt + 2); got != 0x5678 {
		t.Errorf("DISPCNT hi = %#x, want 0x5678", got)
	}

	e.WriteIO16(ioBgCntBase+2, 0x00FF) // BG1CNT
	if got := e.ReadIO16(ioBgCntBase + 2); got != 0x00FF {
		t.Errorf("BG1CNT = %#x, want 0x00FF", got)
	}

	e.WriteIO16(ioBgHOfsBase, 0x3FF) // masked to 9 bits
	if got := e.ReadIO16(ioBgHOfsBase); got != 0x1FF {
		t.Errorf("BG0HOFS = %#x, want 0x1FF (masked to 9 bits)", got)
	}

	e.WriteIO16(ioBldY, 0x3F) // masked to 5 bits
	if got := e.ReadIO16(ioBldY); got != 0x1F {
		t.Errorf("BLDY = %#x, want 0x1F (masked to 5 bits)", got)
	}
}

func TestEngine2DEmitScanlineNoRenderer(t *testing.T) {
	e := NewEngine2D(NewSystemMemory())
	e.EmitScanline(0) // must not panic with no renderer attached
}

func TestEngine2DEmitScanlineDelivers(t *testing.T) {
	e := NewEngine2D(NewSystemMemory())
	fake := &fakeRenderer2D{}
	e.AttachRenderer(fake)

	e.WriteIO16(ioWinInBase, 0x1122)
	e.EmitScanline(42)

	if len(fake.snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(fake.snaps))
	}
	snap := fake.snaps[0]
	if snap.Scanline != 42 {
		t.Errorf("Scanline = %d, want 42", snap.Scanline)
	}
	if snap.Win0Control != 0x22 || snap.Win1Control != 0x11 {
		t.Errorf("Win0Control/Win1Control = %#x/%#x, want 0x22/0x11", snap.Win0Control, snap.Win1Control)
	}
}
