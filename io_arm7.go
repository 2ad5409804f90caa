// io_arm7.go - the A7's I/O register fabric (spec 4.3): DMA, timers,
// IRQ, IPC, POSTFLG, and HALTCNT. Shares the DMA/timer address layout
// with io_arm9.go (spec 4.3: "A7 and A9 share structure, differ in
// map") but has no VRAMCNT or 3D command window.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	haltcntNone         = 0
	haltcntGbaModeSwitch = 1
	haltcntHalt          = 2
	haltcntSleep         = 3
)

// IoArm7 implements IoFabric for the A7 bus.
type IoArm7 struct {
	dma     *DmaBank
	timers  *TimerBank
	irq     *IrqController
	ipc     *Ipc
	video   *VideoTiming
	swram   *SwramController
	postflg uint8
	haltcnt uint8
	fifoCnt uint16
	dispstat uint16
	fallback ioRegisterFile
}

func NewIoArm7(dma *DmaBank, timers *TimerBank, irq *IrqController, ipc *Ipc) *IoArm7 {
	return &IoArm7{dma: dma, timers: timers, irq: irq, ipc: ipc}
}

func (io *IoArm7) AttachVideoTiming(v *VideoTiming) { io.video = v }

// AttachSwram wires WRAMCNT as a read-only mirror on the A7 side (spec
// 4.5: "A9-writable only" - the A7 can read the same byte but never
// changes the partition).
func (io *IoArm7) AttachSwram(s *SwramController) { io.swram = s }

// readDispstat/writeDispstat mirror io_arm9.go's: the A7 has its own
// IRQ enable bits over the same shared scanline state (spec 4.3's
// "each CPU sees its own IE/IF view of shared conditions").
func (io *IoArm7) readDispstat() uint16 {
	v := io.dispstat
	if io.video != nil {
		if io.video.InVBlank() {
			v |= 1 << 0
		}
		if io.video.InHBlank() {
			v |= 1 << 1
		}
	}
	return v
}

func (io *IoArm7) writeDispstat(v uint16) {
	io.dispstat = v &^ 0x7
	if io.video != nil {
		io.video.SetVBlankIrqEnabled(CpuARM7, v&(1<<3) != 0)
		io.video.SetHBlankIrqEnabled(CpuARM7, v&(1<<4) != 0)
	}
}

func (io *IoArm7) ReadIO8(addr uint32) uint8 {
	switch addr {
	case ioPostflg:
		return io.postflg
	case ioHaltcnt:
		return io.haltcnt
	case ioSwramCnt:
		if io.swram != nil {
			return io.swram.ReadControl()
		}
		return 0
	}
	return io.fallback.read8(addr)
}

// WriteIO8 implements HALTCNT's bits 7..6 action select (spec 4.3):
// "the halt action sets the CPU's halted flag; the CPU exits halt only
// when (IE & IF) != 0" - the exit condition is already the
// IrqController's resumeFromHalt rule, triggered the next time Request
// observes a 0->nonzero (enabled & requested) transition.
func (io *IoArm7) WriteIO8(addr uint32, v uint8) {
	switch addr {
	case ioPostflg:
		io.postflg = v
		return
	case ioHaltcnt:
		io.haltcnt = v
		switch (v >> 6) & 0x3 {
		case haltcntHalt, haltcntSleep:
			io.irq.Halt()
		}
		return
	}
	if ch, reg, ok := decodeDma(addr); ok {
		io.WriteIO16(addr, write8Into16(io.readDma16(ch, reg), addr, v))
		return
	}
	if idx, reg, ok := decodeTimer(addr); ok {
		io.WriteIO16(addr, write8Into16(io.readTimer16(idx, reg), addr, v))
		return
	}
	io.fallback.write8(addr, v)
}

func (io *IoArm7) ReadIO16(addr uint32) uint16 {
	switch addr {
	case ioDispstat:
		return io.readDispstat()
	case ioIpcSync:
		return uint16(io.ipc.ReadSync(CpuARM7))
	case ioIpcFifoCnt:
		return io.fifoCnt
	case ioIme:
		return uint16(io.irq.ReadIME())
	}
	if idx, reg, ok := decodeTimer(addr); ok {
		return io.readTimer16(idx, reg)
	}
	if ch, reg, ok := decodeDma(addr); ok {
		return io.readDma16(ch, reg)
	}
	return io.fallback.read16(addr)
}

func (io *IoArm7) WriteIO16(addr uint32, v uint16) {
	switch addr {
	case ioDispstat:
		io.writeDispstat(v)
		return
	case ioIpcSync:
		io.ipc.WriteSync(CpuARM7, uint8(v), v&(1<<13) != 0)
		return
	case ioIpcFifoCnt:
		io.fifoCnt = v
		if v&(1<<3) != 0 {
			io.ipc.fifoOut(CpuARM7).Clear()
		}
		return
	case ioIme:
		io.irq.WriteIME(uint32(v))
		return
	}
	if idx, reg, ok := decodeTimer(addr); ok {
		io.writeTimer16(idx, reg, v)
		return
	}
	if ch, reg, ok := decodeDma(addr); ok {
		io.writeDma16(ch, reg, v)
		return
	}
	io.fallback.write16(addr, v)
}

func (io *IoArm7) ReadIO32(addr uint32) uint32 {
	switch addr {
	case ioIe:
		return io.irq.ReadIE()
	case ioIf:
		return io.irq.ReadIF()
	case ioIpcFifoRecv:
		return io.ipc.Recv(CpuARM7)
	}
	if ch, ok := decodeDmaWord(addr); ok {
		return io.readDma32(ch, addr)
	}
	return uint32(io.ReadIO16(addr)) | uint32(io.ReadIO16(addr+2))<<16
}

func (io *IoArm7) WriteIO32(addr uint32, v uint32) {
	switch addr {
	case ioIe:
		io.irq.WriteIE(v)
		return
	case ioIf:
		io.irq.WriteIF(v)
		return
	case ioIpcFifoSend:
		io.ipc.Send(CpuARM7, v)
		return
	}
	if ch, ok := decodeDmaWord(addr); ok {
		io.writeDma32(ch, addr, v)
		return
	}
	io.WriteIO16(addr, uint16(v))
	io.WriteIO16(addr+2, uint16(v>>16))
}

func (io *IoArm7) readDma16(ch, reg int) uint16 {
	c := io.dma.Channels[ch]
	switch reg {
	case 8:
		return uint16(c.control)
	case 10:
		return uint16(c.control >> 16)
	}
	return 0
}

func (io *IoArm7) writeDma16(ch, reg int, v uint16) {
	c := io.dma.Channels[ch]
	switch reg {
	case 8:
		c.WriteControl(write16Into32Lo(c.control, v))
	case 10:
		c.WriteControl(write16Into32Hi(c.control, v))
	}
}

func (io *IoArm7) readDma32(ch int, addr uint32) uint32 {
	c := io.dma.Channels[ch]
	reg := int((addr - ioDmaBase) % ioDmaStride)
	switch reg {
	case 0:
		return c.src
	case 4:
		return c.dst
	case 8:
		return c.control
	}
	return 0
}

func (io *IoArm7) writeDma32(ch int, addr uint32, v uint32) {
	c := io.dma.Channels[ch]
	reg := int((addr - ioDmaBase) % ioDmaStride)
	switch reg {
	case 0:
		c.WriteSrc(v)
	case 4:
		c.WriteDst(v)
	case 8:
		c.WriteControl(v)
	}
}

func (io *IoArm7) readTimer16(idx, reg int) uint16 {
	t := io.timers.Timers[idx]
	if reg == 0 {
		return t.ReadCounter()
	}
	return t.ReadControl()
}

func (io *IoArm7) writeTimer16(idx, reg int, v uint16) {
	t := io.timers.Timers[idx]
	if reg == 0 {
		t.WriteReload(v)
		return
	}
	t.WriteControl(v)
}
