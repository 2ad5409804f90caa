// debug_ioview.go - I/O register viewer for Machine Monitor

package main

import "fmt"

// IORegisterDesc describes a single I/O register for display.
type IORegisterDesc struct {
	Name   string
	Addr   uint32
	Width  int    // 1, 2, or 4 bytes
	Access string // "RW", "RO", "WO"
}

// IODeviceDesc describes a group of I/O registers for a device.
type IODeviceDesc struct {
	Name      string
	Registers []IORegisterDesc
}

var ioDevices = map[string]*IODeviceDesc{
	"video": {
		Name: "2D Engine",
		Registers: []IORegisterDesc{
			{"DISPCNT", 0x04000000, 4, "RW"},
			{"DISPSTAT", 0x04000004, 2, "RW"},
			{"VCOUNT", 0x04000006, 2, "RO"},
			{"BG0CNT", 0x04000008, 2, "RW"},
			{"BG1CNT", 0x0400000A, 2, "RW"},
			{"BG2CNT", 0x0400000C, 2, "RW"},
			{"BG3CNT", 0x0400000E, 2, "RW"},
			{"DISP3DCNT", 0x04000060, 2, "RW"},
		},
	},
	"dma": {
		Name: "DMA",
		Registers: []IORegisterDesc{
			{"DMA0SAD", 0x040000B0, 4, "WO"},
			{"DMA0DAD", 0x040000B4, 4, "WO"},
			{"DMA0CNT", 0x040000B8, 4, "RW"},
			{"DMA1SAD", 0x040000BC, 4, "WO"},
			{"DMA1DAD", 0x040000C0, 4, "WO"},
			{"DMA1CNT", 0x040000C4, 4, "RW"},
			{"DMA2SAD", 0x040000C8, 4, "WO"},
			{"DMA2DAD", 0x040000CC, 4, "WO"},
			{"DMA2CNT", 0x040000D0, 4, "RW"},
			{"DMA3SAD", 0x040000D4, 4, "WO"},
			{"DMA3DAD", 0x040000D8, 4, "WO"},
			{"DMA3CNT", 0x040000DC, 4, "RW"},
		},
	},
	"timer": {
		Name: "Timers",
		Registers: []IORegisterDesc{
			{"TM0CNT_L", 0x04000100, 2, "RW"},
			{"TM0CNT_H", 0x04000102, 2, "RW"},
			{"TM1CNT_L", 0x04000104, 2, "RW"},
			{"TM1CNT_H", 0x04000106, 2, "RW"},
			{"TM2CNT_L", 0x04000108, 2, "RW"},
			{"TM2CNT_H", 0x0400010A, 2, "RW"},
			{"TM3CNT_L", 0x0400010C, 2, "RW"},
			{"TM3CNT_H", 0x0400010E, 2, "RW"},
		},
	},
	"irq": {
		Name: "IRQ",
		Registers: []IORegisterDesc{
			{"IME", 0x04000208, 2, "RW"},
			{"IE", 0x04000210, 4, "RW"},
			{"IF", 0x04000214, 4, "RW"},
		},
	},
	"ipc": {
		Name: "IPC",
		Registers: []IORegisterDesc{
			{"IPCSYNC", 0x04000180, 2, "RW"},
			{"IPCFIFOCNT", 0x04000184, 2, "RW"},
			{"IPCFIFOSEND", 0x04000188, 4, "WO"},
		},
	},
	"vram": {
		Name: "VRAM bank control",
		Registers: []IORegisterDesc{
			{"VRAMCNT_A", 0x04000240, 1, "RW"},
			{"VRAMCNT_B", 0x04000241, 1, "RW"},
			{"VRAMCNT_C", 0x04000242, 1, "RW"},
			{"VRAMCNT_D", 0x04000243, 1, "RW"},
			{"VRAMCNT_E", 0x04000244, 1, "RW"},
			{"VRAMCNT_F", 0x04000245, 1, "RW"},
			{"VRAMCNT_G", 0x04000246, 1, "RW"},
			{"WRAMCNT", 0x04000247, 1, "RW"},
			{"VRAMCNT_H", 0x04000248, 1, "RW"},
			{"VRAMCNT_I", 0x04000249, 1, "RW"},
		},
	},
	"gx": {
		Name: "3D geometry FIFO",
		Registers: []IORegisterDesc{
			{"GXFIFO", 0x04000400, 4, "WO"},
			{"GXSTAT", 0x04000600, 4, "RW"},
			{"RAM_COUNT", 0x04000604, 4, "RO"},
		},
	},
}

// formatIOView renders the register view for a device.
func formatIOView(cpu DebuggableCPU, deviceName string) []string {
	dev, ok := ioDevices[deviceName]
	if !ok {
		return []string{fmt.Sprintf("Unknown device: %s", deviceName)}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("--- %s Registers ---", dev.Name))

	for _, reg := range dev.Registers {
		data := cpu.ReadMemory(uint64(reg.Addr), reg.Width)
		if len(data) < reg.Width {
			lines = append(lines, fmt.Sprintf("  %-16s ($%08X) = ??       [%s]", reg.Name, reg.Addr, reg.Access))
			continue
		}

		var val uint32
		switch reg.Width {
		case 1:
			val = uint32(data[0])
			lines = append(lines, fmt.Sprintf("  %-16s ($%08X) = $%02X       [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 2:
			val = uint32(data[0]) | uint32(data[1])<<8
			lines = append(lines, fmt.Sprintf("  %-16s ($%08X) = $%04X     [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		case 4:
			val = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24
			lines = append(lines, fmt.Sprintf("  %-16s ($%08X) = $%08X [%d] %s", reg.Name, reg.Addr, val, val, reg.Access))
		}
	}

	return lines
}

// listIODevices returns the names of all available IO devices.
func listIODevices() []string {
	return []string{"video", "dma", "timer", "irq", "ipc", "vram", "gx"}
}
