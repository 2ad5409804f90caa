// mem_blocks.go - the fixed-size owned memory blocks enumerated in
// spec 3: main RAM, shared WRAM, the private ARM7 WRAM, BIOS blobs,
// palette, OAM, and the nine VRAM banks. These are constructed once at
// emulator construction and referenced by both CPUs (spec 3's
// ownership summary).

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

const (
	sizeMainRAM    = 4 * 1024 * 1024 // 0x02000000, mirrored every 4MiB across the 0x02xxxxxx window
	sizeSharedWRAM = 32 * 1024       // partitionable between the two CPUs
	sizeArm7WRAM   = 64 * 1024       // private, bit23=1 of 0x03xxxxxx on the A7
	sizeBiosArm9   = 4 * 1024        // [0xFFFF0000, 0xFFFF1000)
	sizeBiosArm7   = 16 * 1024       // [0x00000000, 0x00004000)
	sizePalette    = 2 * 1024
	sizeOAM        = 2 * 1024
)

// VRAM bank sizes, letters A..I. Bank I is the odd one out (16KiB,
// spec 4.5's "special path because a 16 KiB bank mirrors inside a
// larger usage region").
var vramBankSizes = [9]uint32{
	128 * 1024, // A
	128 * 1024, // B
	128 * 1024, // C
	128 * 1024, // D
	64 * 1024,  // E
	16 * 1024,  // F
	16 * 1024,  // G
	32 * 1024,  // H
	16 * 1024,  // I
}

const (
	vramBankA = iota
	vramBankB
	vramBankC
	vramBankD
	vramBankE
	vramBankF
	vramBankG
	vramBankH
	vramBankI
	numVramBanks
)

// SystemMemory owns every shared byte block in the system. It is
// constructed once by the top-level Emulator and handed by reference
// to both CPU bus decoders and the VRAM engine (spec 3's ownership
// summary: "Main RAM, shared WRAM, VRAM banks, and the scheduler's
// global side are owned by the top-level emulator").
type SystemMemory struct {
	MainRAM   *MemoryRegion
	SharedWRAM *MemoryRegion
	Arm7WRAM  *MemoryRegion
	BiosArm9  *MemoryRegion
	BiosArm7  *MemoryRegion
	Palette   *MemoryRegion
	OAM       *MemoryRegion
	VRAM      [numVramBanks]*MemoryRegion
}

// NewSystemMemory allocates every owned block, zeroed.
func NewSystemMemory() *SystemMemory {
	m := &SystemMemory{
		MainRAM:    NewMemoryRegion(sizeMainRAM),
		SharedWRAM: NewMemoryRegion(sizeSharedWRAM),
		Arm7WRAM:   NewMemoryRegion(sizeArm7WRAM),
		BiosArm9:   NewMemoryRegion(sizeBiosArm9),
		BiosArm7:   NewMemoryRegion(sizeBiosArm7),
		Palette:    NewMemoryRegion(sizePalette),
		OAM:        NewMemoryRegion(sizeOAM),
	}
	for i := range m.VRAM {
		m.VRAM[i] = NewMemoryRegion(vramBankSizes[i])
	}
	return m
}

// Reset clears every owned block back to zero (hard reset, grounded
// on the teacher's component_reset.go "Reset restores to constructor
// defaults" idiom - here that default is simply all-zero memory).
func (m *SystemMemory) Reset() {
	m.MainRAM.Clear()
	m.SharedWRAM.Clear()
	m.Arm7WRAM.Clear()
	m.Palette.Clear()
	m.OAM.Clear()
	for _, b := range m.VRAM {
		b.Clear()
	}
	// BIOS blobs (loaded by LoadBios9/LoadBios7) are never cleared
	// by a guest-visible reset.
}

// LoadBios copies firmware-supplied BIOS images into the owned
// blocks. Parsing/validating the BIOS image itself is outside the
// core's scope (spec 1); this is a raw byte copy.
func (m *SystemMemory) LoadBios9(img []byte) { copy(m.BiosArm9.Bytes(), img) }
func (m *SystemMemory) LoadBios7(img []byte) { copy(m.BiosArm7.Bytes(), img) }
