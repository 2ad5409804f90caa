// mem_region.go - MemoryRegion[N]: an owned, fixed-size byte block with
// aligned little-endian accessors (spec 3). Grounded on the teacher's
// MachineBus raw-slice-plus-binary.LittleEndian idiom
// (machine_bus.go), generalized from one 32MB block to many
// differently-sized owned regions (main RAM, shared WRAM, per-bank
// VRAM, BIOS blobs, palette, OAM).

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

import "encoding/binary"

// MemoryRegion is an owned N-byte block. Alignment is a precondition
// on the caller (spec 3): misaligned addresses are forced aligned by
// the bus decoder before reaching these accessors, never here.
type MemoryRegion struct {
	bytes []byte
	size  uint32
	mask  uint32 // size-1, valid only when size is a power of two
}

// NewMemoryRegion allocates a zeroed region of the given size. size
// need not be a power of two; Mirror-style wraparound addressing is
// the caller's responsibility when it isn't.
func NewMemoryRegion(size uint32) *MemoryRegion {
	r := &MemoryRegion{bytes: make([]byte, size), size: size}
	if size&(size-1) == 0 {
		r.mask = size - 1
	}
	return r
}

// Size reports the region's byte length.
func (r *MemoryRegion) Size() uint32 { return r.size }

// Bytes exposes the raw backing slice, for DMA bulk copies and for
// handing a slice to an external renderer/compositor (spec 6).
func (r *MemoryRegion) Bytes() []byte { return r.bytes }

func (r *MemoryRegion) Read8(addr uint32) uint8 {
	return r.bytes[addr&r.indexMask(1)]
}

func (r *MemoryRegion) Write8(addr uint32, v uint8) {
	r.bytes[addr&r.indexMask(1)] = v
}

func (r *MemoryRegion) Read16(addr uint32) uint16 {
	a := addr &^ 1 & r.indexMask(2)
	return binary.LittleEndian.Uint16(r.bytes[a:])
}

func (r *MemoryRegion) Write16(addr uint32, v uint16) {
	a := addr &^ 1 & r.indexMask(2)
	binary.LittleEndian.PutUint16(r.bytes[a:], v)
}

func (r *MemoryRegion) Read32(addr uint32) uint32 {
	a := addr &^ 3 & r.indexMask(4)
	return binary.LittleEndian.Uint32(r.bytes[a:])
}

func (r *MemoryRegion) Write32(addr uint32, v uint32) {
	a := addr &^ 3 & r.indexMask(4)
	binary.LittleEndian.PutUint32(r.bytes[a:], v)
}

// indexMask returns the mask used to fold an address into this
// region's extent for a width-byte access, honoring power-of-two
// mirroring when r.size is a power of two and otherwise clamping into
// range (every region the DS core allocates, e.g. main RAM's 4MiB,
// is a power of two in size; this fallback keeps the type usable for
// odd sizes in tests).
func (r *MemoryRegion) indexMask(width uint32) uint32 {
	if r.mask != 0 || r.size == 1 {
		return r.mask &^ (width - 1)
	}
	if r.size >= width {
		return (r.size - width) &^ (width - 1)
	}
	return 0
}

// Clear zeroes the entire region, used by hard reset.
func (r *MemoryRegion) Clear() {
	for i := range r.bytes {
		r.bytes[i] = 0
	}
}
