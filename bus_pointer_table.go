// bus_pointer_table.go - the per-CPU fast-path page table (spec 3, 4.2):
// an array of page descriptors indexed by the top bits of a 32-bit
// address, each carrying optional read/write pointers into an owned
// MemoryRegion plus a mask bit set describing which operations the
// fast path handles. Grounded on the teacher's MachineBus I/O-region
// page-masking idiom (machine_bus.go's PAGE_MASK/PAGE_SIZE), adapted
// to one flat array of 4KiB-page descriptors (1<<20 entries) covering
// the DS's whole 4GiB address space.

/*
(c) 2026 the nds9core project
License: GPLv3 or later
*/

package main

// pageAccessBits is the mask-bit set a BusPage carries, naming which
// fast-path operations are valid for that page (spec 3).
type pageAccessBits uint8

const (
	accessReadCode pageAccessBits = 1 << iota
	accessReadData
	accessWrite8
	accessWrite16
	accessWrite32
)

// pageShift/pageSize: pages are 4KiB (0x1000), the DS MMU's natural
// granularity and small enough that protection-region and TCM
// boundaries (minimum 4KiB, spec 4.4) always land on a page edge.
const (
	pageShift = 12
	pageSize  = 1 << pageShift
	pageCount = 1 << (32 - pageShift) // 1<<20 pages spanning 4GiB
)

// BusPage is one fast-path page descriptor. region/base let the
// decoder compute region.byteOffset = (addr & (pageSize-1)) + base in
// O(1) without a branch on which memory block owns the page.
type BusPage struct {
	region *MemoryRegion
	base   uint32 // offset into region of this page's first byte
	access pageAccessBits
	timing *TimingEntry
}

func (p *BusPage) has(bit pageAccessBits) bool { return p != nil && p.access&bit != 0 }

// BusPointerTable is the per-CPU array of page descriptors. A9 and A7
// each own one; coprocessor 15 and the VRAM engine rewrite slices of
// the A9's and both CPUs' tables respectively on configuration change
// (spec 4.4, 4.5).
type BusPointerTable struct {
	pages [pageCount]BusPage
}

func NewBusPointerTable() *BusPointerTable { return &BusPointerTable{} }

func pageIndex(addr uint32) uint32 { return addr >> pageShift }

// Map installs a fast-path page over [addrStart, addrStart+length)
// pointing into region starting at regionOffset, with the given
// access bits and timing. length and addrStart must be page-aligned;
// callers (VRAM engine, CP15 overlay logic) are responsible for this,
// matching spec 3's "alignment is a precondition on the caller".
func (t *BusPointerTable) Map(addrStart, length uint32, region *MemoryRegion, regionOffset uint32, access pageAccessBits, timing *TimingEntry) {
	first := pageIndex(addrStart)
	n := length >> pageShift
	for i := uint32(0); i < n; i++ {
		t.pages[first+i] = BusPage{
			region: region,
			base:   regionOffset + i*pageSize,
			access: access,
			timing: timing,
		}
	}
}

// Unmap clears the fast path over [addrStart, addrStart+length),
// forcing every access in that range back to the slow decoder.
func (t *BusPointerTable) Unmap(addrStart, length uint32) {
	first := pageIndex(addrStart)
	n := length >> pageShift
	for i := uint32(0); i < n; i++ {
		t.pages[first+i] = BusPage{}
	}
}

// Page returns the descriptor for addr's containing page.
func (t *BusPointerTable) Page(addr uint32) *BusPage {
	return &t.pages[pageIndex(addr)]
}
