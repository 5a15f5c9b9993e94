package qvm

import "sort"

// allocEntry describes a contiguous run within one heap region, used both
// for live allocation-table rows and free-list rows.
type allocEntry struct {
	Base uint16
	Size uint16
}

// regionState is the allocation table + free list for a single heap
// region. Kept per-region (rather than one combined table keyed by a
// region-tagged address) because pointers already carry their own Region
// tag, so there is
// never a need to discover a pointer's region by scanning a table.
type regionState struct {
	allocTable map[uint16]uint16 // base -> size
	freeList   []allocEntry      // sorted by Base
}

func newRegionState() *regionState {
	return &regionState{allocTable: make(map[uint16]uint16)}
}

// allocate implements first-fit-with-split over the free list, falling
// back to bump-allocation via grow when nothing fits.
func (rs *regionState) allocate(size uint16, grow func(uint16) uint16) uint16 {
	for i, e := range rs.freeList {
		if e.Size >= size {
			base := e.Base
			if e.Size > size {
				rs.freeList[i] = allocEntry{Base: e.Base + size, Size: e.Size - size}
			} else {
				rs.freeList = append(rs.freeList[:i], rs.freeList[i+1:]...)
			}
			rs.allocTable[base] = size
			return base
		}
	}

	base := grow(size)
	rs.allocTable[base] = size
	return base
}

// deallocate removes the live entry, appends it to the free list, then
// sorts and coalesces adjacent same-region runs in one linear pass.
func (rs *regionState) deallocate(base uint16) bool {
	size, ok := rs.allocTable[base]
	if !ok {
		return false
	}
	delete(rs.allocTable, base)

	rs.freeList = append(rs.freeList, allocEntry{Base: base, Size: size})
	sort.Slice(rs.freeList, func(i, j int) bool { return rs.freeList[i].Base < rs.freeList[j].Base })

	merged := rs.freeList[:0]
	for _, e := range rs.freeList {
		if n := len(merged); n > 0 && merged[n-1].Base+merged[n-1].Size == e.Base {
			merged[n-1].Size += e.Size
		} else {
			merged = append(merged, e)
		}
	}
	rs.freeList = merged
	return true
}

// contains reports whether addr falls within some live allocation's
// inclusive [base, base+size] span (a one-past-the-end address is still
// considered in range), and if so returns that allocation's base (the
// caller needs it to interpret DEREF/PUT/arithmetic consistently). An
// allocation whose [base, base+size) span holds addr wins over one that
// addr merely sits one past the end of.
func (rs *regionState) contains(addr uint16) (base uint16, size uint16, ok bool) {
	for b, s := range rs.allocTable {
		if addr >= b && addr < b+s {
			return b, s, true
		}
	}
	for b, s := range rs.allocTable {
		if addr == b+s {
			return b, s, true
		}
	}
	return 0, 0, false
}

// Heap owns the VM's two disjoint growing arenas plus their allocation
// bookkeeping.
type Heap struct {
	Raw  []byte
	Cell []StackValue

	raw  *regionState
	cell *regionState
}

func NewHeap() *Heap {
	return &Heap{raw: newRegionState(), cell: newRegionState()}
}

func (h *Heap) state(region Region) *regionState {
	if region == RegionRaw {
		return h.raw
	}
	return h.cell
}

// Allocate reserves size units (bytes for raw, cells for cell) in region
// and returns a pointer to the start.
func (h *Heap) Allocate(size uint16, region Region) StackValue {
	rs := h.state(region)
	base := rs.allocate(size, func(n uint16) uint16 {
		if region == RegionRaw {
			base := uint16(len(h.Raw))
			h.Raw = append(h.Raw, make([]byte, n)...)
			return base
		}
		base := uint16(len(h.Cell))
		h.Cell = append(h.Cell, make([]StackValue, n)...)
		return base
	})
	return SVFromPointer(base, region)
}

// Deallocate frees a previously-returned pointer. Freeing an address that
// is not a live allocation base is a no-op (mirrors the allocator's
// conservative "not found" contract; callers that need strictness check
// Contains first).
func (h *Heap) Deallocate(p StackValue) {
	h.state(p.Region).deallocate(p.Addr())
}

// Contains reports whether addr is within a live allocation of region
// (inclusive of the one-past-the-end address), and if so the
// allocation's base and size — used by pointer arithmetic to validate an
// adjusted address.
func (h *Heap) Contains(addr uint16, region Region) (base uint16, size uint16, ok bool) {
	return h.state(region).contains(addr)
}
