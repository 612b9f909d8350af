package common

import (
	"fmt"
)

// MemoryBuffer implements MemoryAccessor for a single contiguous region of
// target memory, typically the contents of one guest memory dump file.
type MemoryBuffer struct {
	// BaseAddr is the target virtual address of the first byte.
	BaseAddr uint64
	// Data holds the region contents.
	Data []byte
}

// NewMemoryBuffer creates a memory buffer mapped at the given base address.
func NewMemoryBuffer(baseAddr uint64, data []byte) *MemoryBuffer {
	return &MemoryBuffer{
		BaseAddr: baseAddr,
		Data:     data,
	}
}

// ReadMemory implements MemoryAccessor. Reads within the region may be
// partial when the request runs past the last byte; addresses outside the
// region fault.
func (mb *MemoryBuffer) ReadMemory(addr uint64, data []byte) (int, error) {
	if addr < mb.BaseAddr {
		return 0, fmt.Errorf("address 0x%X is before region base 0x%X", addr, mb.BaseAddr)
	}

	offset := addr - mb.BaseAddr
	if offset >= uint64(len(mb.Data)) {
		return 0, fmt.Errorf("address 0x%X is beyond region (0x%X - 0x%X)",
			addr, mb.BaseAddr, mb.EndAddr())
	}

	available := uint64(len(mb.Data)) - offset
	toRead := uint64(len(data))
	if toRead > available {
		toRead = available
	}
	copy(data, mb.Data[offset:offset+toRead])

	return int(toRead), nil
}

// Contains reports whether addr falls within this region.
func (mb *MemoryBuffer) Contains(addr uint64) bool {
	return addr >= mb.BaseAddr && addr < mb.BaseAddr+uint64(len(mb.Data))
}

// EndAddr returns the address immediately after the last byte.
func (mb *MemoryBuffer) EndAddr() uint64 {
	return mb.BaseAddr + uint64(len(mb.Data))
}

// MultiRegionMemory implements MemoryAccessor over multiple non-overlapping
// regions, modelling a sparse guest memory map assembled from several dump
// files. Addresses in the gaps between regions fault, which is how an
// unmapped guest page presents to the decoder.
type MultiRegionMemory struct {
	Regions []*MemoryBuffer
}

// NewMultiRegionMemory creates an empty multi-region accessor.
func NewMultiRegionMemory() *MultiRegionMemory {
	return &MultiRegionMemory{
		Regions: make([]*MemoryBuffer, 0),
	}
}

// AddRegion adds a region to the memory map.
func (mrm *MultiRegionMemory) AddRegion(region *MemoryBuffer) {
	mrm.Regions = append(mrm.Regions, region)
}

// ReadMemory implements MemoryAccessor. The read is served by the region
// containing addr; a read that starts inside a region never crosses into a
// neighbouring one.
func (mrm *MultiRegionMemory) ReadMemory(addr uint64, data []byte) (int, error) {
	for _, region := range mrm.Regions {
		if region.Contains(addr) {
			return region.ReadMemory(addr, data)
		}
	}

	return 0, fmt.Errorf("address 0x%X not mapped in any memory region", addr)
}
