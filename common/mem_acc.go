package common

// MemoryAccessor is the injected capability for reading raw bytes out of the
// traced target's address space. The type-query core never owns memory
// access; the host environment supplies an implementation with every decode
// request.
//
// Implementations can provide:
// - In-memory buffers loaded from guest memory dump files
// - Callbacks into a live VM's paging-aware read primitive
// - Mocked memory for unit tests
type MemoryAccessor interface {
	// ReadMemory reads bytes from target memory at the specified virtual
	// address into data, returning the number of bytes actually read.
	//
	// A read may come up short when the requested range runs off the end
	// of a mapped region. A completely inaccessible address (unmapped or
	// paged out in the target's current state) returns an error. Callers
	// that need a full-width value must treat both a short read and an
	// error as a memory fault.
	ReadMemory(addr uint64, data []byte) (int, error)
}
