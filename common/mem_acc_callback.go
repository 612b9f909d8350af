package common

import (
	"fmt"
)

// MemoryReadFunc is the signature for callbacks that service a target
// memory read, e.g. a hook into a live VM's virtual memory read primitive.
// It returns the number of bytes read and an error when the address is
// inaccessible in the target's current state (unmapped page, target gone).
type MemoryReadFunc func(addr uint64, data []byte) (int, error)

// CallbackAccessor implements MemoryAccessor via a callback function. Used
// when the target is live and reads must go through the host's own memory
// primitive rather than a static dump.
type CallbackAccessor struct {
	startAddr uint64
	endAddr   uint64
	callback  MemoryReadFunc
}

// NewCallbackAccessor creates a memory accessor backed by a callback,
// covering addresses in [startAddr, endAddr). An endAddr of 0 means the
// callback covers the whole address space.
func NewCallbackAccessor(startAddr, endAddr uint64, callback MemoryReadFunc) *CallbackAccessor {
	return &CallbackAccessor{
		startAddr: startAddr,
		endAddr:   endAddr,
		callback:  callback,
	}
}

// ReadMemory implements MemoryAccessor. Requests outside the configured
// range, and callback failures, surface as faults.
func (ca *CallbackAccessor) ReadMemory(addr uint64, data []byte) (int, error) {
	if ca.callback == nil {
		return 0, fmt.Errorf("no callback set for address 0x%X", addr)
	}
	if addr < ca.startAddr {
		return 0, fmt.Errorf("address 0x%X is below callback range start 0x%X", addr, ca.startAddr)
	}

	toRead := uint64(len(data))
	if ca.endAddr != 0 {
		if addr >= ca.endAddr {
			return 0, fmt.Errorf("address 0x%X is outside callback range [0x%X, 0x%X)",
				addr, ca.startAddr, ca.endAddr)
		}
		if available := ca.endAddr - addr; toRead > available {
			toRead = available
		}
	}

	return ca.callback(addr, data[:toRead])
}

// StartAddr returns the start of the covered range.
func (ca *CallbackAccessor) StartAddr() uint64 {
	return ca.startAddr
}

// EndAddr returns the end of the covered range, 0 meaning unbounded.
func (ca *CallbackAccessor) EndAddr() uint64 {
	return ca.endAddr
}
