package query

import (
	"errors"
	"fmt"
	"math"

	"dwarfquery/common"
	"dwarfquery/typedef"
)

var (
	// ErrMemFault indicates the injected memory capability could not
	// retrieve the requested bytes. Always recoverable by the caller.
	ErrMemFault = errors.New("query: memory fault")

	// ErrUnsupportedType indicates the descriptor's category, width or
	// pointer combination has no defined decoding.
	ErrUnsupportedType = errors.New("query: unsupported type")
)

// ReadMember decodes the value described by d at addr in the target's
// address space. Pointers decode to the raw address without dereferencing;
// bool, char, int and float decode per the descriptor's width, byte order
// and signedness. Aggregates, arrays, functions and enums are not directly
// convertible and fail with ErrUnsupportedType, as does a descriptor marked
// invalid (without touching memory at all). A successful decode performs
// exactly one memory read.
func ReadMember(mem common.MemoryAccessor, addr uint64, d typedef.Descriptor) (Value, error) {
	if !d.Valid {
		return Value{}, fmt.Errorf("%w: descriptor %q is marked invalid", ErrUnsupportedType, d.Name)
	}

	if d.IsPointer() {
		if d.SizeBytes == 0 || d.SizeBytes > 8 {
			return Value{}, fmt.Errorf("%w: pointer %q has width %d", ErrUnsupportedType, d.Name, d.SizeBytes)
		}
		raw, err := readFull(mem, addr, d.SizeBytes, d.Name)
		if err != nil {
			return Value{}, err
		}
		return AddrValue(decodeUint(raw, d.LittleEndian)), nil
	}

	switch d.Kind {
	case typedef.Bool:
		if d.SizeBytes != 1 {
			return Value{}, fmt.Errorf("%w: bool %q has width %d", ErrUnsupportedType, d.Name, d.SizeBytes)
		}
		raw, err := readFull(mem, addr, 1, d.Name)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(raw[0] != 0), nil

	case typedef.Char:
		if d.SizeBytes != 1 {
			return Value{}, fmt.Errorf("%w: char %q has width %d", ErrUnsupportedType, d.Name, d.SizeBytes)
		}
		raw, err := readFull(mem, addr, 1, d.Name)
		if err != nil {
			return Value{}, err
		}
		if d.Signed {
			return CharValue(int64(int8(raw[0]))), nil
		}
		return CharValue(int64(raw[0])), nil

	case typedef.Int:
		switch d.SizeBytes {
		case 1, 2, 4, 8:
		default:
			return Value{}, fmt.Errorf("%w: int %q has width %d", ErrUnsupportedType, d.Name, d.SizeBytes)
		}
		raw, err := readFull(mem, addr, d.SizeBytes, d.Name)
		if err != nil {
			return Value{}, err
		}
		u := decodeUint(raw, d.LittleEndian)
		if d.Signed {
			return IntValue(signExtend(u, d.SizeBytes)), nil
		}
		return UintValue(u), nil

	case typedef.Float:
		switch d.SizeBytes {
		case 4, 8:
		default:
			// Extended widths (long double) have no portable decoding.
			return Value{}, fmt.Errorf("%w: float %q has width %d", ErrUnsupportedType, d.Name, d.SizeBytes)
		}
		raw, err := readFull(mem, addr, d.SizeBytes, d.Name)
		if err != nil {
			return Value{}, err
		}
		u := decodeUint(raw, d.LittleEndian)
		if d.SizeBytes == 4 {
			return FloatValue(float64(math.Float32frombits(uint32(u)))), nil
		}
		return FloatValue(math.Float64frombits(u)), nil

	default:
		return Value{}, fmt.Errorf("%w: %q is a bare %s; request its members or elements instead",
			ErrUnsupportedType, d.Name, d.Kind)
	}
}

// ReadString fetches a NUL-terminated string of at most max bytes starting
// at addr. A short read is tolerated (the string may end a byte before an
// unmapped page); an empty or failed read is a fault.
func ReadString(mem common.MemoryAccessor, addr uint64, max int) (string, error) {
	if max <= 0 {
		return "", nil
	}
	buf := make([]byte, max)
	got, err := mem.ReadMemory(addr, buf)
	if err != nil || got == 0 {
		return "", fmt.Errorf("%w: reading string at 0x%X: %v", ErrMemFault, addr, err)
	}
	for i := 0; i < got; i++ {
		if buf[i] == 0 {
			return string(buf[:i]), nil
		}
	}
	return string(buf[:got]), nil
}

// ReadStructRaw fetches the raw bytes of a whole aggregate at addr, for
// callers that want to slice members out of one read instead of reading
// them individually.
func ReadStructRaw(mem common.MemoryAccessor, addr uint64, def *typedef.StructDef) ([]byte, error) {
	if def.SizeBytes == 0 {
		return nil, fmt.Errorf("%w: aggregate %q has unknown size", ErrUnsupportedType, def.Name)
	}
	return readFull(mem, addr, def.SizeBytes, def.Name)
}

// readFull reads exactly size bytes at addr. Both an accessor error and a
// short read surface as ErrMemFault: a partial value must never be decoded.
func readFull(mem common.MemoryAccessor, addr uint64, size uint32, name string) ([]byte, error) {
	buf := make([]byte, size)
	got, err := mem.ReadMemory(addr, buf)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %d bytes at 0x%X for %q: %v", ErrMemFault, size, addr, name, err)
	}
	if got < int(size) {
		return nil, fmt.Errorf("%w: short read (%d of %d bytes) at 0x%X for %q", ErrMemFault, got, size, addr, name)
	}
	return buf, nil
}

// decodeUint assembles up to 8 bytes into an unsigned integer with the
// given byte order.
func decodeUint(raw []byte, littleEndian bool) uint64 {
	var u uint64
	if littleEndian {
		for i := len(raw) - 1; i >= 0; i-- {
			u = u<<8 | uint64(raw[i])
		}
	} else {
		for i := 0; i < len(raw); i++ {
			u = u<<8 | uint64(raw[i])
		}
	}
	return u
}

// signExtend interprets the low size bytes of u as a two's complement
// signed integer.
func signExtend(u uint64, size uint32) int64 {
	shift := 64 - 8*size
	return int64(u<<shift) >> shift
}
