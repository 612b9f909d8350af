// Package query decodes raw bytes from a traced target's address space into
// typed values, driven by type descriptors out of the catalog. Memory access
// is injected by the caller and may fault; every failure is returned as a
// distinguishable error, never coerced to a default value.
package query

import (
	"fmt"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	ValBool  ValueKind = iota // boolean
	ValChar                   // character, sign already applied
	ValInt                    // signed integer
	ValUint                   // unsigned integer
	ValFloat                  // floating point
	ValAddr                   // raw target address (undereferenced pointer)
)

func (k ValueKind) String() string {
	switch k {
	case ValBool:
		return "bool"
	case ValChar:
		return "char"
	case ValInt:
		return "int"
	case ValUint:
		return "uint"
	case ValFloat:
		return "float"
	case ValAddr:
		return "addr"
	default:
		return "{unknown}"
	}
}

// Value is a tagged variant over the primitive kinds a decode can produce.
// Consumers switch on Kind and use the matching accessor; accessors on a
// mismatched kind return the zero value.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	u    uint64
	f    float64
}

// BoolValue wraps a decoded boolean.
func BoolValue(b bool) Value {
	return Value{kind: ValBool, b: b}
}

// CharValue wraps a decoded character, sign-adjusted by the caller.
func CharValue(c int64) Value {
	return Value{kind: ValChar, i: c}
}

// IntValue wraps a decoded signed integer.
func IntValue(i int64) Value {
	return Value{kind: ValInt, i: i}
}

// UintValue wraps a decoded unsigned integer.
func UintValue(u uint64) Value {
	return Value{kind: ValUint, u: u}
}

// FloatValue wraps a decoded floating-point number.
func FloatValue(f float64) Value {
	return Value{kind: ValFloat, f: f}
}

// AddrValue wraps a decoded pointer as the raw target address.
func AddrValue(a uint64) Value {
	return Value{kind: ValAddr, u: a}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Bool returns the boolean variant.
func (v Value) Bool() bool {
	if v.kind != ValBool {
		return false
	}
	return v.b
}

// Char returns the character variant as a sign-adjusted code point.
func (v Value) Char() int64 {
	if v.kind != ValChar {
		return 0
	}
	return v.i
}

// Int returns the signed integer variant.
func (v Value) Int() int64 {
	if v.kind != ValInt {
		return 0
	}
	return v.i
}

// Uint returns the unsigned integer variant.
func (v Value) Uint() uint64 {
	if v.kind != ValUint {
		return 0
	}
	return v.u
}

// Float returns the floating-point variant.
func (v Value) Float() float64 {
	if v.kind != ValFloat {
		return 0
	}
	return v.f
}

// Addr returns the raw address variant.
func (v Value) Addr() uint64 {
	if v.kind != ValAddr {
		return 0
	}
	return v.u
}

// String renders the value for diagnostics.
func (v Value) String() string {
	switch v.kind {
	case ValBool:
		return fmt.Sprintf("%t", v.b)
	case ValChar:
		if v.i >= 0x20 && v.i < 0x7F {
			return fmt.Sprintf("%q", rune(v.i))
		}
		return fmt.Sprintf("'\\x%02x'", uint64(v.i)&0xFF)
	case ValInt:
		return fmt.Sprintf("%d", v.i)
	case ValUint:
		return fmt.Sprintf("%d", v.u)
	case ValFloat:
		return fmt.Sprintf("%g", v.f)
	case ValAddr:
		return fmt.Sprintf("0x%X", v.u)
	default:
		return "{unknown}"
	}
}
