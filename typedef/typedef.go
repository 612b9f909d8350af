// Package typedef holds the data model for debug-info derived type
// descriptions: the classification of primitive kinds, the descriptor for a
// single field or top-level type, and the named layout of a struct or union.
//
// Descriptors are built exclusively by the schema loader and are never
// mutated after the catalog that owns them has been published.
package typedef

import (
	"fmt"
	"strings"
)

// Kind classifies a type description into one of the closed set of
// categories the memory decoder understands. Struct, union, function, enum
// and array descriptions are structurally opaque to the decoder itself;
// bool, char, int and float are the directly convertible primitive kinds.
type Kind uint8

const (
	Void   Kind = iota // C: void
	Bool               // C: bool
	Char               // C: {signed, unsigned} char
	Int                // C: {signed, unsigned} {short, long, long long} int
	Float              // C: float, double, long double (size dependent)
	Struct             // C: struct
	Func               // C: function
	Array              // C: array of some element kind
	Union              // C: union
	Enum               // C: enum
)

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "bool"
	case Char:
		return "char"
	case Int:
		return "int"
	case Float:
		return "float"
	case Struct:
		return "struct"
	case Func:
		return "function"
	case Array:
		return "array"
	case Union:
		return "union"
	case Enum:
		return "enum"
	default:
		return "{unknown}"
	}
}

// PtrDepth records the level of indirection a descriptor carries.
// A pointer-typed descriptor decodes to the address itself, never to an
// automatic dereference, so depths beyond double are not modelled.
type PtrDepth uint8

const (
	PtrNone PtrDepth = iota
	PtrSingle
	PtrDouble
)

func (p PtrDepth) String() string {
	switch p {
	case PtrNone:
		return "none"
	case PtrSingle:
		return "single"
	case PtrDouble:
		return "double"
	default:
		return "{unknown}"
	}
}

// Descriptor describes how to interpret one span of raw target memory:
// where it sits inside its enclosing aggregate, how wide it is, and which
// conversion applies. A descriptor with Valid == false could not be fully
// resolved at load time and must never be handed to the decoder.
type Descriptor struct {
	Name        string
	SizeBytes   uint32
	OffsetBytes uint32
	Kind        Kind

	PtrDepth     PtrDepth
	LittleEndian bool
	Signed       bool
	Valid        bool

	// PtrTargetName names the aggregate a pointer descriptor refers to.
	// It is only used for downstream catalog lookups by the caller; the
	// decoder never follows it.
	PtrTargetName string

	// Element description for Kind == Array.
	ElemName      string
	ElemKind      Kind
	ElemSizeBytes uint32
}

// IsPointer reports whether the descriptor carries any indirection.
func (d Descriptor) IsPointer() bool {
	return d.PtrDepth != PtrNone
}

// ArrayLen returns the element count of an array descriptor. A descriptor
// of any other kind returns ok == false. An array whose total size is
// unknown (zero) reports length 0. A nonzero total size that is not a
// whole multiple of the element size is a loader invariant violation and
// panics.
func (d Descriptor) ArrayLen() (n int, ok bool) {
	if d.Kind != Array {
		return 0, false
	}
	if d.SizeBytes == 0 {
		return 0, true
	}
	if d.ElemSizeBytes == 0 || d.SizeBytes%d.ElemSizeBytes != 0 {
		panic(fmt.Sprintf("typedef: array %q size %d is not a multiple of element size %d",
			d.Name, d.SizeBytes, d.ElemSizeBytes))
	}
	return int(d.SizeBytes / d.ElemSizeBytes), true
}

// String renders the descriptor for diagnostics. The format is not a
// compatibility contract.
func (d Descriptor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "member %q (offset: %d, kind: %s, size: %d, ptr: %s, le: %t, signed: %t, valid: %t",
		d.Name, d.OffsetBytes, d.Kind, d.SizeBytes, d.PtrDepth, d.LittleEndian, d.Signed, d.Valid)
	if d.PtrTargetName != "" {
		fmt.Fprintf(&sb, ", target: %s", d.PtrTargetName)
	}
	if d.Kind == Array {
		fmt.Fprintf(&sb, ", elem: %s %s/%d", d.ElemName, d.ElemKind, d.ElemSizeBytes)
	}
	sb.WriteString(")")
	return sb.String()
}

// StructDef is the named layout of a struct or union: an ordered sequence
// of member descriptors plus the total size in bytes. Member order is the
// declaration order from the schema document; offsets are authoritative and
// may overlap (unions are representable).
type StructDef struct {
	Name      string
	SizeBytes uint32
	Members   []Descriptor
}

// Member returns the member descriptor with the given name.
func (s *StructDef) Member(name string) (Descriptor, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Descriptor{}, false
}

// String renders the definition and all members, one per line.
func (s *StructDef) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "struct %q (size: %d, members: %d):\n", s.Name, s.SizeBytes, len(s.Members))
	for _, m := range s.Members {
		fmt.Fprintf(&sb, "\t%s\n", m.String())
	}
	return sb.String()
}
