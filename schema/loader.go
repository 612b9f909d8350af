package schema

import (
	"sort"
	"strings"

	"dwarfquery/catalog"
	"dwarfquery/common"
	"dwarfquery/typedef"
)

// maxRefChain bounds alias chains and nesting while resolving entries, so a
// cyclic document degrades to invalid descriptors instead of recursing
// forever.
const maxRefChain = 32

// Loader turns a parsed schema document into a type catalog. One malformed
// entry never aborts the load: its descriptor is marked invalid, a warning
// is logged, and the rest of the catalog stays usable. Loading the same
// document twice yields observably identical catalogs; the caller publishes
// the result through a catalog.Handle.
type Loader struct {
	log     common.Logger
	doc     *Document
	little  bool
	ptrSize uint32
}

// NewLoader creates a loader reporting degraded entries to log. A nil
// logger disables reporting.
func NewLoader(log common.Logger) *Loader {
	if log == nil {
		log = common.NewNoOpLogger()
	}
	return &Loader{log: log}
}

// Load builds a fresh catalog from doc. Struct and union entries become
// aggregate definitions; function entries populate the address table; named
// base, pointer, array, bitfield and enum entries serve as resolution
// targets for refs. Only a malformed document fails; the returned catalog
// is complete otherwise.
func (l *Loader) Load(doc *Document) (*catalog.Catalog, error) {
	if doc == nil {
		return nil, ErrMalformedDocument
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}

	l.doc = doc
	l.little = doc.LittleEndian()
	l.ptrSize = doc.PointerSize
	if l.ptrSize == 0 {
		l.ptrSize = 8
	}

	// Sorted iteration keeps warnings and insertion deterministic across
	// loads of the same document.
	names := make([]string, 0, len(doc.Types))
	for name := range doc.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	cat := catalog.New()
	for _, name := range names {
		entry := doc.Types[name]
		if entry == nil {
			l.log.Logf(common.SeverityWarning, "schema: entry %q is empty, skipping", name)
			continue
		}
		switch entry.Kind {
		case KindStruct, KindUnion:
			if err := cat.AddStruct(l.buildStruct(name, entry)); err != nil {
				l.log.Warning(err.Error())
			}
		case KindFunction:
			if err := cat.AddFunc(entry.Address, name); err != nil {
				l.log.Warning(err.Error())
			}
		case KindBase, KindPointer, KindArray, KindBitfield, KindEnum:
			// Resolution targets only; nothing to insert.
		default:
			l.log.Logf(common.SeverityWarning, "schema: entry %q has unrecognized kind %q", name, entry.Kind)
		}
	}

	return cat, nil
}

// buildStruct assembles an aggregate definition, preserving document member
// order. A member that cannot be resolved is kept in the definition with
// Valid == false so the rest of the aggregate remains decodable.
func (l *Loader) buildStruct(name string, e *Entry) *typedef.StructDef {
	def := &typedef.StructDef{
		Name:      name,
		SizeBytes: e.Size,
		Members:   make([]typedef.Descriptor, 0, len(e.Members)),
	}

	for _, m := range e.Members {
		d := l.resolve(m.Name, m.Type, 0)
		d.OffsetBytes = m.Offset
		if d.Valid && def.SizeBytes > 0 && m.Offset >= def.SizeBytes {
			l.log.Logf(common.SeverityWarning, "schema: %s.%s offset %d is outside aggregate size %d",
				name, m.Name, m.Offset, def.SizeBytes)
			d.Valid = false
		}
		def.Members = append(def.Members, d)
	}

	return def
}

// resolve classifies one type position into a descriptor. Unresolvable or
// unrecognized entries produce a descriptor with Valid == false rather than
// an error.
func (l *Loader) resolve(name string, e *Entry, depth int) typedef.Descriptor {
	d := typedef.Descriptor{
		Name:         name,
		LittleEndian: l.little,
		Valid:        true,
	}

	if depth > maxRefChain {
		l.log.Logf(common.SeverityWarning, "schema: entry %q nests too deeply", name)
		d.Valid = false
		return d
	}

	e, refName := l.deref(e)
	if e == nil {
		l.log.Logf(common.SeverityWarning, "schema: entry %q has no resolvable type", name)
		d.Valid = false
		return d
	}

	switch e.Kind {
	case KindBase:
		l.resolveBase(&d, e, refName)

	case KindPointer:
		// The decoded value of a pointer is the address itself, as an
		// unsigned pointer-width integer. The target name is recorded
		// for downstream catalog lookups only.
		d.Kind = typedef.Int
		d.SizeBytes = l.ptrSize
		l.resolvePointer(&d, e)

	case KindArray:
		l.resolveArray(&d, e, depth)

	case KindBitfield:
		// Byte-level approximation: the bitfield decodes as its whole
		// underlying integer; sub-byte bit offsets are not modelled.
		l.resolveUnderlying(&d, e, typedef.Int)

	case KindEnum:
		l.resolveUnderlying(&d, e, typedef.Enum)

	case KindStruct:
		d.Kind = typedef.Struct
		d.SizeBytes = e.Size

	case KindUnion:
		d.Kind = typedef.Union
		d.SizeBytes = e.Size

	case KindFunction:
		d.Kind = typedef.Func
		d.SizeBytes = e.Size

	default:
		l.log.Logf(common.SeverityWarning, "schema: entry %q has unrecognized kind %q", name, e.Kind)
		d.Valid = false
	}

	return d
}

// resolveBase classifies a base type by its declared name, per the document
// convention: unsigned variants are explicitly tagged in the name, the last
// word selects the category.
func (l *Loader) resolveBase(d *typedef.Descriptor, e *Entry, refName string) {
	baseName := entryName(e, refName)
	kind, signed, ok := classifyBase(baseName)
	if !ok {
		l.log.Logf(common.SeverityWarning, "schema: entry %q has unrecognized base type %q", d.Name, baseName)
		d.Valid = false
		return
	}

	d.Kind = kind
	d.Signed = signed
	d.SizeBytes = e.Size

	if !baseSizeConsistent(kind, e.Size) {
		l.log.Logf(common.SeverityWarning, "schema: entry %q has inconsistent size %d for %s",
			d.Name, e.Size, kind)
		d.Valid = false
	}
}

// resolvePointer records indirection depth and the pointee name. Depth is
// single unless the pointee is itself a pointer; more than double
// indirection is not modelled and invalidates the descriptor.
func (l *Loader) resolvePointer(d *typedef.Descriptor, e *Entry) {
	d.PtrDepth = typedef.PtrSingle
	if e.Target == nil {
		return // void pointer
	}

	tgt, tname := l.deref(e.Target)
	if tgt == nil {
		// Dangling ref: keep the name for downstream lookup, the
		// pointer itself still decodes as an address.
		d.PtrTargetName = tname
		return
	}

	if tgt.Kind == KindPointer {
		d.PtrDepth = typedef.PtrDouble
		if tgt.Target == nil {
			return
		}
		inner, iname := l.deref(tgt.Target)
		if inner != nil && inner.Kind == KindPointer {
			l.log.Logf(common.SeverityWarning, "schema: entry %q exceeds double indirection", d.Name)
			d.Valid = false
			return
		}
		d.PtrTargetName = entryName(inner, iname)
		return
	}

	d.PtrTargetName = entryName(tgt, tname)
}

// resolveArray fills in the element description and the total span. A span
// that is not a whole multiple of the element size violates the array
// invariant and invalidates the descriptor here, before any decode can
// trip over it.
func (l *Loader) resolveArray(d *typedef.Descriptor, e *Entry, depth int) {
	d.Kind = typedef.Array

	if e.Element == nil {
		l.log.Logf(common.SeverityWarning, "schema: array %q has no element description", d.Name)
		d.Valid = false
		return
	}

	_, ename := l.deref(e.Element)
	elem := l.resolve(entryName(e.Element, ename), e.Element, depth+1)
	if !elem.Valid {
		d.Valid = false
		return
	}

	d.ElemName = elem.Name
	d.ElemKind = elem.Kind
	d.ElemSizeBytes = elem.SizeBytes

	d.SizeBytes = e.Size
	if d.SizeBytes == 0 && e.Count > 0 {
		d.SizeBytes = e.Count * elem.SizeBytes
	}
	if d.SizeBytes != 0 && (elem.SizeBytes == 0 || d.SizeBytes%elem.SizeBytes != 0) {
		l.log.Logf(common.SeverityWarning, "schema: array %q size %d is not a multiple of element size %d",
			d.Name, d.SizeBytes, elem.SizeBytes)
		d.Valid = false
	}
}

// resolveUnderlying sizes and signs a bitfield or enum from its named
// underlying base type.
func (l *Loader) resolveUnderlying(d *typedef.Descriptor, e *Entry, kind typedef.Kind) {
	d.Kind = kind
	d.SizeBytes = e.Size

	if e.Base == "" {
		if d.SizeBytes == 0 {
			l.log.Logf(common.SeverityWarning, "schema: entry %q has neither size nor underlying base", d.Name)
			d.Valid = false
		}
		return
	}

	base := l.doc.Types[e.Base]
	if base == nil || base.Kind != KindBase {
		l.log.Logf(common.SeverityWarning, "schema: entry %q references unknown base type %q", d.Name, e.Base)
		d.Valid = false
		return
	}

	_, signed, ok := classifyBase(e.Base)
	if !ok {
		l.log.Logf(common.SeverityWarning, "schema: entry %q has unrecognized base type %q", d.Name, e.Base)
		d.Valid = false
		return
	}

	d.Signed = signed
	if d.SizeBytes == 0 {
		d.SizeBytes = base.Size
	}
}

// deref follows ref chains to named top-level entries, returning the final
// entry and the last ref name seen. A dangling or cyclic chain returns nil.
func (l *Loader) deref(e *Entry) (*Entry, string) {
	name := ""
	for i := 0; e != nil && e.Ref != ""; i++ {
		if i >= maxRefChain {
			return nil, name
		}
		name = e.Ref
		e = l.doc.Types[e.Ref]
	}
	return e, name
}

// entryName picks the best available name for an entry: the ref it was
// reached through, else its inline name.
func entryName(e *Entry, refName string) string {
	if refName != "" {
		return refName
	}
	if e != nil {
		return e.Name
	}
	return ""
}

// classifyBase maps a base type name to its category and signedness.
// Unsigned variants are explicitly tagged ("unsigned int", "unsigned
// char"); the last word selects the category ("long long int" -> int,
// "long double" -> float).
func classifyBase(name string) (kind typedef.Kind, signed bool, ok bool) {
	fields := strings.Fields(name)
	signed = true

	last := ""
	for _, f := range fields {
		switch f {
		case "unsigned":
			signed = false
		case "signed":
			signed = true
		default:
			last = f
		}
	}

	switch last {
	case "void":
		return typedef.Void, false, true
	case "bool", "_Bool":
		return typedef.Bool, false, true
	case "char":
		return typedef.Char, signed, true
	case "int", "short", "long":
		return typedef.Int, signed, true
	case "float", "double":
		return typedef.Float, signed, true
	default:
		return typedef.Void, false, false
	}
}

// baseSizeConsistent checks category/size agreement for base types: bool
// and char are single bytes, int widths are powers of two up to 8, float
// widths are the IEEE and extended widths seen in practice.
func baseSizeConsistent(kind typedef.Kind, size uint32) bool {
	switch kind {
	case typedef.Void:
		return true
	case typedef.Bool, typedef.Char:
		return size == 1
	case typedef.Int:
		switch size {
		case 1, 2, 4, 8:
			return true
		}
		return false
	case typedef.Float:
		switch size {
		case 4, 8, 10, 12, 16:
			return true
		}
		return false
	default:
		return false
	}
}
