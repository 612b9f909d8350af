// Package catalog holds the registry built by the schema loader: struct and
// union layouts keyed by name, and the function entry-point table keyed by
// address. A Catalog is built once, published through a Handle, and never
// mutated afterwards, so concurrent readers need no locking.
package catalog

import (
	"errors"
	"fmt"
	"sort"

	"dwarfquery/typedef"
)

var (
	ErrDuplicateStruct = errors.New("catalog: duplicate struct definition")
	ErrDuplicateFunc   = errors.New("catalog: duplicate function address")
)

// FuncEntry is one entry in the function table.
type FuncEntry struct {
	Addr uint64
	Name string
}

// Catalog maps aggregate names to their definitions and function entry
// addresses to function names. The function table is kept sorted by address
// so containment queries can binary search.
type Catalog struct {
	structs map[string]*typedef.StructDef
	funcs   []FuncEntry
}

// New creates an empty catalog. Only the schema loader should populate it;
// once published via a Handle it must be treated as read-only.
func New() *Catalog {
	return &Catalog{
		structs: make(map[string]*typedef.StructDef),
	}
}

// AddStruct inserts a complete definition under its name. Names are
// case-sensitive and unique.
func (c *Catalog) AddStruct(def *typedef.StructDef) error {
	if _, exists := c.structs[def.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStruct, def.Name)
	}
	c.structs[def.Name] = def
	return nil
}

// AddFunc inserts a function entry point. Addresses are unique.
func (c *Catalog) AddFunc(addr uint64, name string) error {
	i := sort.Search(len(c.funcs), func(i int) bool {
		return c.funcs[i].Addr >= addr
	})
	if i < len(c.funcs) && c.funcs[i].Addr == addr {
		return fmt.Errorf("%w: 0x%X (%q vs %q)", ErrDuplicateFunc, addr, c.funcs[i].Name, name)
	}
	c.funcs = append(c.funcs, FuncEntry{})
	copy(c.funcs[i+1:], c.funcs[i:])
	c.funcs[i] = FuncEntry{Addr: addr, Name: name}
	return nil
}

// LookupStruct returns the definition registered under name.
func (c *Catalog) LookupStruct(name string) (*typedef.StructDef, bool) {
	def, ok := c.structs[name]
	return def, ok
}

// LookupFunc returns the function name registered at exactly addr.
func (c *Catalog) LookupFunc(addr uint64) (string, bool) {
	i := sort.Search(len(c.funcs), func(i int) bool {
		return c.funcs[i].Addr >= addr
	})
	if i < len(c.funcs) && c.funcs[i].Addr == addr {
		return c.funcs[i].Name, true
	}
	return "", false
}

// FuncContaining returns the function entry at the highest address at or
// below addr, answering "which function contains this address". There is no
// upper bound check since the table only records entry points.
func (c *Catalog) FuncContaining(addr uint64) (FuncEntry, bool) {
	i := sort.Search(len(c.funcs), func(i int) bool {
		return c.funcs[i].Addr > addr
	})
	if i == 0 {
		return FuncEntry{}, false
	}
	return c.funcs[i-1], true
}

// StructNames returns all registered aggregate names in sorted order, for
// diagnostics.
func (c *Catalog) StructNames() []string {
	names := make([]string, 0, len(c.structs))
	for name := range c.structs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Funcs returns the function table in address order. Callers must not
// modify the returned slice.
func (c *Catalog) Funcs() []FuncEntry {
	return c.funcs
}

// NumStructs returns the number of registered aggregates.
func (c *Catalog) NumStructs() int {
	return len(c.structs)
}

// NumFuncs returns the number of registered function entries.
func (c *Catalog) NumFuncs() int {
	return len(c.funcs)
}
