// Package printer renders catalog contents for diagnostics and the dump
// tool. The output format is not a compatibility contract.
package printer

import (
	"fmt"
	"io"

	"dwarfquery/catalog"
)

// PrintCatalog writes every aggregate definition and the function table to
// w, aggregates in name order and functions in address order.
func PrintCatalog(w io.Writer, cat *catalog.Catalog) {
	fmt.Fprintf(w, "catalog: %d structs, %d functions\n\n", cat.NumStructs(), cat.NumFuncs())

	for _, name := range cat.StructNames() {
		def, _ := cat.LookupStruct(name)
		fmt.Fprint(w, def.String())
		fmt.Fprintln(w)
	}

	if cat.NumFuncs() > 0 {
		fmt.Fprintln(w, "functions:")
		for _, fn := range cat.Funcs() {
			fmt.Fprintf(w, "\t0x%012X %s\n", fn.Addr, fn.Name)
		}
	}
}

// PrintStruct writes a single aggregate definition to w, or a note when the
// catalog has no entry under that name.
func PrintStruct(w io.Writer, cat *catalog.Catalog, name string) {
	def, ok := cat.LookupStruct(name)
	if !ok {
		fmt.Fprintf(w, "struct %q not in catalog\n", name)
		return
	}
	fmt.Fprint(w, def.String())
}
