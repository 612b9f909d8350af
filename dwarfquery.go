// Package dwarfquery maintains a catalog of struct layouts derived from
// debugging metadata and decodes raw bytes from a traced target's address
// space into typed values.
//
// The schema document (produced by an external debug-info extraction
// pipeline) is loaded once into an immutable catalog; at trace time the
// orchestration layer looks up a member descriptor and hands it to the
// query package together with an address and the injected memory accessor.
//
// This package is a thin facade over schema, catalog, and query for callers
// that just want a catalog out of a document.
package dwarfquery

import (
	"dwarfquery/catalog"
	"dwarfquery/common"
	"dwarfquery/schema"
)

// Load parses a schema document from raw bytes (JSON or YAML, optionally
// zstd-compressed) and builds a catalog from it. Degraded entries are
// reported to log; a nil log disables reporting.
func Load(data []byte, log common.Logger) (*catalog.Catalog, error) {
	doc, err := schema.Parse(data)
	if err != nil {
		return nil, err
	}
	return schema.NewLoader(log).Load(doc)
}

// LoadFile is Load reading the document from disk.
func LoadFile(path string, log common.Logger) (*catalog.Catalog, error) {
	doc, err := schema.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return schema.NewLoader(log).Load(doc)
}
