// Package schema parses the debug-info derived schema document and loads it
// into a type catalog. The document is produced by an external extraction
// pipeline and is untrusted: individual entries that cannot be resolved are
// marked invalid and skipped, only a document whose top-level shape is wrong
// fails the load.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

// ErrMalformedDocument indicates the document's top-level shape could not
// be parsed or validated. This is the only fatal load condition.
var ErrMalformedDocument = errors.New("schema: malformed document")

// Entry kind tags as they appear in the document.
const (
	KindBase     = "base"
	KindPointer  = "pointer"
	KindArray    = "array"
	KindBitfield = "bitfield"
	KindEnum     = "enum"
	KindUnion    = "union"
	KindStruct   = "struct"
	KindFunction = "function"
)

// Document is the parsed schema document: global byte order and pointer
// width, plus a collection of named entries.
type Document struct {
	// Endian is "little" or "big"; empty defaults to little.
	Endian string `json:"endian" yaml:"endian"`
	// PointerSize is the target pointer width in bytes; 0 defaults to 8.
	PointerSize uint32 `json:"pointer_size" yaml:"pointer_size"`
	// Types holds every named entry: base types, aggregates and functions.
	Types map[string]*Entry `json:"types" yaml:"types"`
}

// Entry is one type description in the document. Kind selects which of the
// remaining fields apply. An entry in a nested type position may carry only
// Ref, naming a top-level entry to resolve against.
type Entry struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	// Name labels an inline entry; top-level entries are named by their
	// map key instead.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Size uint32 `json:"size,omitempty" yaml:"size,omitempty"`
	// Ref resolves this position to a named top-level entry.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
	// Base names the underlying base type of a bitfield or enum.
	Base string `json:"base,omitempty" yaml:"base,omitempty"`
	// Target is the pointee of a pointer entry; nil means void pointer.
	Target *Entry `json:"target,omitempty" yaml:"target,omitempty"`
	// Element and Count describe an array entry.
	Element *Entry `json:"element,omitempty" yaml:"element,omitempty"`
	Count   uint32 `json:"count,omitempty" yaml:"count,omitempty"`
	// Members is the ordered member list of a struct or union entry.
	Members []Member `json:"members,omitempty" yaml:"members,omitempty"`
	// Address is the entry point of a function entry.
	Address uint64 `json:"address,omitempty" yaml:"address,omitempty"`
}

// Member is one struct/union member: a name, an authoritative byte offset,
// and a nested type reference.
type Member struct {
	Name   string `json:"name" yaml:"name"`
	Offset uint32 `json:"offset" yaml:"offset"`
	Type   *Entry `json:"type" yaml:"type"`
}

// zstd frame magic; extraction pipelines ship large documents compressed.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// Parse decodes a schema document from raw bytes. The document may be JSON
// or YAML, optionally zstd-compressed; the format is sniffed. A document
// whose top-level shape is wrong returns ErrMalformedDocument.
func Parse(data []byte) (*Document, error) {
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", ErrMalformedDocument, err)
		}
	}

	var doc Document
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ParseFile reads and parses a schema document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

func (d *Document) validate() error {
	switch d.Endian {
	case "", "little", "big":
	default:
		return fmt.Errorf("%w: unknown endianness %q", ErrMalformedDocument, d.Endian)
	}
	if d.Types == nil {
		return fmt.Errorf("%w: missing types collection", ErrMalformedDocument)
	}
	return nil
}

// LittleEndian reports the document's declared byte order.
func (d *Document) LittleEndian() bool {
	return d.Endian != "big"
}
