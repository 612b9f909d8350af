// Package main implements catdump - loads a schema document, prints the
// resulting type catalog, and optionally decodes a member against a guest
// memory dump file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"dwarfquery/catalog"
	"dwarfquery/common"
	"dwarfquery/printer"
	"dwarfquery/query"
	"dwarfquery/schema"
)

func main() {
	var (
		schemaPath = flag.String("schema", "", "schema document (JSON/YAML, optionally zstd-compressed)")
		verbose    = flag.Bool("v", false, "dump the raw parsed document")
		memSpec    = flag.String("mem", "", "guest memory dump as file@hexaddr (e.g. ram.bin@0xC0000000)")
		readSpec   = flag.String("read", "", "member decode as Struct.field@hexaddr")
		funcAddr   = flag.String("func", "", "look up the function containing a hex address")
	)
	flag.Parse()

	if *schemaPath == "" {
		fmt.Fprintln(os.Stderr, "usage: catdump -schema <file> [-v] [-mem file@addr -read Struct.field@addr] [-func addr]")
		os.Exit(2)
	}

	log := common.NewStdLogger(common.SeverityWarning)

	doc, err := schema.ParseFile(*schemaPath)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	if *verbose {
		spew.Fdump(os.Stderr, doc)
	}

	cat, err := schema.NewLoader(log).Load(doc)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	var handle catalog.Handle
	handle.Publish(cat)

	if *funcAddr != "" {
		addr, err := parseAddr(*funcAddr)
		if err != nil {
			log.Error(err)
			os.Exit(2)
		}
		if entry, ok := cat.FuncContaining(addr); ok {
			fmt.Printf("0x%X is in %s (entry 0x%X)\n", addr, entry.Name, entry.Addr)
		} else {
			fmt.Printf("0x%X is below every known function entry\n", addr)
		}
		return
	}

	if *readSpec != "" {
		if err := runRead(handle.Current(), *memSpec, *readSpec); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		return
	}

	printer.PrintCatalog(os.Stdout, cat)
}

// runRead decodes one struct member out of a memory dump file:
// -mem ram.bin@0x1000 -read task.pid@0x1040
func runRead(cat *catalog.Catalog, memSpec, readSpec string) error {
	if memSpec == "" {
		return fmt.Errorf("-read requires -mem")
	}

	memFile, memBase, err := splitAtAddr(memSpec)
	if err != nil {
		return fmt.Errorf("bad -mem spec: %w", err)
	}
	data, err := os.ReadFile(memFile)
	if err != nil {
		return fmt.Errorf("loading memory dump: %w", err)
	}
	mem := common.NewMemoryBuffer(memBase, data)

	target, addr, err := splitAtAddr(readSpec)
	if err != nil {
		return fmt.Errorf("bad -read spec: %w", err)
	}
	structName, fieldName, ok := strings.Cut(target, ".")
	if !ok {
		return fmt.Errorf("bad -read spec: want Struct.field@addr, got %q", readSpec)
	}

	def, ok := cat.LookupStruct(structName)
	if !ok {
		return fmt.Errorf("struct %q not in catalog", structName)
	}
	member, ok := def.Member(fieldName)
	if !ok {
		return fmt.Errorf("member %s.%s not in catalog", structName, fieldName)
	}

	v, err := query.ReadMember(mem, addr+uint64(member.OffsetBytes), member)
	if err != nil {
		return err
	}
	fmt.Printf("%s.%s at 0x%X = %s (%s)\n", structName, fieldName,
		addr+uint64(member.OffsetBytes), v, v.Kind())
	return nil
}

func splitAtAddr(spec string) (string, uint64, error) {
	head, addrStr, ok := strings.Cut(spec, "@")
	if !ok {
		return "", 0, fmt.Errorf("missing @addr in %q", spec)
	}
	addr, err := parseAddr(addrStr)
	if err != nil {
		return "", 0, err
	}
	return head, addr, nil
}

func parseAddr(s string) (uint64, error) {
	addr, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", s, err)
	}
	return addr, nil
}
