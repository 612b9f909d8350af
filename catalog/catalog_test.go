package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dwarfquery/typedef"
)

func TestAddAndLookupStruct(t *testing.T) {
	c := New()
	def := &typedef.StructDef{
		Name:      "task_struct",
		SizeBytes: 64,
		Members: []typedef.Descriptor{
			{Name: "pid", Kind: typedef.Int, SizeBytes: 4, Valid: true},
		},
	}
	if err := c.AddStruct(def); err != nil {
		t.Fatalf("AddStruct() error = %v", err)
	}

	got, ok := c.LookupStruct("task_struct")
	if !ok {
		t.Fatalf("LookupStruct(task_struct) not found")
	}
	if diff := cmp.Diff(def, got); diff != "" {
		t.Errorf("LookupStruct() mismatch (-want +got):\n%s", diff)
	}

	// Names are case-sensitive.
	if _, ok := c.LookupStruct("Task_Struct"); ok {
		t.Errorf("LookupStruct(Task_Struct) found, want case-sensitive miss")
	}
}

func TestAddStructDuplicate(t *testing.T) {
	c := New()
	def := &typedef.StructDef{Name: "cred", SizeBytes: 8}
	if err := c.AddStruct(def); err != nil {
		t.Fatalf("AddStruct() error = %v", err)
	}
	if err := c.AddStruct(def); !errors.Is(err, ErrDuplicateStruct) {
		t.Errorf("AddStruct() second insert error = %v, want ErrDuplicateStruct", err)
	}
}

func TestFuncTable(t *testing.T) {
	c := New()
	// Insert out of address order; the table must end up sorted.
	entries := []FuncEntry{
		{Addr: 0x3000, Name: "do_exit"},
		{Addr: 0x1000, Name: "do_fork"},
		{Addr: 0x2000, Name: "do_mmap"},
	}
	for _, e := range entries {
		if err := c.AddFunc(e.Addr, e.Name); err != nil {
			t.Fatalf("AddFunc(0x%X) error = %v", e.Addr, err)
		}
	}

	want := []FuncEntry{
		{Addr: 0x1000, Name: "do_fork"},
		{Addr: 0x2000, Name: "do_mmap"},
		{Addr: 0x3000, Name: "do_exit"},
	}
	if diff := cmp.Diff(want, c.Funcs()); diff != "" {
		t.Errorf("Funcs() mismatch (-want +got):\n%s", diff)
	}

	if err := c.AddFunc(0x2000, "other"); !errors.Is(err, ErrDuplicateFunc) {
		t.Errorf("AddFunc(duplicate) error = %v, want ErrDuplicateFunc", err)
	}
}

func TestLookupFunc(t *testing.T) {
	c := New()
	c.AddFunc(0x1000, "do_fork")
	c.AddFunc(0x2000, "do_mmap")

	tests := []struct {
		addr     uint64
		wantName string
		wantOK   bool
	}{
		{0x1000, "do_fork", true},
		{0x2000, "do_mmap", true},
		{0x1004, "", false},
		{0x0, "", false},
	}

	for _, tt := range tests {
		name, ok := c.LookupFunc(tt.addr)
		if name != tt.wantName || ok != tt.wantOK {
			t.Errorf("LookupFunc(0x%X) = (%q, %t), want (%q, %t)",
				tt.addr, name, ok, tt.wantName, tt.wantOK)
		}
	}
}

func TestFuncContaining(t *testing.T) {
	c := New()
	c.AddFunc(0x1000, "do_fork")
	c.AddFunc(0x2000, "do_mmap")

	tests := []struct {
		addr     uint64
		wantName string
		wantOK   bool
	}{
		{0x1000, "do_fork", true},
		{0x1FFF, "do_fork", true},
		{0x2000, "do_mmap", true},
		{0x9000, "do_mmap", true},
		{0x0FFF, "", false},
	}

	for _, tt := range tests {
		entry, ok := c.FuncContaining(tt.addr)
		if entry.Name != tt.wantName || ok != tt.wantOK {
			t.Errorf("FuncContaining(0x%X) = (%q, %t), want (%q, %t)",
				tt.addr, entry.Name, ok, tt.wantName, tt.wantOK)
		}
	}
}

func TestStructNamesSorted(t *testing.T) {
	c := New()
	for _, name := range []string{"vm_area_struct", "cred", "task_struct"} {
		c.AddStruct(&typedef.StructDef{Name: name})
	}

	want := []string{"cred", "task_struct", "vm_area_struct"}
	if diff := cmp.Diff(want, c.StructNames()); diff != "" {
		t.Errorf("StructNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlePublish(t *testing.T) {
	var h Handle
	if h.Current() != nil {
		t.Fatalf("Current() before publish = %v, want nil", h.Current())
	}

	first := New()
	first.AddStruct(&typedef.StructDef{Name: "task_struct"})
	h.Publish(first)

	if got := h.Current(); got != first {
		t.Errorf("Current() = %p, want %p", got, first)
	}

	// A reload replaces the whole catalog in one swap.
	second := New()
	second.AddStruct(&typedef.StructDef{Name: "thread_info"})
	h.Publish(second)

	cur := h.Current()
	if _, ok := cur.LookupStruct("task_struct"); ok {
		t.Errorf("stale entry visible after reload")
	}
	if _, ok := cur.LookupStruct("thread_info"); !ok {
		t.Errorf("new entry missing after reload")
	}
}

func TestHandleConcurrentReaders(t *testing.T) {
	var h Handle
	c := New()
	c.AddStruct(&typedef.StructDef{Name: "task_struct", SizeBytes: 64})
	h.Publish(c)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				cur := h.Current()
				if cur == nil {
					t.Error("Current() = nil after publish")
					return
				}
				if def, ok := cur.LookupStruct("task_struct"); !ok || def.SizeBytes != 64 {
					t.Error("LookupStruct saw inconsistent entry")
					return
				}
			}
		}()
	}
	wg.Wait()
}
