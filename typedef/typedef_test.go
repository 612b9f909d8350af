package typedef

import (
	"strings"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Void, "void"},
		{Bool, "bool"},
		{Char, "char"},
		{Int, "int"},
		{Float, "float"},
		{Struct, "struct"},
		{Func, "function"},
		{Array, "array"},
		{Union, "union"},
		{Enum, "enum"},
		{Kind(200), "{unknown}"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestArrayLen(t *testing.T) {
	tests := []struct {
		name   string
		desc   Descriptor
		wantN  int
		wantOK bool
	}{
		{
			name:   "even division",
			desc:   Descriptor{Kind: Array, SizeBytes: 40, ElemSizeBytes: 10},
			wantN:  4,
			wantOK: true,
		},
		{
			name:   "unknown span reports zero",
			desc:   Descriptor{Kind: Array, SizeBytes: 0, ElemSizeBytes: 10},
			wantN:  0,
			wantOK: true,
		},
		{
			name:   "not an array",
			desc:   Descriptor{Kind: Int, SizeBytes: 4},
			wantN:  0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := tt.desc.ArrayLen()
			if n != tt.wantN || ok != tt.wantOK {
				t.Errorf("ArrayLen() = (%d, %t), want (%d, %t)", n, ok, tt.wantN, tt.wantOK)
			}
		})
	}
}

func TestArrayLenInvariantViolation(t *testing.T) {
	d := Descriptor{Name: "bad", Kind: Array, SizeBytes: 41, ElemSizeBytes: 10}

	defer func() {
		if recover() == nil {
			t.Errorf("ArrayLen() on size 41 / elem 10 did not panic")
		}
	}()
	d.ArrayLen()
}

func TestDescriptorString(t *testing.T) {
	d := Descriptor{
		Name:         "pid",
		SizeBytes:    4,
		OffsetBytes:  1256,
		Kind:         Int,
		LittleEndian: true,
		Signed:       true,
		Valid:        true,
	}

	s := d.String()
	for _, want := range []string{`"pid"`, "offset: 1256", "kind: int", "size: 4", "valid: true"} {
		if !strings.Contains(s, want) {
			t.Errorf("Descriptor.String() = %q, missing %q", s, want)
		}
	}
}

func TestDescriptorStringPointerTarget(t *testing.T) {
	d := Descriptor{
		Name:          "next",
		SizeBytes:     8,
		Kind:          Int,
		PtrDepth:      PtrSingle,
		PtrTargetName: "task_struct",
		Valid:         true,
	}

	s := d.String()
	if !strings.Contains(s, "ptr: single") || !strings.Contains(s, "target: task_struct") {
		t.Errorf("Descriptor.String() = %q, missing pointer info", s)
	}
}

func TestStructDefMember(t *testing.T) {
	def := &StructDef{
		Name:      "task",
		SizeBytes: 16,
		Members: []Descriptor{
			{Name: "pid", Kind: Int, SizeBytes: 4, OffsetBytes: 0, Valid: true},
			{Name: "state", Kind: Int, SizeBytes: 8, OffsetBytes: 8, Valid: true},
		},
	}

	m, ok := def.Member("state")
	if !ok {
		t.Fatalf("Member(state) not found")
	}
	if m.OffsetBytes != 8 {
		t.Errorf("Member(state).OffsetBytes = %d, want 8", m.OffsetBytes)
	}

	if _, ok := def.Member("missing"); ok {
		t.Errorf("Member(missing) found, want not found")
	}
}

func TestStructDefString(t *testing.T) {
	def := &StructDef{
		Name:      "task",
		SizeBytes: 16,
		Members: []Descriptor{
			{Name: "pid", Kind: Int, SizeBytes: 4, Valid: true},
		},
	}

	s := def.String()
	if !strings.Contains(s, `struct "task" (size: 16, members: 1)`) {
		t.Errorf("StructDef.String() = %q, missing header", s)
	}
	if !strings.Contains(s, `member "pid"`) {
		t.Errorf("StructDef.String() = %q, missing member line", s)
	}
}
