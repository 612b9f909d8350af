package schema

import (
	"bytes"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const taskJSON = `{
  "endian": "little",
  "pointer_size": 8,
  "types": {
    "int": {"kind": "base", "size": 4},
    "task": {
      "kind": "struct",
      "size": 64,
      "members": [
        {"name": "pid", "offset": 0, "type": {"ref": "int"}},
        {"name": "next", "offset": 8, "type": {"kind": "pointer", "target": {"ref": "task"}}}
      ]
    },
    "do_exit": {"kind": "function", "address": 4096}
  }
}`

func TestParseJSON(t *testing.T) {
	doc, err := Parse([]byte(taskJSON))
	require.NoError(t, err)

	assert.True(t, doc.LittleEndian())
	assert.Equal(t, uint32(8), doc.PointerSize)
	require.Contains(t, doc.Types, "task")

	task := doc.Types["task"]
	assert.Equal(t, KindStruct, task.Kind)
	assert.Equal(t, uint32(64), task.Size)
	require.Len(t, task.Members, 2)
	assert.Equal(t, "pid", task.Members[0].Name)
	assert.Equal(t, uint32(8), task.Members[1].Offset)
	assert.Equal(t, "int", task.Members[0].Type.Ref)
}

func TestParseYAML(t *testing.T) {
	yamlDoc := `
endian: big
types:
  unsigned int:
    kind: base
    size: 4
  flags:
    kind: struct
    size: 4
    members:
      - name: raw
        offset: 0
        type:
          ref: unsigned int
`
	doc, err := Parse([]byte(yamlDoc))
	require.NoError(t, err)

	assert.False(t, doc.LittleEndian())
	require.Contains(t, doc.Types, "flags")
	assert.Equal(t, "unsigned int", doc.Types["flags"].Members[0].Type.Ref)
}

func TestParseZstdCompressed(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(taskJSON))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	doc, err := Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Contains(t, doc.Types, "task")
	assert.Contains(t, doc.Types, "do_exit")
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"truncated json", `{"endian": "little", "types": {`},
		{"unknown endianness", `{"endian": "middle", "types": {}}`},
		{"missing types collection", `{"endian": "little"}`},
		{"scalar document", `42`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.json")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedDocument)
}
