package sourcemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/logger"
)

func TestVLQ(t *testing.T) {
	for _, value := range []int{0, 1, -1, 15, 16, -16, 1023, -123456} {
		encoded := encodeVLQ(nil, value)

		decoded, end := DecodeVLQ(encoded, 0)
		assert.Equal(t, value, decoded)
		assert.Equal(t, len(encoded), end)

		decoded16, n, ok := DecodeVLQUTF16(helpers.StringToUTF16(string(encoded)))
		require.True(t, ok)
		assert.Equal(t, int32(value), decoded16)
		assert.Equal(t, len(encoded), n)
	}

	_, _, ok := DecodeVLQUTF16(helpers.StringToUTF16(","))
	assert.False(t, ok)

	// A continuation bit at the end of the input is truncated data
	_, _, ok = DecodeVLQUTF16(helpers.StringToUTF16("g"))
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	sm := &SourceMap{Mappings: []Mapping{
		{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 10},
		{GeneratedLine: 0, GeneratedColumn: 5, OriginalLine: 11},
		{GeneratedLine: 2, GeneratedColumn: 3, OriginalLine: 12},
	}}

	assert.Equal(t, int32(10), sm.Find(0, 4).OriginalLine)
	assert.Equal(t, int32(11), sm.Find(0, 5).OriginalLine)
	assert.Equal(t, int32(11), sm.Find(0, 100).OriginalLine)
	assert.Nil(t, sm.Find(1, 0))
	assert.Nil(t, sm.Find(2, 2))
	assert.Equal(t, int32(12), sm.Find(2, 3).OriginalLine)
}

func TestLineOffsetTables(t *testing.T) {
	tables := GenerateLineOffsetTables("ab\nΞx\r\ny")

	line, column := lineAndColumn(tables, logger.Loc{Start: 1})
	assert.Equal(t, int32(0), line)
	assert.Equal(t, int32(1), column)

	// "Ξ" takes two bytes but a single UTF-16 code unit
	line, column = lineAndColumn(tables, logger.Loc{Start: 5})
	assert.Equal(t, int32(1), line)
	assert.Equal(t, int32(1), column)

	line, column = lineAndColumn(tables, logger.Loc{Start: 8})
	assert.Equal(t, int32(2), line)
	assert.Equal(t, int32(0), column)
}

func TestChunkBuilder(t *testing.T) {
	contents := "foo()\nbar()"
	builder := MakeChunkBuilder(nil, GenerateLineOffsetTables(contents))

	output := []byte("// header\n")
	builder.AddSourceMapping(logger.Loc{Start: 0}, "foo", "foo", output)
	output = append(output, "foo();\n"...)
	builder.AddSourceMapping(logger.Loc{Start: 6}, "", "_anonymous", output)
	output = append(output, "_anonymous();\n"...)

	chunk := builder.GenerateChunk(output)
	require.Len(t, chunk.Mappings, 2)
	assert.Equal(t, []string{"foo"}, chunk.Names)
	assert.Equal(t, "foo", chunk.GeneratedNames["foo"])
	assert.Equal(t, "", chunk.GeneratedNames["_anonymous"])

	first := chunk.Mappings[0]
	assert.Equal(t, int32(1), first.GeneratedLine)
	assert.Equal(t, int32(0), first.OriginalLine)
	assert.Equal(t, int32(0), first.OriginalName)

	second := chunk.Mappings[1]
	assert.Equal(t, int32(2), second.GeneratedLine)
	assert.Equal(t, int32(1), second.OriginalLine)
	assert.Equal(t, NoName, second.OriginalName)
}

func TestChunkBuilderWithInputMap(t *testing.T) {
	input := &SourceMap{
		Sources: []string{"original.ts"},
		Names:   []string{"originalName"},
		Mappings: []Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, OriginalLine: 7, OriginalColumn: 2, OriginalName: 0},
		},
	}
	builder := MakeChunkBuilder(input, GenerateLineOffsetTables("x()\ny()"))

	builder.AddSourceMapping(logger.Loc{Start: 0}, "x", "x", nil)

	// There is no mapping for the second line of the intermediate file
	builder.AddSourceMapping(logger.Loc{Start: 4}, "y", "y", []byte("x();\n"))

	chunk := builder.GenerateChunk([]byte("x();\ny();\n"))
	require.Len(t, chunk.Mappings, 1)
	assert.Equal(t, int32(7), chunk.Mappings[0].OriginalLine)
	assert.Equal(t, int32(2), chunk.Mappings[0].OriginalColumn)
	assert.Equal(t, []string{"originalName"}, chunk.Names)
	assert.Equal(t, "originalName", chunk.GeneratedNames["x"])

	sm := Compose(chunk, logger.Source{PrettyPath: "intermediate.js"}, input)
	assert.Equal(t, []string{"original.ts"}, sm.Sources)
	name, ok := sm.OriginalFunctionName("x")
	assert.True(t, ok)
	assert.Equal(t, "originalName", name)
}

func TestComposeAndEncode(t *testing.T) {
	source := logger.Source{PrettyPath: "file.js", Contents: "a\n\"b\""}
	chunk := Chunk{
		Mappings: []Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, OriginalName: NoName},
			{GeneratedLine: 0, GeneratedColumn: 4, OriginalLine: 1, OriginalColumn: 0, OriginalName: 0},
			{GeneratedLine: 2, GeneratedColumn: 1, OriginalLine: 1, OriginalColumn: 1, OriginalName: NoName},
		},
		Names: []string{"b"},
	}

	sm := Compose(chunk, source, nil)
	assert.Equal(t, []string{"file.js"}, sm.Sources)
	assert.True(t, sm.HasSourceContent(0))
	assert.False(t, sm.HasSourceContent(1))

	assert.Equal(t,
		`{"version":3,"sources":["file.js"],"sourcesContent":["a\n\"b\""],"names":["b"],"mappings":"AAAA,IACAA;;CAAC"}`,
		string(sm.Encode()))
}
