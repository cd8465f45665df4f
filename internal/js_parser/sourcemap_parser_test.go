package js_parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/sourcemap"
)

func parseSourceMapForTest(t *testing.T, text string) (*sourcemap.SourceMap, string) {
	t.Helper()
	log := logger.NewDeferLog()
	sm := ParseSourceMap(log, logger.Source{PrettyPath: "test.map", Contents: text})
	msgs := ""
	for _, msg := range log.Done() {
		msgs += msg.String(logger.OutputOptions{}, logger.TerminalInfo{})
	}
	return sm, msgs
}

func TestSourceMapRoundTrip(t *testing.T) {
	original := &sourcemap.SourceMap{
		Sources:        []string{"a.ts"},
		SourcesContent: []sourcemap.SourceContent{{Quoted: `"let a = 1;\n"`}},
		Names:          []string{"a", "b"},
		Mappings: []sourcemap.Mapping{
			{GeneratedLine: 0, GeneratedColumn: 0, OriginalName: sourcemap.NoName},
			{GeneratedLine: 0, GeneratedColumn: 4, OriginalColumn: 4, OriginalName: 0},
			{GeneratedLine: 3, GeneratedColumn: 2, OriginalLine: 5, OriginalColumn: 1, OriginalName: 1},
		},
	}

	sm, msgs := parseSourceMapForTest(t, string(original.Encode()))
	assert.Empty(t, msgs)
	require.NotNil(t, sm)

	assert.Equal(t, original.Sources, sm.Sources)
	assert.Equal(t, original.Names, sm.Names)
	assert.Equal(t, original.Mappings, sm.Mappings)
	require.Len(t, sm.SourcesContent, 1)
	assert.Equal(t, `"let a = 1;\n"`, sm.SourcesContent[0].Quoted)

	mapping := sm.Find(3, 10)
	require.NotNil(t, mapping)
	name, ok := sm.NameOf(mapping)
	assert.True(t, ok)
	assert.Equal(t, "b", name)
}

func TestSourceMapIgnored(t *testing.T) {
	sm, msgs := parseSourceMapForTest(t, `{"version":2,"sources":["a"],"mappings":"AAAA"}`)
	assert.Nil(t, sm)
	assert.Empty(t, msgs)

	sm, msgs = parseSourceMapForTest(t, `{"version":3,"sources":[],"mappings":""}`)
	assert.Nil(t, sm)
	assert.Empty(t, msgs)
}

func TestSourceMapErrors(t *testing.T) {
	sm, msgs := parseSourceMapForTest(t, `[]`)
	assert.Nil(t, sm)
	assert.Contains(t, msgs, "Invalid source map")

	sm, msgs = parseSourceMapForTest(t, `{"version":3,"sections":[]}`)
	assert.Nil(t, sm)
	assert.Contains(t, msgs, "\"sections\" are not supported")

	sm, msgs = parseSourceMapForTest(t, `{"version":3,"sources":["a"],"mappings":"AAAA,ACAA"}`)
	assert.Nil(t, sm)
	assert.Contains(t, msgs, "Invalid source index value: 1")

	sm, msgs = parseSourceMapForTest(t, `{"version":3,"sources":["a"],"names":[],"mappings":"AAAAA"}`)
	assert.Nil(t, sm)
	assert.Contains(t, msgs, "Invalid name index value: 0")

	sm, msgs = parseSourceMapForTest(t, `{"version":3,"sources":["a"],"mappings":"AAAA!"}`)
	assert.Nil(t, sm)
	assert.Contains(t, msgs, "Invalid character after mapping")
}

func TestSourceMapOutOfOrder(t *testing.T) {
	// The second segment moves the generated column backwards
	sm, msgs := parseSourceMapForTest(t, `{"version":3,"sources":["a"],"mappings":"IAAA,FAAC"}`)
	assert.Empty(t, msgs)
	require.NotNil(t, sm)
	require.Len(t, sm.Mappings, 2)
	assert.Equal(t, int32(2), sm.Mappings[0].GeneratedColumn)
	assert.Equal(t, int32(4), sm.Mappings[1].GeneratedColumn)
}
