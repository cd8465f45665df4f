package sourcemap

import (
	"bytes"
	"strings"

	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/logger"
)

// Used for "Mapping.OriginalName" when a mapping carries no name
const NoName int32 = -1

type Mapping struct {
	GeneratedLine   int32 // 0-based
	GeneratedColumn int32 // 0-based count of UTF-16 code units

	SourceIndex    int32 // 0-based
	OriginalLine   int32 // 0-based
	OriginalColumn int32 // 0-based count of UTF-16 code units
	OriginalName   int32 // 0-based index into "Names", or NoName
}

type SourceMap struct {
	Sources        []string
	SourcesContent []SourceContent
	Mappings       []Mapping
	Names          []string

	// Names as they appear in the generated code, mapped to the name they had
	// in the original source. An empty value means the name was synthesized.
	// This is never serialized.
	GeneratedNames map[string]string
}

type SourceContent struct {
	// This stores both the unquoted and the quoted values. The quoted value is
	// reused when present so the content doesn't need to be quoted again.
	Quoted string

	Value []uint16
}

func (sm *SourceMap) Find(line int32, column int32) *Mapping {
	mappings := sm.Mappings

	// Binary search
	count := len(mappings)
	index := 0
	for count > 0 {
		step := count / 2
		i := index + step
		mapping := mappings[i]
		if mapping.GeneratedLine < line || (mapping.GeneratedLine == line && mapping.GeneratedColumn <= column) {
			index = i + 1
			count -= step + 1
		} else {
			count = step
		}
	}

	// Handle search failure
	if index > 0 {
		mapping := &mappings[index-1]

		// Match the behavior of the popular "source-map" library from Mozilla
		if mapping.GeneratedLine == line {
			return mapping
		}
	}
	return nil
}

func (sm *SourceMap) NameOf(mapping *Mapping) (string, bool) {
	if mapping.OriginalName < 0 || int(mapping.OriginalName) >= len(sm.Names) {
		return "", false
	}
	return sm.Names[mapping.OriginalName], true
}

// HasSourceContent reports whether the original text of a source is embedded.
func (sm *SourceMap) HasSourceContent(sourceIndex int32) bool {
	if sourceIndex < 0 || int(sourceIndex) >= len(sm.SourcesContent) {
		return false
	}
	content := sm.SourcesContent[sourceIndex]
	return content.Value != nil || content.Quoted != ""
}

// OriginalFunctionName resolves a function name reported by the runtime for
// generated code back to the name it had in the source.
func (sm *SourceMap) OriginalFunctionName(generatedName string) (string, bool) {
	name, ok := sm.GeneratedNames[generatedName]
	return name, ok
}

var base64 = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/")

// A single base 64 digit can contain 6 bits of data. For the base 64 variable
// length quantities we use in the source map spec, the first bit is the sign,
// the next four bits are the actual value, and the 6th bit is the continuation
// bit. The continuation bit tells us whether there are more digits in this
// value following this digit.
//
//	Continuation
//	|    Sign
//	|    |
//	V    V
//	101011
func encodeVLQ(encoded []byte, value int) []byte {
	var vlq int
	if value < 0 {
		vlq = ((-value) << 1) | 1
	} else {
		vlq = value << 1
	}

	// Handle the common case
	if (vlq >> 5) == 0 {
		digit := vlq & 31
		encoded = append(encoded, base64[digit])
		return encoded
	}

	for {
		digit := vlq & 31
		vlq >>= 5

		// If there are still more digits in this value, we must make sure the
		// continuation bit is marked
		if vlq != 0 {
			digit |= 32
		}

		encoded = append(encoded, base64[digit])

		if vlq == 0 {
			break
		}
	}

	return encoded
}

func DecodeVLQ(encoded []byte, start int) (int, int) {
	shift := 0
	vlq := 0

	// Scan over the input
	for start < len(encoded) {
		index := bytes.IndexByte(base64, encoded[start])
		if index < 0 {
			break
		}

		// Decode a single byte
		vlq |= (index & 31) << shift
		start++
		shift += 5

		// Stop if there's no continuation bit
		if (index & 32) == 0 {
			break
		}
	}

	// Recover the value
	value := vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, start
}

func DecodeVLQUTF16(encoded []uint16) (int32, int, bool) {
	n := len(encoded)
	if n == 0 {
		return 0, 0, false
	}

	// Scan over the input
	current := 0
	shift := 0
	var vlq int32
	for {
		if current >= n {
			return 0, 0, false
		}
		index := int32(bytes.IndexByte(base64, byte(encoded[current])))
		if index < 0 || encoded[current] > 0x7F {
			return 0, 0, false
		}

		// Decode a single byte
		vlq |= (index & 31) << shift
		current++
		shift += 5

		// Stop if there's no continuation bit
		if (index & 32) == 0 {
			break
		}
	}

	// Recover the value
	var value = vlq >> 1
	if (vlq & 1) != 0 {
		value = -value
	}
	return value, current, true
}

type LineOffsetTable struct {
	// The source map specification is very loose and does not specify what
	// column numbers actually mean. The popular "source-map" library from Mozilla
	// appears to interpret them as counts of UTF-16 code units, so we generate
	// those too for compatibility.
	//
	// Most JavaScript is ASCII and the mapping for ASCII is 1:1, so ASCII-only
	// lines don't get a table.
	columnsForNonASCII        []int32
	byteOffsetToFirstNonASCII int32

	byteOffsetToStartOfLine int32
}

func GenerateLineOffsetTables(contents string) []LineOffsetTable {
	var columnsForNonASCII []int32
	byteOffsetToFirstNonASCII := int32(0)
	lineByteOffset := 0
	columnByteOffset := 0
	column := int32(0)

	lineOffsetTables := make([]LineOffsetTable, 0, strings.Count(contents, "\n")+1)

	for i, c := range contents {
		// Mark the start of the next line
		if column == 0 {
			lineByteOffset = i
		}

		// Start the mapping if this character is non-ASCII
		if c > 0x7F && columnsForNonASCII == nil {
			columnByteOffset = i - lineByteOffset
			byteOffsetToFirstNonASCII = int32(columnByteOffset)
			columnsForNonASCII = []int32{}
		}

		// Update the per-byte column offsets
		if columnsForNonASCII != nil {
			for lineBytesSoFar := i - lineByteOffset; columnByteOffset <= lineBytesSoFar; columnByteOffset++ {
				columnsForNonASCII = append(columnsForNonASCII, column)
			}
		}

		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			// Handle Windows-specific "\r\n" newlines
			if c == '\r' && i+1 < len(contents) && contents[i+1] == '\n' {
				column++
				continue
			}

			lineOffsetTables = append(lineOffsetTables, LineOffsetTable{
				byteOffsetToStartOfLine:   int32(lineByteOffset),
				byteOffsetToFirstNonASCII: byteOffsetToFirstNonASCII,
				columnsForNonASCII:        columnsForNonASCII,
			})
			columnByteOffset = 0
			byteOffsetToFirstNonASCII = 0
			columnsForNonASCII = nil
			column = 0

		default:
			// Mozilla's "source-map" library counts columns using UTF-16 code units
			if c <= 0xFFFF {
				column++
			} else {
				column += 2
			}
		}
	}

	// Mark the start of the next line
	if column == 0 {
		lineByteOffset = len(contents)
	}

	// Do one last update for the column at the end of the file
	if columnsForNonASCII != nil {
		for lineBytesSoFar := len(contents) - lineByteOffset; columnByteOffset <= lineBytesSoFar; columnByteOffset++ {
			columnsForNonASCII = append(columnsForNonASCII, column)
		}
	}

	lineOffsetTables = append(lineOffsetTables, LineOffsetTable{
		byteOffsetToStartOfLine:   int32(lineByteOffset),
		byteOffsetToFirstNonASCII: byteOffsetToFirstNonASCII,
		columnsForNonASCII:        columnsForNonASCII,
	})
	return lineOffsetTables
}

// Converts a byte offset into a 0-based line and UTF-16 column
func lineAndColumn(lineOffsetTables []LineOffsetTable, loc logger.Loc) (int32, int32) {
	// Binary search to find the line
	count := len(lineOffsetTables)
	originalLine := 0
	for count > 0 {
		step := count / 2
		i := originalLine + step
		if lineOffsetTables[i].byteOffsetToStartOfLine <= loc.Start {
			originalLine = i + 1
			count = count - step - 1
		} else {
			count = step
		}
	}
	originalLine--

	// Use the line to compute the column
	line := &lineOffsetTables[originalLine]
	originalColumn := int(loc.Start - line.byteOffsetToStartOfLine)
	if line.columnsForNonASCII != nil && originalColumn >= int(line.byteOffsetToFirstNonASCII) {
		index := originalColumn - int(line.byteOffsetToFirstNonASCII)
		if index < len(line.columnsForNonASCII) {
			originalColumn = int(line.columnsForNonASCII[index])
		}
	}
	return int32(originalLine), int32(originalColumn)
}

// A chunk holds the mappings recorded while printing one compilation unit.
// Positions have already been resolved through the input source map, if any.
type Chunk struct {
	Mappings       []Mapping
	Names          []string
	GeneratedNames map[string]string
}

type ChunkBuilder struct {
	inputSourceMap      *SourceMap
	mappings            []Mapping
	names               []string
	namesMap            map[string]int32
	generatedNames      map[string]string
	lineOffsetTables    []LineOffsetTable
	prevOriginalName    string
	prevOriginalLoc     logger.Loc
	prevGeneratedLen    int
	lastGeneratedUpdate int
	generatedLine       int32
	generatedColumn     int32
}

func MakeChunkBuilder(inputSourceMap *SourceMap, lineOffsetTables []LineOffsetTable) ChunkBuilder {
	return ChunkBuilder{
		inputSourceMap:   inputSourceMap,
		prevOriginalLoc:  logger.Loc{Start: -1},
		lineOffsetTables: lineOffsetTables,
		namesMap:         make(map[string]int32),
		generatedNames:   make(map[string]string),
	}
}

// AddSourceMapping records that the end of "output" corresponds to
// "originalLoc" in the unit being printed. "generatedName" is the name the
// printer is about to write at that position, and "originalName" is the name
// it had in the source (empty for synthesized names).
func (b *ChunkBuilder) AddSourceMapping(originalLoc logger.Loc, originalName string, generatedName string, output []byte) {
	if generatedName != "" {
		if _, ok := b.generatedNames[generatedName]; !ok {
			b.generatedNames[generatedName] = originalName
		}
	}

	// Avoid generating duplicate mappings
	if originalLoc == b.prevOriginalLoc && (b.prevGeneratedLen == len(output) || b.prevOriginalName == originalName) {
		return
	}

	b.prevOriginalLoc = originalLoc
	b.prevGeneratedLen = len(output)
	b.prevOriginalName = originalName

	originalLine, originalColumn := lineAndColumn(b.lineOffsetTables, originalLoc)
	b.updateGeneratedLineAndColumn(output)

	mapping := Mapping{
		GeneratedLine:   b.generatedLine,
		GeneratedColumn: b.generatedColumn,
		OriginalLine:    originalLine,
		OriginalColumn:  originalColumn,
		OriginalName:    NoName,
	}

	// If the input file had a source map, map all the way back to the original
	if b.inputSourceMap != nil {
		found := b.inputSourceMap.Find(originalLine, originalColumn)

		// Some locations won't have a mapping
		if found == nil {
			return
		}

		mapping.SourceIndex = found.SourceIndex
		mapping.OriginalLine = found.OriginalLine
		mapping.OriginalColumn = found.OriginalColumn

		// Map all the way back to the original name if present. Otherwise, keep
		// the name from the intermediate source code.
		if name, ok := b.inputSourceMap.NameOf(found); ok {
			originalName = name
			if generatedName != "" {
				b.generatedNames[generatedName] = name
			}
		}
	}

	// Optionally reference the original name
	if originalName != "" {
		i, ok := b.namesMap[originalName]
		if !ok {
			i = int32(len(b.names))
			b.names = append(b.names, originalName)
			b.namesMap[originalName] = i
		}
		mapping.OriginalName = i
	}

	b.mappings = append(b.mappings, mapping)
}

func (b *ChunkBuilder) GenerateChunk(output []byte) Chunk {
	b.updateGeneratedLineAndColumn(output)
	return Chunk{
		Mappings:       b.mappings,
		Names:          b.names,
		GeneratedNames: b.generatedNames,
	}
}

// Scan over the printed text since the last source mapping and update the
// generated line and column numbers
func (b *ChunkBuilder) updateGeneratedLineAndColumn(output []byte) {
	for i, c := range string(output[b.lastGeneratedUpdate:]) {
		switch c {
		case '\r', '\n', '\u2028', '\u2029':
			// Handle Windows-specific "\r\n" newlines
			if c == '\r' {
				newlineCheck := b.lastGeneratedUpdate + i + 1
				if newlineCheck < len(output) && output[newlineCheck] == '\n' {
					continue
				}
			}

			b.generatedLine++
			b.generatedColumn = 0

		default:
			// Mozilla's "source-map" library counts columns using UTF-16 code units
			if c <= 0xFFFF {
				b.generatedColumn++
			} else {
				b.generatedColumn += 2
			}
		}
	}

	b.lastGeneratedUpdate = len(output)
}

// Compose turns the mappings of a printed unit into the final source map.
// Without an input source map the unit itself is the only source and its
// contents are embedded. Otherwise the sources of the input map are kept.
func Compose(chunk Chunk, source logger.Source, input *SourceMap) *SourceMap {
	sm := &SourceMap{
		Mappings:       chunk.Mappings,
		Names:          chunk.Names,
		GeneratedNames: chunk.GeneratedNames,
	}

	if input != nil {
		sm.Sources = input.Sources
		sm.SourcesContent = input.SourcesContent
	} else {
		sm.Sources = []string{source.PrettyPath}
		sm.SourcesContent = []SourceContent{{Value: helpers.StringToUTF16(source.Contents)}}
	}

	return sm
}

// Encode serializes the source map as version 3 JSON.
func (sm *SourceMap) Encode() []byte {
	j := helpers.Joiner{}
	j.AddString("{\"version\":3,\"sources\":[")
	for i, source := range sm.Sources {
		if i > 0 {
			j.AddString(",")
		}
		j.AddBytes(helpers.QuoteForJSON(source))
	}

	j.AddString("],\"sourcesContent\":[")
	for i, content := range sm.SourcesContent {
		if i > 0 {
			j.AddString(",")
		}
		switch {
		case content.Quoted != "":
			j.AddString(content.Quoted)
		case content.Value != nil:
			j.AddBytes(helpers.QuoteForJSON(helpers.UTF16ToString(content.Value)))
		default:
			j.AddString("null")
		}
	}

	j.AddString("],\"names\":[")
	for i, name := range sm.Names {
		if i > 0 {
			j.AddString(",")
		}
		j.AddBytes(helpers.QuoteForJSON(name))
	}

	j.AddString("],\"mappings\":\"")
	j.AddBytes(sm.encodeMappings())
	j.AddString("\"}")
	return j.Done()
}

// Coordinates in source maps are stored using relative offsets for size
// reasons. Every field is relative to the previous mapping except the
// generated column, which resets on each new line.
func (sm *SourceMap) encodeMappings() []byte {
	var buffer []byte
	var prev Mapping
	prevName := int32(0)
	line := int32(0)
	needComma := false

	for _, mapping := range sm.Mappings {
		for line < mapping.GeneratedLine {
			buffer = append(buffer, ';')
			line++
			prev.GeneratedColumn = 0
			needComma = false
		}

		if needComma {
			buffer = append(buffer, ',')
		}
		needComma = true

		buffer = encodeVLQ(buffer, int(mapping.GeneratedColumn-prev.GeneratedColumn))
		buffer = encodeVLQ(buffer, int(mapping.SourceIndex-prev.SourceIndex))
		buffer = encodeVLQ(buffer, int(mapping.OriginalLine-prev.OriginalLine))
		buffer = encodeVLQ(buffer, int(mapping.OriginalColumn-prev.OriginalColumn))

		// Record the optional original name
		if mapping.OriginalName != NoName {
			buffer = encodeVLQ(buffer, int(mapping.OriginalName-prevName))
			prevName = mapping.OriginalName
		}

		prev = mapping
	}

	return buffer
}
