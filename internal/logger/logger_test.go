package logger_test

import (
	"bytes"
	"testing"

	"github.com/jymfony/scriba/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMsgString(t *testing.T) {
	source := logger.Source{PrettyPath: "file.js", Contents: "let x = 1;\nlet y = @;\n"}
	log := logger.NewDeferLog()
	log.AddRangeError(&source, logger.Range{Loc: logger.Loc{Start: 19}, Len: 1}, "Unexpected \"@\"")

	require.True(t, log.HasErrors())
	msgs := log.Done()
	require.Len(t, msgs, 1)

	loc := msgs[0].Location
	require.NotNil(t, loc)
	assert.Equal(t, 2, loc.Line)
	assert.Equal(t, 8, loc.Column)
	assert.Equal(t, "let y = @;", loc.LineText)

	text := msgs[0].String(logger.OutputOptions{IncludeSource: true}, logger.TerminalInfo{})
	assert.Equal(t, "file.js:2:8: error: Unexpected \"@\"\nlet y = @;\n        ^\n", text)

	text = msgs[0].String(logger.OutputOptions{}, logger.TerminalInfo{})
	assert.Equal(t, "file.js: error: Unexpected \"@\"\n", text)
}

func TestMsgWithoutLocation(t *testing.T) {
	msg := logger.Msg{Kind: logger.Warning, Text: "something odd"}
	assert.Equal(t, "warning: something odd\n", msg.String(logger.OutputOptions{}, logger.TerminalInfo{}))
}

func TestMessagesAreSorted(t *testing.T) {
	source := logger.Source{PrettyPath: "a.js", Contents: "a\nb\nc"}
	log := logger.NewDeferLog()
	log.AddError(&source, logger.Loc{Start: 4}, "third")
	log.AddWarning(&source, logger.Loc{Start: 0}, "first")
	log.AddMsg(logger.Msg{Kind: logger.Error, Text: "global"})

	msgs := log.Done()
	require.Len(t, msgs, 3)
	assert.Equal(t, "global", msgs[0].Text)
	assert.Equal(t, "first", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
}

func TestLineColumn(t *testing.T) {
	source := logger.Source{Contents: "a\r\nb😀c\nd"}

	line, column := source.LineColumn(logger.Loc{Start: 0})
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, column)

	// "c" comes after a surrogate pair, which counts as two UTF-16 code units
	line, column = source.LineColumn(logger.Loc{Start: 8})
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, column)

	line, column = source.LineColumn(logger.Loc{Start: 10})
	assert.Equal(t, 3, line)
	assert.Equal(t, 0, column)
}

func TestPrintMessages(t *testing.T) {
	var out bytes.Buffer
	errors := logger.PrintMessages(&out, []logger.Msg{
		{Kind: logger.Warning, Text: "odd"},
		{Kind: logger.Error, Text: "bad", Location: &logger.MsgLocation{File: "a.js", Line: 1}},
	}, logger.OutputOptions{})

	assert.Equal(t, 1, errors)
	assert.Equal(t, "warning: odd\na.js: error: bad\n", out.String())
}
