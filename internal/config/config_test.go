package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutputFormat(t *testing.T) {
	format, ok := CompileOptions{}.OutputFormat()
	assert.Equal(t, FormatCommonJS, format)
	assert.True(t, ok)

	format, ok = CompileOptions{AsFunction: true}.OutputFormat()
	assert.Equal(t, FormatFunction, format)
	assert.True(t, ok)

	format, ok = CompileOptions{AsModule: true}.OutputFormat()
	assert.Equal(t, FormatESModule, format)
	assert.True(t, ok)
	assert.True(t, format.KeepES6ImportExportSyntax())

	format, ok = CompileOptions{AsModule: true, AsFunction: true}.OutputFormat()
	assert.Equal(t, FormatESModule, format)
	assert.False(t, ok)
}

func TestLoaderForFilename(t *testing.T) {
	assert.Equal(t, LoaderTS, LoaderForFilename("src/a.ts"))
	assert.Equal(t, LoaderJS, LoaderForFilename("src/a.js"))
	assert.Equal(t, LoaderJS, LoaderForFilename(".ts"))
	assert.Equal(t, LoaderJS, LoaderForFilename(""))
}
