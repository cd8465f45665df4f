package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jymfony/scriba/internal/exitcode"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

func runForTest(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := &app{
		stdin:           strings.NewReader(stdin),
		stdout:          &stdout,
		stderr:          &stderr,
		stdinIsTerminal: func() bool { return false },
	}
	code := a.run(context.Background(), append([]string{"scriba"}, args...))
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir string, name string, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestCompileStdin(t *testing.T) {
	result := runForTest(t, "export const a = 1;\n", "compile", "--as-module")
	assert.Equal(t, 0, result.code)
	assert.Equal(t, "export const a = 1;\n", result.stdout)

	result = runForTest(t, "a()", "compile", "--sourcefile", "in.js")
	assert.Equal(t, 0, result.code)
	assert.Contains(t, result.stdout, "//# sourceMappingURL=data:application/json;charset=utf-8;base64,")
}

func TestCompileStdinTerminal(t *testing.T) {
	var stderr bytes.Buffer
	a := &app{
		stdin:           strings.NewReader(""),
		stdout:          &bytes.Buffer{},
		stderr:          &stderr,
		stdinIsTerminal: func() bool { return true },
	}
	assert.Equal(t, exitcode.Usage, a.run(context.Background(), []string{"scriba", "compile"}))
	assert.Contains(t, stderr.String(), errNoInput.Error())
}

func TestCompileSyntaxError(t *testing.T) {
	result := runForTest(t, "class {", "compile", "--sourcefile", "broken.js")
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "broken.js")
	assert.Contains(t, result.stderr, "SyntaxError: ")
}

func TestCompileFilesToOutdir(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.js", "export const a = 1;\n")
	b := writeFile(t, dir, "b.ts", "export let b: number = 2;\n")
	outdir := filepath.Join(dir, "out")

	result := runForTest(t, "", "compile", "-o", outdir, a, b)
	require.Equal(t, 0, result.code, result.stderr)

	output, err := os.ReadFile(filepath.Join(outdir, "a.js"))
	require.NoError(t, err)
	assert.Contains(t, string(output), "const a = 1;")

	output, err = os.ReadFile(filepath.Join(outdir, "b.js"))
	require.NoError(t, err)
	assert.Contains(t, string(output), "let b = 2;")

	result = runForTest(t, "", "compile", a, b)
	assert.Equal(t, exitcode.Usage, result.code)
	assert.Contains(t, result.stderr, "--outdir is required")
}

func TestCompileReportsEveryFailure(t *testing.T) {
	dir := t.TempDir()
	bad1 := writeFile(t, dir, "bad1.js", "class {")
	bad2 := writeFile(t, dir, "bad2.js", "let = ;")

	result := runForTest(t, "", "compile", "-o", filepath.Join(dir, "out"), bad1, bad2)
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "bad1.js")
	assert.Contains(t, result.stderr, "bad2.js")
}

func TestReflect(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "/** Doc */\nclass A { m(x = 1) {} }\n")

	result := runForTest(t, "", "reflect", "--deterministic", "-n", "App", path)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Contains(t, result.stdout, `"00000000-0000-0000-0000-000000000000": {`)
	assert.Contains(t, result.stdout, `"fqcn": "App.A"`)
	assert.Contains(t, result.stdout, `"docblock": "/** Doc */"`)
	assert.Contains(t, result.stdout, `"default": "1"`)

	result = runForTest(t, "", "reflect", "--deterministic", "--id", "00000000-0000-0000-0000-000000000001", path)
	assert.Equal(t, 1, result.code)
	assert.Contains(t, result.stderr, "unknown class id")
}

func TestRemap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.js", "function foo() {\n  throw new Error();\n}\n")

	trace := "Error: boom\n    at foo (" + path + ":3:3)\n    at other.js:1:1\n"
	result := runForTest(t, trace, "remap", path)
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "Error: boom\n\n    at foo ("+path+":2:3)\n    at other.js:1:1\n", result.stdout)

	result = runForTest(t, "Error: boom\n    at other.js:1:1", "remap")
	require.Equal(t, 0, result.code, result.stderr)
	assert.Equal(t, "Error: boom\n    at other.js:1:1\n", result.stdout)
}

func TestArgs(t *testing.T) {
	result := runForTest(t, "", "args", "function (a, { b }, ...c) {}")
	assert.Equal(t, 0, result.code)
	assert.Equal(t, "a\n{ b }\n...c\n", result.stdout)

	result = runForTest(t, "", "args", "1 + 2")
	assert.Equal(t, exitcode.Failure, result.code)

	result = runForTest(t, "", "args")
	assert.Equal(t, exitcode.Usage, result.code)
}

func TestIdent(t *testing.T) {
	result := runForTest(t, "", "ident", "foo", "$bar")
	assert.Equal(t, 0, result.code)
	assert.Equal(t, "foo: valid\n$bar: valid\n", result.stdout)

	result = runForTest(t, "", "ident", "foo", "class", "1a")
	assert.Equal(t, 1, result.code)
	assert.Equal(t, "foo: valid\nclass: invalid\n1a: invalid\n", result.stdout)
	assert.Empty(t, result.stderr)
}
