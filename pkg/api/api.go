package api

import (
	"github.com/jymfony/scriba/internal/compiler"
	"github.com/jymfony/scriba/internal/stack"
)

type CompileOptions struct {
	// Keep "__assert(...)" calls
	Debug bool

	// Prefix of the fully-qualified class names reported by reflection
	Namespace string

	// Wrap the CommonJS output in a function taking the module environment
	AsFunction bool

	// Keep ES module syntax instead of lowering to CommonJS. Wins over
	// AsFunction.
	AsModule bool

	// Replace "new C(...)" with calls to "_construct_jobject"
	LazyConstruct bool
}

// SyntaxError is returned by Compile when the source cannot be parsed.
type SyntaxError = compiler.SyntaxError

type Frame = stack.Frame

// StackFormatter builds the text of "error.stack" from the message and the
// captured frames.
type StackFormatter = stack.Formatter

////////////////////////////////////////////////////////////////////////////////
// Reflection API

type ReflectionData struct {
	FQCN      string       `json:"fqcn"`
	ClassName string       `json:"className"`
	Namespace string       `json:"namespace,omitempty"`
	Filename  string       `json:"filename,omitempty"`
	Docblock  string       `json:"docblock,omitempty"`
	Members   []MemberData `json:"members"`
}

type MemberData struct {
	Kind     string      `json:"kind"`
	Name     string      `json:"name,omitempty"`
	Computed bool        `json:"computed,omitempty"`
	Static   bool        `json:"static"`
	Private  bool        `json:"private"`
	Index    int         `json:"index"`
	Docblock string      `json:"docblock,omitempty"`
	Params   []ParamData `json:"params,omitempty"`
}

type ParamData struct {
	Name            string `json:"name,omitempty"`
	Index           int    `json:"index"`
	HasDefault      bool   `json:"hasDefault"`
	Default         string `json:"default,omitempty"`
	IsObjectPattern bool   `json:"isObjectPattern"`
	IsArrayPattern  bool   `json:"isArrayPattern"`
	IsRestElement   bool   `json:"isRestElement"`
}

////////////////////////////////////////////////////////////////////////////////
// Process-wide entry points

var defaultServices = NewServices(ServicesOptions{})

// Default returns the services used by the package-level functions.
func Default() *Services {
	return defaultServices
}

func Compile(source string, filename string, options CompileOptions) (string, error) {
	return defaultServices.Compile(source, filename, options)
}

func CompileFiles(paths []string, options CompileOptions, workers int) (map[string]string, error) {
	return defaultServices.CompileFiles(paths, options, workers)
}

func GetReflectionData(id string) (*ReflectionData, bool) {
	return defaultServices.GetReflectionData(id)
}

func Remap(message string, frames []Frame, previous *string) string {
	return defaultServices.Remap(message, frames, previous)
}

func RemapText(text string) string {
	return defaultServices.RemapText(text)
}

func InstallStackHook(previous StackFormatter) StackFormatter {
	return defaultServices.InstallStackHook(previous)
}
