package config

type Loader uint8

const (
	LoaderJS Loader = iota
	LoaderTS
)

// LoaderForFilename picks the TypeScript loader for ".ts" files. Anonymous
// units and every other extension are parsed as JavaScript.
func LoaderForFilename(filename string) Loader {
	if len(filename) > 3 && filename[len(filename)-3:] == ".ts" {
		return LoaderTS
	}
	return LoaderJS
}

type Format uint8

const (
	// The CommonJS format looks like this:
	//
	//   "use strict";
	//   Object.defineProperty(exports, "__esModule", { value: true });
	//   ... compiled code ...
	//
	FormatCommonJS Format = iota

	// The ES module format keeps import and export statements as written.
	FormatESModule

	// CommonJS code wrapped in a function expression so that the host can
	// supply the module environment itself:
	//
	//   (function (exports, require, module, __filename, __dirname) {
	//     ... compiled code ...
	//   });
	//
	FormatFunction
)

func (f Format) KeepES6ImportExportSyntax() bool {
	return f == FormatESModule
}

func (f Format) String() string {
	switch f {
	case FormatESModule:
		return "esm"
	case FormatFunction:
		return "function"
	}
	return "cjs"
}

type CompileOptions struct {
	// When false, "__assert(...)" calls are replaced with "void 0"
	Debug bool

	// Prepended to the class name to build the fully-qualified class name
	// reported by reflection queries
	Namespace string

	// Wrap the CommonJS output in a function expression
	AsFunction bool

	// Keep ES module syntax. Wins over AsFunction.
	AsModule bool

	// Replace "new C(...)" with "_construct_jobject(C, ...)"
	LazyConstruct bool
}

// OutputFormat resolves the module format. The second result is false when
// both AsFunction and AsModule are set and AsFunction was ignored.
func (o CompileOptions) OutputFormat() (Format, bool) {
	switch {
	case o.AsModule:
		return FormatESModule, !o.AsFunction
	case o.AsFunction:
		return FormatFunction, true
	}
	return FormatCommonJS, true
}
