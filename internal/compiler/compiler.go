// Package compiler drives one compilation unit from source text to compiled
// text: parsing, the transform pipeline, printing and source map
// publication.
package compiler

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jymfony/scriba/internal/config"
	"github.com/jymfony/scriba/internal/fs"
	"github.com/jymfony/scriba/internal/helpers"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/js_printer"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/logging"
	"github.com/jymfony/scriba/internal/reflection"
	"github.com/jymfony/scriba/internal/sourcemap"
	"github.com/jymfony/scriba/internal/stack"
	"github.com/jymfony/scriba/internal/transform"
)

var ErrUnitConsumed = errors.New("compilation unit was already compiled")

const noFilename = "<no filename provided>"

type SyntaxError struct {
	Message  string
	Line     int // 1-based
	Column   int // 1-based, in characters
	Filename string
}

func (e *SyntaxError) Error() string {
	filename := e.Filename
	if filename == "" {
		filename = noFilename
	}
	return fmt.Sprintf("SyntaxError: %s on line %d, column %d while parsing %s", e.Message, e.Line, e.Column, filename)
}

func syntaxErrorFrom(msg logger.Msg, filename string) *SyntaxError {
	err := &SyntaxError{Message: msg.Text, Filename: filename}
	if loc := msg.Location; loc != nil {
		err.Line = loc.Line
		column := loc.Column
		if column > len(loc.LineText) {
			column = len(loc.LineText)
		}
		err.Column = utf8.RuneCountInString(loc.LineText[:column]) + 1
	}
	return err
}

// Env holds the process-wide services a compilation writes to.
type Env struct {
	Reflection *reflection.Store
	SourceMaps *stack.Registry

	// Random class ids and names are used when these are nil. A nil
	// reflection store or registry drops what would be recorded there.
	IDs   reflection.IDGenerator
	Names transform.NameSource
}

// Unit is one parsed source file. It can be compiled once.
type Unit struct {
	Tree           js_ast.AST
	InputSourceMap *sourcemap.SourceMap

	// Empty for anonymous units, which publish no source map
	Filename     string
	IsTypeScript bool

	consumed bool
}

// Parse reads the unit and the source map it points to, if any. The file
// system is only used to find sidecar source maps and may be nil.
func Parse(fsys fs.FS, contents string, filename string) (*Unit, error) {
	log := logging.For("compiler")
	isTypeScript := config.LoaderForFilename(filename) == config.LoaderTS

	diagnostics := logger.NewDeferLog()
	source := logger.Source{PrettyPath: filename, Contents: contents}
	tree, ok := js_parser.Parse(diagnostics, source, js_parser.Options{TS: isTypeScript})

	msgs := diagnostics.Done()
	for _, msg := range msgs {
		if msg.Kind == logger.Error {
			return nil, syntaxErrorFrom(msg, filename)
		}
		log.Warn().Str("file", filename).Msg(msg.Text)
	}
	if !ok {
		return nil, &SyntaxError{Message: "Unexpected end of file", Filename: filename}
	}

	unit := &Unit{Tree: tree, Filename: filename, IsTypeScript: isTypeScript}

	if mapSource, found := sourcemap.Discover(fsys, contents, filename); found {
		mapLog := logger.NewDeferLog()
		unit.InputSourceMap = js_parser.ParseSourceMap(mapLog, mapSource)
		for _, msg := range mapLog.Done() {
			log.Debug().Str("file", filename).Str("map", mapSource.PrettyPath).Msg(msg.Text)
		}
	}

	return unit, nil
}

// Passes returns the pipeline for a unit, in the order the passes depend on
// each other.
func Passes(env Env, filename string, temps *transform.TempNames, options config.CompileOptions) []transform.Pass {
	ids := env.IDs
	if ids == nil {
		ids = reflection.RandomIDs{}
	}
	names := env.Names
	if names == nil {
		names = transform.RandomNames()
	}
	store := env.Reflection
	if store == nil {
		store = reflection.NewStore()
	}

	passes := []transform.Pass{
		transform.NameAnonymous(names),
		transform.AnnotateReflection(store, ids, filename, options.Namespace),
		transform.LowerOptionalImports(temps),
		transform.ResolveSelf(),
		transform.InjectBaseClass(),
		transform.LowerDecorators(temps),
		transform.HoistFields(temps),
	}

	format, _ := options.OutputFormat()
	if !format.KeepES6ImportExportSyntax() {
		passes = append(passes, transform.LowerCommonJS(temps))
	}
	if !options.Debug {
		passes = append(passes, transform.StripAsserts())
	}
	if options.LazyConstruct {
		passes = append(passes, transform.LazyConstruct())
	}
	if format == config.FormatFunction {
		passes = append(passes, transform.WrapInFunction())
	}
	return passes
}

// Compile runs the pipeline and prints the result. When the unit has a
// filename, its composed source map is published and inlined at the end of
// the output.
func (u *Unit) Compile(env Env, options config.CompileOptions) (string, error) {
	if u.consumed {
		return "", ErrUnitConsumed
	}
	u.consumed = true

	log := logging.For("compiler")
	if _, ok := options.OutputFormat(); !ok {
		log.Warn().Str("file", u.Filename).Msg("asFunction has no effect together with asModule")
	}

	source := u.Tree.Source
	temps := transform.NewTempNames(source.Contents)
	tree := transform.Run(u.Tree, Passes(env, u.Filename, temps, options)...)
	u.Tree = js_ast.AST{}

	result := js_printer.Print(tree, js_printer.Options{
		InputSourceMap:    u.InputSourceMap,
		LineOffsetTables:  sourcemap.GenerateLineOffsetTables(source.Contents),
		IsSynthesizedName: temps.IsSynthesized,
		AddSourceMappings: u.Filename != "",
	})

	if u.Filename == "" {
		return string(result.JS), nil
	}

	sm := sourcemap.Compose(result.SourceMapChunk, source, u.InputSourceMap)
	if env.SourceMaps != nil {
		env.SourceMaps.Register(u.Filename, sm)
	}

	log.Debug().
		Str("file", u.Filename).
		Int("mappings", len(sm.Mappings)).
		Bool("input_map", u.InputSourceMap != nil).
		Msg("compiled")

	return string(result.JS) + "\n\n//# sourceMappingURL=" +
		helpers.EncodeBase64DataURL("application/json;charset=utf-8", sm.Encode()), nil
}
