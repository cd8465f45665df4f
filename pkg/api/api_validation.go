package api

import (
	"errors"
	"fmt"

	"github.com/jymfony/scriba/internal/config"
	"github.com/jymfony/scriba/internal/js_ast"
	"github.com/jymfony/scriba/internal/js_lexer"
	"github.com/jymfony/scriba/internal/js_parser"
	"github.com/jymfony/scriba/internal/js_printer"
	"github.com/jymfony/scriba/internal/logger"
)

var ErrNotAFunction = errors.New("not a function or arrow function expression")

func validateOptions(options CompileOptions) config.CompileOptions {
	return config.CompileOptions{
		Debug:         options.Debug,
		Namespace:     options.Namespace,
		AsFunction:    options.AsFunction,
		AsModule:      options.AsModule,
		LazyConstruct: options.LazyConstruct,
	}
}

// IsValidIdentifier reports whether the text can be used as a binding name.
// Reserved words cannot.
func IsValidIdentifier(text string) bool {
	return js_lexer.IsIdentifier(text) && !js_lexer.IsReservedWord(text)
}

// GetArgumentNames lists the parameters of a function or arrow function
// expression. Destructuring patterns are listed as written and rest
// parameters keep their "...".
func GetArgumentNames(text string) ([]string, error) {
	log := logger.NewDeferLog()
	expr, ok := js_parser.ParseExpr(log, logger.Source{Contents: text}, js_parser.Options{})
	for _, msg := range log.Done() {
		if msg.Kind == logger.Error {
			return nil, fmt.Errorf("%w: %s", ErrNotAFunction, msg.Text)
		}
	}
	if !ok {
		return nil, ErrNotAFunction
	}

	var args []js_ast.Arg
	var hasRestArg bool
	switch e := expr.Data.(type) {
	case *js_ast.EFunction:
		args, hasRestArg = e.Fn.Args, e.Fn.HasRestArg
	case *js_ast.EArrow:
		args, hasRestArg = e.Args, e.HasRestArg
	default:
		return nil, ErrNotAFunction
	}

	names := make([]string, 0, len(args))
	for i, arg := range args {
		names = append(names, js_printer.PrintArg(arg, hasRestArg && i == len(args)-1))
	}
	return names, nil
}
