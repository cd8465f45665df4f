package api

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/jymfony/scriba/internal/compiler"
	"github.com/jymfony/scriba/internal/fs"
	"github.com/jymfony/scriba/internal/logging"
	"github.com/jymfony/scriba/internal/reflection"
	"github.com/jymfony/scriba/internal/stack"
	"github.com/jymfony/scriba/internal/transform"
)

type ServicesOptions struct {
	// Sequential class ids and numbered anonymous names instead of random
	// ones, so that output is reproducible
	Deterministic bool
}

// Services owns the reflection store and the source map registry filled by
// compilations. A host keeps one for the lifetime of its process.
type Services struct {
	reflection    *reflection.Store
	sourceMaps    *stack.Registry
	ids           reflection.IDGenerator
	deterministic bool
	fs            fs.FS
}

func NewServices(options ServicesOptions) *Services {
	s := &Services{
		reflection:    reflection.NewStore(),
		sourceMaps:    stack.NewRegistry(),
		ids:           reflection.RandomIDs{},
		deterministic: options.Deterministic,
		fs:            fs.RealFS(),
	}
	if options.Deterministic {
		s.ids = &reflection.SequentialIDs{}
	}
	return s
}

func (s *Services) env() compiler.Env {
	env := compiler.Env{
		Reflection: s.reflection,
		SourceMaps: s.sourceMaps,
		IDs:        s.ids,
	}
	if s.deterministic {
		env.Names = &transform.CounterNames{}
	}
	return env
}

// Compile compiles one unit. Parse failures are returned as *SyntaxError.
func (s *Services) Compile(source string, filename string, options CompileOptions) (string, error) {
	unit, err := compiler.Parse(s.fs, source, filename)
	if err != nil {
		return "", err
	}
	return unit.Compile(s.env(), validateOptions(options))
}

// CompileFiles reads and compiles several files with at most "workers"
// compilations running at once. Files that fail are missing from the result
// and every failure is part of the returned error.
func (s *Services) CompileFiles(paths []string, options CompileOptions, workers int) (map[string]string, error) {
	if workers < 1 {
		workers = 1
	}

	type compileResult struct {
		output string
		err    error
	}
	compiled := make([]compileResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			output, err := s.compileFile(path, options)
			compiled[i] = compileResult{output: output, err: err}
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]string, len(paths))
	var errs *multierror.Error
	for i, path := range paths {
		if err := compiled[i].err; err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results[path] = compiled[i].output
	}

	if errs != nil {
		sort.Slice(errs.Errors, func(i, j int) bool { return errs.Errors[i].Error() < errs.Errors[j].Error() })
		log := logging.For("api")
		log.Debug().Int("failed", len(errs.Errors)).Int("total", len(paths)).Msg("batch compiled with errors")
	}
	return results, errs.ErrorOrNil()
}

func (s *Services) compileFile(path string, options CompileOptions) (string, error) {
	source, err := s.fs.ReadFile(path)
	if err != nil {
		return "", err
	}
	return s.Compile(source, path, options)
}

// GetReflectionData looks a class up by the id found in its reflection
// marker. Ids that are unknown or not UUIDs report false.
func (s *Services) GetReflectionData(id string) (*ReflectionData, bool) {
	record, ok := s.reflection.Lookup(id)
	if !ok {
		return nil, false
	}
	return reflectionData(record), true
}

// ReflectionIDs lists the ids of every class compiled so far.
func (s *Services) ReflectionIDs() []string {
	ids := s.reflection.IDs()
	result := make([]string, len(ids))
	for i, id := range ids {
		result[i] = id.String()
	}
	return result
}

func (s *Services) Remap(message string, frames []Frame, previous *string) string {
	return s.sourceMaps.Remap(message, frames, previous)
}

// RemapText remaps the text of a V8 "error.stack". Text that cannot be
// remapped is returned as is.
func (s *Services) RemapText(text string) string {
	message, frames := stack.ParseV8Stack(text)
	return s.sourceMaps.Remap(message, frames, &text)
}

// InstallStackHook returns the formatter to install in place of
// "previous", which may be nil.
func (s *Services) InstallStackHook(previous StackFormatter) StackFormatter {
	return s.sourceMaps.Hook(previous)
}

func reflectionData(record *reflection.Record) *ReflectionData {
	data := &ReflectionData{
		FQCN:      record.FQCN(),
		ClassName: record.Name,
		Namespace: record.Namespace,
		Filename:  record.Filename,
		Docblock:  record.Docblock,
		Members:   make([]MemberData, 0, len(record.Class.Members)),
	}

	for _, member := range record.Class.Members {
		m := MemberData{
			Kind:     string(member.Kind),
			Name:     member.Name,
			Computed: member.IsComputed,
			Static:   member.IsStatic,
			Private:  member.IsPrivate,
			Index:    member.Index,
			Docblock: member.Docblock,
		}
		for _, param := range member.Params {
			m.Params = append(m.Params, ParamData{
				Name:            param.Name,
				Index:           param.Index,
				HasDefault:      param.HasDefault,
				Default:         param.Default,
				IsObjectPattern: param.IsObjectPattern,
				IsArrayPattern:  param.IsArrayPattern,
				IsRestElement:   param.IsRestElement,
			})
		}
		data.Members = append(data.Members, m)
	}

	return data
}
