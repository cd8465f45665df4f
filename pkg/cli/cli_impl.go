package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/jymfony/scriba/internal/exitcode"
	"github.com/jymfony/scriba/pkg/api"
)

var Version = "0.1.0"

var errNoInput = exitcode.UsageError("no input: pass files or pipe code on stdin")

func compileOptions(cmd *cli.Command) api.CompileOptions {
	return api.CompileOptions{
		Debug:         cmd.Bool("debug"),
		Namespace:     cmd.String("namespace"),
		AsFunction:    cmd.Bool("as-function"),
		AsModule:      cmd.Bool("as-module"),
		LazyConstruct: cmd.Bool("lazy-construct"),
	}
}

func (a *app) servicesFor(cmd *cli.Command) *api.Services {
	if a.services == nil {
		a.services = api.NewServices(api.ServicesOptions{Deterministic: cmd.Bool("deterministic")})
	}
	return a.services
}

func (a *app) readStdin() (string, error) {
	if a.stdinIsTerminal != nil && a.stdinIsTerminal() {
		return "", errNoInput
	}
	bytes, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("could not read from stdin: %w", err)
	}
	return string(bytes), nil
}

// Reports every error of a batch on its own and keeps the exit status
func (a *app) reportBatch(err error) error {
	if err == nil {
		return nil
	}
	var errs *multierror.Error
	if !errors.As(err, &errs) {
		return err
	}
	for _, err := range errs.Errors {
		a.printError(err)
	}
	return errReported
}

func (a *app) compileFiles(cmd *cli.Command, jobs int) (map[string]string, error) {
	paths := cmd.Args().Slice()
	return a.servicesFor(cmd).CompileFiles(paths, compileOptions(cmd), jobs)
}

func outputPath(outdir string, path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".ts") {
		base = strings.TrimSuffix(base, ".ts") + ".js"
	}
	return filepath.Join(outdir, base)
}

func (a *app) compileAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		source, err := a.readStdin()
		if err != nil {
			return err
		}
		output, err := a.servicesFor(cmd).Compile(source, cmd.String("sourcefile"), compileOptions(cmd))
		if err != nil {
			return err
		}
		_, err = io.WriteString(a.stdout, output)
		return err
	}

	paths := cmd.Args().Slice()
	outdir := cmd.String("outdir")
	if outdir == "" && len(paths) > 1 {
		return exitcode.UsageError("--outdir is required to compile more than one file")
	}

	results, batchErr := a.compileFiles(cmd, int(cmd.Int("jobs")))

	if outdir == "" {
		if output, ok := results[paths[0]]; ok {
			if _, err := io.WriteString(a.stdout, output); err != nil {
				return err
			}
		}
		return a.reportBatch(batchErr)
	}

	if err := os.MkdirAll(outdir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, path := range paths {
		output, ok := results[path]
		if !ok {
			continue
		}
		if err := os.WriteFile(outputPath(outdir, path), []byte(output), 0644); err != nil {
			batchErr = multierror.Append(batchErr, fmt.Errorf("failed to write output file: %w", err))
		}
	}
	return a.reportBatch(batchErr)
}

func (a *app) reflectAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return exitcode.UsageError("usage: scriba reflect [--id <id>...] <file...>")
	}

	_, batchErr := a.compileFiles(cmd, 1)
	if err := a.reportBatch(batchErr); err != nil {
		return err
	}

	s := a.servicesFor(cmd)
	ids := cmd.StringSlice("id")
	if len(ids) == 0 {
		ids = s.ReflectionIDs()
	}

	classes := make(map[string]*api.ReflectionData, len(ids))
	for _, id := range ids {
		data, ok := s.GetReflectionData(id)
		if !ok {
			return fmt.Errorf("unknown class id %q", id)
		}
		classes[id] = data
	}

	text, err := json.MarshalIndent(classes, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "%s\n", text)
	return err
}

func (a *app) remapAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() > 0 {
		_, batchErr := a.compileFiles(cmd, 1)
		if err := a.reportBatch(batchErr); err != nil {
			return err
		}
	}

	trace, err := a.readStdin()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout, a.servicesFor(cmd).RemapText(strings.TrimRight(trace, "\n")))
	return err
}

func (a *app) argsAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return exitcode.UsageError("usage: scriba args <function>")
	}
	names, err := api.GetArgumentNames(strings.Join(cmd.Args().Slice(), " "))
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintln(a.stdout, name); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) identAction(ctx context.Context, cmd *cli.Command) error {
	valid := color.New(color.FgGreen)
	invalid := color.New(color.FgRed)

	useColor := false
	if f, ok := a.stdout.(*os.File); ok {
		_, noColor := os.LookupEnv("NO_COLOR")
		useColor = !noColor && term.IsTerminal(int(f.Fd()))
	}
	for _, c := range []*color.Color{valid, invalid} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	allValid := true
	for _, text := range cmd.Args().Slice() {
		if api.IsValidIdentifier(text) {
			fmt.Fprintf(a.stdout, "%s: %s\n", text, valid.Sprint("valid"))
		} else {
			allValid = false
			fmt.Fprintf(a.stdout, "%s: %s\n", text, invalid.Sprint("invalid"))
		}
	}

	if !allValid {
		return errReported
	}
	return nil
}
