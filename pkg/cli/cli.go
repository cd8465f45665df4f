package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/jymfony/scriba/internal/exitcode"
	"github.com/jymfony/scriba/internal/logger"
	"github.com/jymfony/scriba/internal/logging"
	"github.com/jymfony/scriba/pkg/api"
)

// Returned by commands that already reported what went wrong
var errReported = errors.New("reported")

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Commands that read from stdin refuse to wait on an interactive
	// terminal
	stdinIsTerminal func() bool

	services *api.Services
}

// Run executes the command line and returns the process exit code.
func Run(osArgs []string) int {
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		stdinIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
	return a.run(context.Background(), osArgs)
}

func (a *app) run(ctx context.Context, osArgs []string) int {
	if err := logging.ConfigureFromEnv(); err != nil {
		a.printError(err)
		return exitcode.Failure
	}

	err := a.command().Run(ctx, osArgs)
	if err != nil && !errors.Is(err, errReported) {
		a.printError(err)
	}
	return exitcode.Get(err)
}

func compileFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Keep __assert() calls",
		},
		&cli.StringFlag{
			Name:    "namespace",
			Aliases: []string{"n"},
			Usage:   "Namespace prepended to class names in reflection data",
		},
		&cli.BoolFlag{
			Name:  "as-function",
			Usage: "Wrap the output in a function taking the module environment",
		},
		&cli.BoolFlag{
			Name:  "as-module",
			Usage: "Keep ES module syntax (wins over --as-function)",
		},
		&cli.BoolFlag{
			Name:  "lazy-construct",
			Usage: "Replace new expressions with _construct_jobject() calls",
		},
		&cli.BoolFlag{
			Name:  "deterministic",
			Usage: "Sequential class ids and numbered anonymous names",
		},
		&cli.StringFlag{
			Name:  "sourcefile",
			Usage: "File name of the code read from stdin",
		},
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:                   "scriba",
		Usage:                  "Compile decorated JavaScript and TypeScript for the Jymfony runtime",
		Version:                Version,
		UseShortOptionHandling: true,
		Writer:                 a.stdout,
		ErrWriter:              a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Operational log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if text := cmd.String("log-level"); text != "" {
				level, err := logging.ParseLevel(text)
				if err != nil {
					return ctx, err
				}
				logging.SetLevel(level)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compile files, or stdin when no file is given",
				ArgsUsage: "[file...]",
				Flags: append(compileFlags(),
					&cli.StringFlag{
						Name:    "outdir",
						Aliases: []string{"o"},
						Usage:   "Write each output next to its name in this directory",
					},
					&cli.IntFlag{
						Name:    "jobs",
						Aliases: []string{"j"},
						Usage:   "Files compiled in parallel",
						Value:   4,
					},
				),
				Action: a.compileAction,
			},
			{
				Name:      "reflect",
				Usage:     "Compile files and print the reflection data of their classes as JSON",
				ArgsUsage: "<file...>",
				Flags: append(compileFlags(),
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Only print the class with this id",
					},
				),
				Action: a.reflectAction,
			},
			{
				Name:      "remap",
				Usage:     "Compile files, then remap a V8 stack trace read from stdin",
				ArgsUsage: "<file...>",
				Flags:     compileFlags(),
				Action:    a.remapAction,
			},
			{
				Name:      "args",
				Usage:     "Print the parameter names of a function expression",
				ArgsUsage: "<function>",
				Action:    a.argsAction,
			},
			{
				Name:      "ident",
				Usage:     "Check whether each argument is a valid identifier",
				ArgsUsage: "<text...>",
				Action:    a.identAction,
			},
		},
	}
}

// Syntax errors render like every other diagnostic of the compiler
func (a *app) printError(err error) {
	msg := logger.Msg{Kind: logger.Error, Text: err.Error()}

	var syntaxError *api.SyntaxError
	if errors.As(err, &syntaxError) && syntaxError.Filename != "" {
		msg.Location = &logger.MsgLocation{
			File:   syntaxError.Filename,
			Line:   syntaxError.Line,
			Column: syntaxError.Column - 1,
		}
	}

	logger.PrintMessages(a.stderr, []logger.Msg{msg}, logger.OutputOptions{})
}
