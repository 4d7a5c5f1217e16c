package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/errors"
	shio "github.com/satococoa/shellout/internal/io"
)

const maxExitStatus = 255

// Variable to allow mocking in tests
var newExecutor = func(logger *slog.Logger) command.Executor {
	return command.NewRealExecutor(command.WithLogger(logger))
}

func dirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"C"},
		Usage:   "Run from this directory instead of the current one",
	}
}

func streamFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "stream",
		Aliases: []string{"s"},
		Usage:   "Mirror output live instead of printing it after the command exits (default: on for terminals)",
	}
}

func outputWriters(cmd *cli.Command) (w, errW io.Writer) {
	w = cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	errW = cmd.Root().ErrWriter
	if errW == nil {
		errW = os.Stderr
	}
	return w, errW
}

func newLogger(cmd *cli.Command, errW io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if cmd.Root().Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(errW, &slog.HandlerOptions{Level: level}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// shouldStream honours an explicit --stream, otherwise falls back.
func shouldStream(cmd *cli.Command, fallback bool) bool {
	if cmd.IsSet("stream") {
		return cmd.Bool("stream")
	}
	return fallback
}

// executeAndPrint runs commands and prints the result unless it was already streamed.
func executeAndPrint(cmd *cli.Command, executor command.Executor, commands []command.Command) error {
	w, errW := outputWriters(cmd)

	var opts []command.Option
	dir := cmd.String("dir")
	if dir != "" {
		opts = append(opts, command.WithWorkDir(dir))
	}

	stream := shouldStream(cmd, isTerminal(w))
	if stream {
		stdoutSink, stderrSink := shio.NewSinks(w, errW)
		opts = append(opts, command.WithStdout(stdoutSink), command.WithStderr(stderrSink))
	}

	output, err := executor.Execute(commands, opts...)
	if err != nil {
		return describeExecutionError(err, dir, stream)
	}

	if !stream && output != "" {
		if _, writeErr := fmt.Fprintln(w, output); writeErr != nil {
			return writeErr
		}
	}

	return nil
}

func describeExecutionError(err error, dir string, streamed bool) error {
	var shellErr *command.ShellError
	if stderrors.As(err, &shellErr) {
		return errors.CommandFailed(shellErr, streamed)
	}
	if dir != "" && stderrors.Is(err, fs.ErrNotExist) {
		return errors.DirectoryAccessFailed("run in", dir, err)
	}
	return fmt.Errorf("failed to execute command: %w", err)
}

// reportError prints err and returns the process exit code.
func reportError(w io.Writer, err error) int {
	label := color.New(color.FgRed, color.Bold)
	label.Fprint(w, "Error: ")
	fmt.Fprintln(w, err)

	var shellErr *command.ShellError
	if stderrors.As(err, &shellErr) && shellErr.Status > 0 && shellErr.Status <= maxExitStatus {
		return shellErr.Status
	}
	return 1
}
