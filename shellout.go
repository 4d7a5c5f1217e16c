// Package shellout runs commands through /bin/bash and returns their output.
//
// Every call is synchronous: the child's standard output and standard error
// are captured in full, optionally mirrored to caller-supplied writers as
// they are produced, and the output is returned with one trailing newline
// removed. A non-zero exit status is returned as *Error.
//
//	out, err := shellout.Run("git", []string{"rev-parse", "HEAD"}, shellout.WithWorkDir(repo))
//	out, err := shellout.RunLine(`echo "Hello world"`)
//	out, err := shellout.RunSequence(shellout.Lines("cd build", "make"))
//
// Arguments are joined with single spaces and are not escaped. Quote
// anything the interpreter should treat as a single word.
package shellout

import (
	"io"

	"github.com/satococoa/shellout/internal/command"
)

// Command is a command name with arguments, or a raw command line when Args is empty.
type Command = command.Command

// Error describes a command that exited with a non-zero status.
type Error = command.ShellError

// Option configures a single run.
type Option = command.Option

var defaultExecutor = command.NewRealExecutor()

// Run executes name with args joined verbatim.
func Run(name string, args []string, opts ...Option) (string, error) {
	return defaultExecutor.Execute([]Command{{Name: name, Args: args}}, opts...)
}

// RunLine executes a raw command line; quoting and splitting are left to the interpreter.
func RunLine(line string, opts ...Option) (string, error) {
	return defaultExecutor.Execute([]Command{command.Line(line)}, opts...)
}

// RunSequence executes commands in order, stopping at the first that fails.
func RunSequence(commands []Command, opts ...Option) (string, error) {
	return defaultExecutor.Execute(commands, opts...)
}

// Line creates a Command from a raw command line.
func Line(line string) Command {
	return command.Line(line)
}

// Lines creates one Command per raw command line.
func Lines(lines ...string) []Command {
	return command.Lines(lines...)
}

// WithWorkDir runs every command in the invocation starting from dir.
func WithWorkDir(dir string) Option {
	return command.WithWorkDir(dir)
}

// WithStdout mirrors standard output to w while it is captured.
func WithStdout(w io.Writer) Option {
	return command.WithStdout(w)
}

// WithStderr mirrors standard error to w while it is captured.
func WithStderr(w io.Writer) Option {
	return command.WithStderr(w)
}
