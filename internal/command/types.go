package command

import (
	"io"
	"log/slog"
)

// Command represents a shell command to be executed.
//
// A command with no Args is a raw command line and is handed to the
// interpreter as-is. Args are joined verbatim; nothing is quoted or escaped.
type Command struct {
	Name string   // Command name (e.g., "git") or a full command line
	Args []string // Command arguments, pre-quoted by the caller

	// Optional working directory. Only the first command of a sequence is
	// consulted: the whole chain runs in one interpreter, so later links
	// start wherever the earlier ones left it. WithWorkDir overrides it.
	WorkDir string
}

// Line creates a command from a raw command line.
func Line(line string) Command {
	return Command{Name: line}
}

// Lines creates one command per raw command line.
func Lines(lines ...string) []Command {
	commands := make([]Command, 0, len(lines))
	for _, line := range lines {
		commands = append(commands, Line(line))
	}
	return commands
}

// ExecutionResult holds what a single interpreter run produced.
// Stdout and Stderr are the raw, untrimmed bytes.
type ExecutionResult struct {
	Stdout []byte
	Stderr []byte
	Status int
}

// Options configures a single Execute call.
type Options struct {
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Option mutates Options.
type Option func(*Options)

// WithWorkDir sets the directory every command in the invocation starts in.
func WithWorkDir(dir string) Option {
	return func(o *Options) {
		o.WorkDir = dir
	}
}

// WithStdout forwards standard output bytes to w as they are produced.
func WithStdout(w io.Writer) Option {
	return func(o *Options) {
		o.Stdout = w
	}
}

// WithStderr forwards standard error bytes to w as they are produced.
func WithStderr(w io.Writer) Option {
	return func(o *Options) {
		o.Stderr = w
	}
}

// Spawner starts the command interpreter for an invocation.
type Spawner interface {
	Spawn(invocation, workDir string) (Process, error)
}

// Process is a running interpreter. Both streams must be read to EOF
// before Wait is called.
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	Wait() (int, error)
}

// Executor runs commands through the interpreter and returns the trimmed output.
// A non-zero exit status is reported as *ShellError.
type Executor interface {
	Execute(commands []Command, opts ...Option) (string, error)
}

// ExecutorOption configures an executor at construction time.
type ExecutorOption func(*executor)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
