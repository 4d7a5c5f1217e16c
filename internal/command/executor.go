package command

import "log/slog"

// executor implements Executor interface
type executor struct {
	spawner Spawner
	logger  *slog.Logger
}

// NewExecutor creates a new command executor with the given spawner
func NewExecutor(spawner Spawner, opts ...ExecutorOption) Executor {
	e := &executor{
		spawner: spawner,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewRealExecutor creates an executor that runs commands through DefaultShell
func NewRealExecutor(opts ...ExecutorOption) Executor {
	return NewExecutor(NewShellSpawner(), opts...)
}

// Execute runs the commands as one chained invocation and blocks until it exits.
func (e *executor) Execute(commands []Command, opts ...Option) (string, error) {
	options := resolveOptions(commands, opts)
	invocation := Assemble(commands)

	e.logger.Debug("spawning invocation",
		slog.String("invocation", invocation),
		slog.String("work_dir", options.WorkDir))

	proc, err := e.spawner.Spawn(invocation, options.WorkDir)
	if err != nil {
		return "", err
	}

	result, err := capture(proc, options.Stdout, options.Stderr, e.logger)
	if err != nil {
		return "", err
	}

	e.logger.Debug("invocation finished",
		slog.String("invocation", invocation),
		slog.Int("status", result.Status),
		slog.Int("stdout_bytes", len(result.Stdout)),
		slog.Int("stderr_bytes", len(result.Stderr)))

	if result.Status != 0 {
		return "", newShellError(invocation, result)
	}

	return trimTrailingNewline(result.Stdout), nil
}

// resolveOptions applies opts; without an explicit directory the first
// command's WorkDir is used.
func resolveOptions(commands []Command, opts []Option) Options {
	var options Options
	if len(commands) > 0 {
		options.WorkDir = commands[0].WorkDir
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
