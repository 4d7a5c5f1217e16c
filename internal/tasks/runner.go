package tasks

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/config"
	"github.com/satococoa/shellout/internal/errors"
	shio "github.com/satococoa/shellout/internal/io"
)

// Output selects where a task run reports to. Any field may be nil.
type Output struct {
	// Progress receives one "Running" line per task.
	Progress io.Writer
	// Stdout and Stderr receive the child's streams live.
	Stdout io.Writer
	Stderr io.Writer
}

// Runner handles task execution
type Runner struct {
	config   *config.Config
	executor command.Executor
	logger   *slog.Logger
}

// NewRunner creates a new task runner
func NewRunner(cfg *config.Config, executor command.Executor, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		config:   cfg,
		executor: executor,
		logger:   logger,
	}
}

// Invocation returns the command line a task would hand to the interpreter
func (r *Runner) Invocation(name string) (string, error) {
	task, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return command.Assemble(task.ToCommands()), nil
}

// Run executes the named task as one chained invocation and returns its output
func (r *Runner) Run(name string, out Output) (string, error) {
	task, err := r.lookup(name)
	if err != nil {
		return "", err
	}

	commands := task.ToCommands()
	workDir := r.config.ResolveWorkDir(task)

	if out.Progress != nil {
		fmt.Fprintf(out.Progress, "Running task %s: %s\n", name, command.Assemble(commands))
	}

	r.logger.Debug("running task",
		slog.String("task", name),
		slog.Int("commands", len(commands)),
		slog.String("work_dir", workDir))

	opts := []command.Option{command.WithWorkDir(workDir)}
	stdoutSink, stderrSink := shio.NewSinks(out.Stdout, out.Stderr)
	if stdoutSink != nil {
		opts = append(opts, command.WithStdout(stdoutSink))
	}
	if stderrSink != nil {
		opts = append(opts, command.WithStderr(stderrSink))
	}

	output, err := r.executor.Execute(commands, opts...)
	if err != nil {
		return "", fmt.Errorf("task %s failed: %w", name, err)
	}

	return output, nil
}

func (r *Runner) lookup(name string) (config.Task, error) {
	if name == "" {
		return config.Task{}, errors.TaskNameRequired()
	}

	task, ok := r.config.Tasks[name]
	if !ok {
		return config.Task{}, errors.TaskNotFound(name, r.config.TaskNames())
	}

	return task, nil
}
