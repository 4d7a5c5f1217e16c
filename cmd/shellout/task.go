package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/config"
	"github.com/satococoa/shellout/internal/errors"
	"github.com/satococoa/shellout/internal/tasks"
)

// Variable to allow mocking in tests
var osGetwd = os.Getwd

// NewTaskCommand creates the task command definition
func NewTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "task",
		Usage:     "Run a task defined in .shellout.yml",
		UsageText: "shellout task [--stream] [--dry-run] <task-name>",
		ArgsUsage: "<task-name>",
		Flags: []cli.Flag{
			streamFlag(),
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the command line the task would run",
			},
		},
		ShellComplete: completeTaskNames,
		Action:        taskCommand,
	}
}

func taskCommand(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	_, errW := outputWriters(cmd)
	return taskCommandWithExecutor(cmd, cfg, newExecutor(newLogger(cmd, errW)))
}

func taskCommandWithExecutor(cmd *cli.Command, cfg *config.Config, executor command.Executor) error {
	w, errW := outputWriters(cmd)
	runner := tasks.NewRunner(cfg, executor, newLogger(cmd, errW))
	name := cmd.Args().First()

	invocation, err := runner.Invocation(name)
	if err != nil {
		return err
	}
	if cmd.Bool("dry-run") {
		_, err = fmt.Fprintln(w, invocation)
		return err
	}

	out := tasks.Output{Progress: errW}
	stream := shouldStream(cmd, cfg.ShouldStream(isTerminal(w)))
	if stream {
		out.Stdout = w
		out.Stderr = errW
	}

	output, err := runner.Run(name, out)
	if err != nil {
		return describeExecutionError(err, "", stream)
	}

	if !stream && output != "" {
		if _, writeErr := fmt.Fprintln(w, output); writeErr != nil {
			return writeErr
		}
	}
	return nil
}

func loadProjectConfig() (*config.Config, error) {
	cwd, err := osGetwd()
	if err != nil {
		return nil, errors.DirectoryAccessFailed("access current", ".", err)
	}

	cfg, err := config.FindConfig(cwd)
	if err != nil {
		return nil, errors.ConfigLoadFailed(filepath.Join(cwd, config.ConfigFileName), err)
	}
	return cfg, nil
}

func completeTaskNames(_ context.Context, cmd *cli.Command) {
	if cmd.Args().Len() > 0 {
		return
	}

	cfg, err := loadProjectConfig()
	if err != nil {
		return
	}

	w, _ := outputWriters(cmd)
	for _, name := range cfg.TaskNames() {
		fmt.Fprintln(w, name)
	}
}
