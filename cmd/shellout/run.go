package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/errors"
)

const runUsage = "shellout run [--dir <dir>] [--stream] [--] <command> [args...]"

// NewRunCommand creates the run command definition
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run a command through the shell",
		UsageText: runUsage,
		ArgsUsage: "<command> [args...]",
		Description: "A single argument is handed to the shell as a complete command line, " +
			"so quoting, pipes and redirections work as typed. Several arguments are joined " +
			"with single spaces; they are not escaped.",
		Flags:  []cli.Flag{dirFlag(), streamFlag()},
		Action: runCommand,
	}
}

func runCommand(_ context.Context, cmd *cli.Command) error {
	_, errW := outputWriters(cmd)
	return runCommandWithExecutor(cmd, newExecutor(newLogger(cmd, errW)))
}

func runCommandWithExecutor(cmd *cli.Command, executor command.Executor) error {
	c, err := parseRunInput(cmd.Args().Slice())
	if err != nil {
		return err
	}
	return executeAndPrint(cmd, executor, []command.Command{c})
}

func parseRunInput(args []string) (command.Command, error) {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	if len(args) == 0 || args[0] == "" {
		return command.Command{}, errors.CommandRequired(runUsage)
	}
	if len(args) == 1 {
		return command.Line(args[0]), nil
	}
	return command.Command{Name: args[0], Args: args[1:]}, nil
}
