package main

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/errors"
)

const seqUsage = "shellout seq [--dir <dir>] [--stream] [--] <command-line>..."

// NewSeqCommand creates the seq command definition
func NewSeqCommand() *cli.Command {
	return &cli.Command{
		Name:      "seq",
		Usage:     "Run command lines in order, stopping at the first failure",
		UsageText: seqUsage,
		ArgsUsage: "<command-line>...",
		Description: "Each argument is one command line. They run in a single shell, chained with &&, " +
			"so a 'cd' in one line affects the lines after it.",
		Flags:  []cli.Flag{dirFlag(), streamFlag()},
		Action: seqCommand,
	}
}

func seqCommand(_ context.Context, cmd *cli.Command) error {
	_, errW := outputWriters(cmd)
	return seqCommandWithExecutor(cmd, newExecutor(newLogger(cmd, errW)))
}

func seqCommandWithExecutor(cmd *cli.Command, executor command.Executor) error {
	commands, err := parseSeqInput(cmd.Args().Slice())
	if err != nil {
		return err
	}
	return executeAndPrint(cmd, executor, commands)
}

func parseSeqInput(args []string) ([]command.Command, error) {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	lines := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) != "" {
			lines = append(lines, arg)
		}
	}
	if len(lines) == 0 {
		return nil, errors.CommandRequired(seqUsage)
	}

	return command.Lines(lines...), nil
}
