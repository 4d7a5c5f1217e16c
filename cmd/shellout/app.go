package main

import "github.com/urfave/cli/v3"

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "shellout",
		Usage: "Run shell commands and capture their output",
		Description: "shellout runs a command, a chain of commands, or a named task from .shellout.yml " +
			"through /bin/bash, and prints the captured output.",
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log invocations and exit statuses to stderr",
			},
		},
		Commands: []*cli.Command{
			NewRunCommand(),
			NewSeqCommand(),
			NewTaskCommand(),
			NewListCommand(),
			NewInitCommand(),
		},
	}
}
