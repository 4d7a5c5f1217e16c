package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/satococoa/shellout/internal/config"
	"github.com/satococoa/shellout/internal/errors"
	"github.com/urfave/cli/v3"
)

const configFileMode = 0o600

const configTemplate = `# shellout configuration
version: "1.0"

# Default settings for tasks
defaults:
  # Directory tasks start in (relative to this file)
  work_dir: .

  # Mirror output live. Leave unset to stream only when stdout is a terminal.
  # stream: true

# Named command sequences. Commands in a task run in one shell, chained with &&,
# and the task stops at the first command that fails.
tasks:
  hello:
    description: Print a greeting
    commands:
      - echo "Hello from shellout"

  status:
    description: Show where tasks run
    commands:
      # Plain strings are handed to the shell as-is
      - pwd
      # name/args entries are joined with spaces; arguments are not escaped
      - name: ls
        args: ["-la"]

  # More examples (commented out):
  # build:
  #   work_dir: ./src
  #   commands:
  #     - go build ./...
  #     - go test ./...
`

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates a .shellout.yml configuration file in the current directory " +
			"with example tasks and settings.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing configuration file",
			},
		},
		Action: initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	cwd, err := osGetwd()
	if err != nil {
		return errors.DirectoryAccessFailed("access current", ".", err)
	}

	configPath := filepath.Join(cwd, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !cmd.Bool("force") {
		return errors.ConfigAlreadyExists(configPath)
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), configFileMode); err != nil {
		return errors.DirectoryAccessFailed("create configuration file in", cwd, err)
	}

	w, _ := outputWriters(cmd)
	fmt.Fprintf(w, "Configuration file created: %s\n", configPath)
	fmt.Fprintln(w, "Edit this file to define your tasks, then run 'shellout list'.")
	return nil
}
