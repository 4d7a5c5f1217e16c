package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/config"
)

const (
	defaultTableWidth  = 120
	commandColumnWidth = 60
)

// Variable to allow mocking in tests
var getTerminalWidth = func() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTableWidth
	}
	return width
}

// NewListCommand creates the list command definition
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks defined in .shellout.yml",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only print task names",
			},
		},
		Action: listCommand,
	}
}

func listCommand(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	w, _ := outputWriters(cmd)
	return listTasks(w, cfg, cmd.Bool("quiet"))
}

func listTasks(w io.Writer, cfg *config.Config, quiet bool) error {
	if quiet {
		for _, name := range cfg.TaskNames() {
			if _, err := fmt.Fprintln(w, name); err != nil {
				return err
			}
		}
		return nil
	}

	if !cfg.HasTasks() {
		_, err := fmt.Fprintf(w, "No tasks defined in %s\n", filepath.Join(cfg.Root(), config.ConfigFileName))
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(getTerminalWidth())
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "COMMANDS", WidthMax: commandColumnWidth, WidthMaxEnforcer: text.WrapSoft},
	})
	t.AppendHeader(table.Row{"TASK", "COMMANDS", "WORK DIR", "DESCRIPTION"})

	for _, name := range cfg.TaskNames() {
		task := cfg.Tasks[name]
		t.AppendRow(table.Row{
			name,
			command.Assemble(task.ToCommands()),
			displayWorkDir(cfg, task),
			task.Description,
		})
	}

	t.Render()
	return nil
}

func displayWorkDir(cfg *config.Config, task config.Task) string {
	workDir := cfg.ResolveWorkDir(task)
	rel, err := filepath.Rel(cfg.Root(), workDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return workDir
	}
	return rel
}
