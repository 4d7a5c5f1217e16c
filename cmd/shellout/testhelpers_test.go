package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/satococoa/shellout/internal/command"
	"github.com/satococoa/shellout/internal/config"
	"github.com/satococoa/shellout/internal/testutil"
)

// runApp runs the CLI with captured writers
func runApp(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	app := newApp()
	app.Writer = &outBuf
	app.ErrWriter = &errBuf

	err = app.Run(context.Background(), append([]string{"shellout"}, args...))
	return outBuf.String(), errBuf.String(), err
}

func stubExecutor(t *testing.T, executor command.Executor) {
	t.Helper()
	prev := newExecutor
	t.Cleanup(func() { newExecutor = prev })
	newExecutor = func(*slog.Logger) command.Executor { return executor }
}

func stubGetwd(t *testing.T, dir string) {
	t.Helper()
	prev := osGetwd
	t.Cleanup(func() { osGetwd = prev })
	osGetwd = func() (string, error) { return dir, nil }
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte(content), 0o600))
}

func requireBash(t *testing.T) {
	t.Helper()
	testutil.RequireExecutable(t, command.DefaultShell)
}

// mockExecutor records the last call and optionally writes to the sinks
type mockExecutor struct {
	output       string
	stdout       string
	stderr       string
	err          error
	calls        int
	lastCommands []command.Command
	lastOptions  command.Options
}

func (m *mockExecutor) Execute(commands []command.Command, opts ...command.Option) (string, error) {
	m.calls++
	m.lastCommands = commands
	m.lastOptions = command.Options{}
	for _, opt := range opts {
		opt(&m.lastOptions)
	}
	writeSink(m.lastOptions.Stdout, m.stdout)
	writeSink(m.lastOptions.Stderr, m.stderr)
	return m.output, m.err
}

func writeSink(w io.Writer, s string) {
	if w != nil && s != "" {
		_, _ = io.WriteString(w, s)
	}
}
