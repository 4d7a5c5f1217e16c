package e2e

import (
	"path/filepath"
	"testing"

	"github.com/satococoa/shellout/test/e2e/framework"
)

func TestErrorHandling(t *testing.T) {
	env := framework.NewTestEnvironment(t)
	project := env.CreateProject("errors")

	t.Run("ExitStatusIsPropagated", func(t *testing.T) {
		result := project.RunShellout("run", "echo partial; exit 7")
		framework.AssertExitCode(t, result, 7)
		framework.AssertOutputContains(t, result.Stderr, "command failed with status 7")
		framework.AssertOutputContains(t, result.Stderr, "partial")
	})

	t.Run("StderrBecomesMessage", func(t *testing.T) {
		result := project.RunShellout("run", "cd", "notADirectory")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "notADirectory")
		framework.AssertHelpfulError(t, result.Stderr)
	})

	t.Run("CommandNotFound", func(t *testing.T) {
		result := project.RunShellout("run", "definitely-not-a-command-xyz")
		framework.AssertExitCode(t, result, 127)
		framework.AssertOutputContains(t, result.Stderr, "Command not found")
	})

	t.Run("SequenceStopsAtFirstFailure", func(t *testing.T) {
		result := project.RunShellout("seq", "touch first.txt", "false", "touch never.txt")
		framework.AssertExitCode(t, result, 1)
		framework.AssertTrue(t, project.HasFile("first.txt"), "first line should have run")
		framework.AssertFalse(t, project.HasFile("never.txt"), "later lines must not run")
	})

	t.Run("MissingWorkingDirectory", func(t *testing.T) {
		result := project.RunShellout("run", "--dir", filepath.Join(env.TmpDir(), "missing"), "pwd")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "Directory does not exist")
	})

	t.Run("MissingCommand", func(t *testing.T) {
		result := project.RunShellout("run")
		framework.AssertExitCode(t, result, 1)
		framework.AssertOutputContains(t, result.Stderr, "command is required")
		framework.AssertHelpfulError(t, result.Stderr)
	})
}
