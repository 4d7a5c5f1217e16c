package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/satococoa/shellout/internal/command"
)

// Exit statuses the shell uses for its own failures
const (
	statusNotExecutable = 126
	statusNotFound      = 127
)

// Common error messages with helpful context and suggestions

// Command Errors
func CommandRequired(usage string) error {
	msg := fmt.Sprintf(`command is required

Usage: %s

Examples:
  • shellout run uptime
  • shellout run echo "Hello world"
  • shellout seq "cd build" "make"`, usage)
	return errors.New(msg)
}

// commandFailedError keeps the ShellError reachable through errors.As
type commandFailedError struct {
	msg   string
	cause *command.ShellError
}

func (e *commandFailedError) Error() string { return e.msg }

func (e *commandFailedError) Unwrap() error { return e.cause }

// CommandFailed describes a non-zero exit. When the output was already
// streamed to the terminal the captured message is not repeated.
func CommandFailed(shellErr *command.ShellError, streamed bool) error {
	details := strings.TrimSpace(shellErr.Message)

	msg := fmt.Sprintf("command failed with status %d: %s", shellErr.Status, shellErr.Command)
	if !streamed {
		shown := details
		if shown == "" {
			shown = "no additional details available"
		}
		msg += "\n\nDetails: " + shown
	}

	switch {
	case shellErr.Status == statusNotFound || strings.Contains(details, "command not found"):
		msg += `

Cause: Command not found
Solutions:
  • Install the required command
  • Check the command spelling
  • Use the full path to the command`
	case shellErr.Status == statusNotExecutable || strings.Contains(details, "Permission denied"):
		msg += `

Cause: Permission denied
Solutions:
  • Check file permissions
  • Ensure the command is executable`
	case strings.Contains(details, "No such file or directory"):
		msg += `

Cause: File or directory not found
Solutions:
  • Check paths relative to the working directory
  • Use --dir to run from another directory`
	}

	msg += "\n\nTip: Run with --verbose to see the exact invocation"
	return &commandFailedError{msg: msg, cause: shellErr}
}

// Task Errors
func TaskNameRequired() error {
	msg := `task name is required

Usage: shellout task <task-name>

Tip: Run 'shellout list' to see available tasks`
	return errors.New(msg)
}

func TaskNotFound(name string, availableTasks []string) error {
	msg := fmt.Sprintf("task '%s' not found", name)

	if len(availableTasks) > 0 {
		msg += "\n\nAvailable tasks:"
		for _, task := range availableTasks {
			msg += fmt.Sprintf("\n  • %s", task)
		}
	} else {
		msg += "\n\nNo tasks defined."
	}

	msg += "\n\nTip: Run 'shellout init' to create a configuration with example tasks"
	return errors.New(msg)
}

// Configuration Errors
func ConfigLoadFailed(configPath string, parseError error) error {
	msg := fmt.Sprintf("failed to load configuration from '%s'", configPath)

	parseErrorStr := parseError.Error()
	if strings.Contains(parseErrorStr, "yaml") || strings.Contains(parseErrorStr, "unmarshal") {
		msg += `

Cause: YAML syntax error in configuration file
Solutions:
  • Check YAML syntax and indentation
  • Validate YAML at https://yamllint.com/
  • Run 'shellout init' in an empty directory to see an example`
	} else if strings.Contains(parseErrorStr, "invalid configuration") {
		msg += `

Cause: Configuration does not match the expected schema
Solutions:
  • Every task needs at least one command
  • A command is either a string or a mapping with 'name' and 'args'`
	} else if strings.Contains(parseErrorStr, "permission denied") {
		msg += `

Cause: Permission denied reading configuration file
Solution: Check file permissions with 'ls -la .shellout.yml'`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", parseError)
	return errors.New(msg)
}

func ConfigAlreadyExists(configPath string) error {
	msg := fmt.Sprintf(`configuration file already exists: %s

Options:
  • Edit the existing file manually
  • Delete it and run 'shellout init' again
  • Use 'shellout init --force' to overwrite`, configPath)
	return errors.New(msg)
}

// File System Errors
func DirectoryAccessFailed(operation, path string, originalError error) error {
	msg := fmt.Sprintf("failed to %s directory: %s", operation, path)

	errorStr := originalError.Error()
	if strings.Contains(errorStr, "permission denied") {
		msg += `

Cause: Permission denied
Solutions:
  • Check directory permissions
  • Run with appropriate privileges
  • Ensure you own the directory`
	} else if strings.Contains(errorStr, "no such file or directory") {
		msg += `

Cause: Directory does not exist
Solutions:
  • Create the directory first
  • Check the path spelling
  • Use an absolute path`
	}

	msg += fmt.Sprintf("\n\nOriginal error: %v", originalError)
	return errors.New(msg)
}
