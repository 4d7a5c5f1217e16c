package command

import "fmt"

// ShellError is returned when the interpreter exits with a non-zero status.
type ShellError struct {
	// Command is the invocation that was handed to the interpreter.
	Command string
	// Message is the trimmed standard error, or the trimmed standard
	// output when nothing was written to standard error.
	Message string
	// Output is the trimmed standard output.
	Output string
	// Status is the exit status of the interpreter.
	Status int
}

func newShellError(invocation string, result *ExecutionResult) *ShellError {
	message := trimTrailingNewline(result.Stderr)
	if len(result.Stderr) == 0 {
		message = trimTrailingNewline(result.Stdout)
	}

	return &ShellError{
		Command: invocation,
		Message: message,
		Output:  trimTrailingNewline(result.Stdout),
		Status:  result.Status,
	}
}

func (e *ShellError) Error() string {
	return fmt.Sprintf("command %q exited with status %d: %s", e.Command, e.Status, e.Message)
}
