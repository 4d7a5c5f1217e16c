package framework

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccess(t *testing.T, result Result) {
	t.Helper()
	assert.Equal(t, 0, result.ExitCode, "Expected success, got: %s", result)
}

func AssertExitCode(t *testing.T, result Result, expected int) {
	t.Helper()
	assert.Equal(t, expected, result.ExitCode, "Expected exit code %d, got: %s", expected, result)
}

func AssertStdout(t *testing.T, result Result, expected string) {
	t.Helper()
	assert.Equal(t, expected, result.Stdout, "Unexpected stdout, got: %s", result)
}

func AssertOutputContains(t *testing.T, output, expected string) {
	t.Helper()
	assert.Contains(t, output, expected, "Expected output containing '%s', got: %s", expected, output)
}

func AssertOutputNotContains(t *testing.T, output, unexpected string) {
	t.Helper()
	assert.NotContains(t, output, unexpected, "Expected output not containing '%s', got: %s", unexpected, output)
}

func AssertOutputOrder(t *testing.T, output string, expected ...string) {
	t.Helper()
	last := -1
	for _, exp := range expected {
		idx := strings.Index(output, exp)
		if idx < 0 {
			t.Errorf("Expected output containing '%s', got: %s", exp, output)
			return
		}
		if idx < last {
			t.Errorf("Expected '%s' after previous entries, got: %s", exp, output)
			return
		}
		last = idx
	}
}

func AssertHelpfulError(t *testing.T, output string) {
	t.Helper()

	helpfulElements := []string{
		"Solutions:",
		"Solution:",
		"Cause:",
		"Tip:",
		"•",
		"Usage:",
	}

	for _, element := range helpfulElements {
		if strings.Contains(output, element) {
			return
		}
	}

	t.Errorf("Error message does not appear to be helpful. Got: %s", output)
}

func AssertFileContains(t *testing.T, project *Project, path, content string) {
	t.Helper()
	if !assert.True(t, project.HasFile(path), "File '%s' does not exist", path) {
		return
	}
	fileContent := project.ReadFile(path)
	assert.Contains(t, fileContent, content, "Expected file '%s' to contain '%s', got: %s", path, content, fileContent)
}

func AssertTrue(t *testing.T, condition bool, message string) {
	t.Helper()
	assert.True(t, condition, message)
}

func AssertFalse(t *testing.T, condition bool, message string) {
	t.Helper()
	assert.False(t, condition, message)
}
