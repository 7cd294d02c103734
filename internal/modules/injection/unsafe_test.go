package injection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteEcho(t *testing.T) {
	exec := NewUnsafeExecutor()
	out, err := exec.Execute(`echo("hello", "world")`)
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestExecuteConsoleLog(t *testing.T) {
	exec := NewUnsafeExecutor()
	out, err := exec.Execute(`console.log("a"); console.log("b")`)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
}

func TestExecuteFinalValueWhenNothingWritten(t *testing.T) {
	exec := NewUnsafeExecutor()
	out, err := exec.Execute(`1 + 2`)
	require.NoError(t, err)
	assert.Equal(t, "3", out)
}

func TestExecuteTypeScriptSyntax(t *testing.T) {
	exec := NewUnsafeExecutor()
	out, err := exec.Execute(`const n: number = 21; echo(String(n * 2))`)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestExecuteSyntaxError(t *testing.T) {
	exec := NewUnsafeExecutor()
	_, err := exec.Execute(`const = broken(`)
	assert.Error(t, err)
}

func TestExecuteThrownError(t *testing.T) {
	exec := NewUnsafeExecutor()
	_, err := exec.Execute(`throw new Error("boom")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestExecuteTimeoutInterrupts(t *testing.T) {
	exec := &UnsafeExecutor{timeout: 50 * time.Millisecond}
	_, err := exec.Execute(`while (true) {}`)
	assert.Error(t, err)
}
