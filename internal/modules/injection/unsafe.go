package injection

import (
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"
)

const (
	execTimeout      = 30 * time.Second
	execTimeoutCause = "unsafe-exec-timeout"
)

// UnsafeExecutor runs payload bodies with full host privileges inside a JS
// VM. It is a gate, not a sandbox: once the key gate passes, the script gets
// everything the runtime offers. The only hard limits are the wall-clock
// interrupt and panic recovery, an exploding script must never take the
// render pipeline down with it.
type UnsafeExecutor struct {
	timeout time.Duration
}

func NewUnsafeExecutor() *UnsafeExecutor {
	return &UnsafeExecutor{timeout: execTimeout}
}

// Execute transforms and runs a payload body, returning the output it
// produced. Output is whatever the script wrote through echo/print/console
// plus, when nothing was written, the final expression value.
func (e *UnsafeExecutor) Execute(body string) (output string, err error) {
	code, err := transformBody(body)
	if err != nil {
		return "", err
	}

	vm := goja.New()
	var buf strings.Builder

	write := func(call goja.FunctionCall) goja.Value {
		for i, arg := range call.Arguments {
			if i > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(arg.String())
		}
		return goja.Undefined()
	}
	writeln := func(call goja.FunctionCall) goja.Value {
		write(call)
		buf.WriteString("\n")
		return goja.Undefined()
	}

	_ = vm.Set("echo", write)
	_ = vm.Set("print", write)
	console := vm.NewObject()
	_ = console.Set("log", writeln)
	_ = console.Set("error", writeln)
	_ = vm.Set("console", console)

	timer := time.AfterFunc(e.timeout, func() {
		vm.Interrupt(execTimeoutCause)
	})
	defer timer.Stop()

	defer func() {
		if r := recover(); r != nil {
			output = ""
			err = fmt.Errorf("execution panic: %v", r)
		}
	}()

	value, err := vm.RunString(code)
	if err != nil {
		return "", fmt.Errorf("execution failed: %w", err)
	}

	if buf.Len() > 0 {
		return buf.String(), nil
	}
	if value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) {
		return value.String(), nil
	}
	return "", nil
}

// transformBody lowers modern JS/TS syntax before execution.
func transformBody(body string) (string, error) {
	result := api.Transform(body, api.TransformOptions{
		Loader:  api.LoaderTS,
		Format:  api.FormatCommonJS,
		Target:  api.ES2020,
		Charset: api.CharsetUTF8,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("transform failed: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}
