package main

import (
	"fmt"

	"github.com/davetashner/codebrief/internal/pipeline"
)

// Exit codes for the codebrief CLI.
const (
	ExitOK     = 0 // Summary displayed.
	ExitInput  = 1 // Invalid arguments, empty selection or bad settings.
	ExitRemote = 2 // The completion request failed.
	ExitRender = 3 // The result could not be rendered or written.
)

// exitCodeError carries a specific exit code through cobra's error return.
type exitCodeError struct {
	code int
	msg  string
}

func (e *exitCodeError) Error() string {
	return e.msg
}

// exitError returns an exitCodeError with a formatted message.
func exitError(code int, format string, args ...any) *exitCodeError {
	return &exitCodeError{code: code, msg: fmt.Sprintf(format, args...)}
}

// exitCodeFor maps a pipeline failure kind to the process exit code.
func exitCodeFor(kind pipeline.Kind) int {
	switch kind {
	case pipeline.KindRemote:
		return ExitRemote
	case pipeline.KindRender:
		return ExitRender
	default:
		return ExitInput
	}
}

// pipelineExit converts a pipeline error into the user-facing message and
// exit code.
func pipelineExit(err error) *exitCodeError {
	return &exitCodeError{code: exitCodeFor(pipeline.KindOf(err)), msg: pipeline.UserMessage(err)}
}
