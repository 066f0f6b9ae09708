// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure.
type Kind int

// Failure kinds.
const (
	// KindConfig is a missing API key or invalid settings.
	KindConfig Kind = iota + 1
	// KindInput is a missing source or an empty selection.
	KindInput
	// KindRemote is a failed completion request.
	KindRemote
	// KindRender is a failure to build or show the document.
	KindRender
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindInput:
		return "InputError"
	case KindRemote:
		return "RemoteError"
	case KindRender:
		return "RenderError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a classified pipeline failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user for this failure.
func (e *Error) UserMessage() string {
	return UserMessage(e.Err)
}

// UserMessage formats err the way every surface reports a failed summary.
func UserMessage(err error) string {
	if err == nil {
		return "An error occurred while summarizing the text. Please try again."
	}
	return "An error occurred while summarizing the text: " + err.Error()
}

// KindOf returns the kind of the first *Error in err's chain, or zero.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func fail(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
