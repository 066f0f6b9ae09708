// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package pipeline

// State is a step of one summarize invocation.
type State int

// Invocation states. Every run starts Idle and ends Displayed or Failed.
const (
	StateIdle State = iota
	StateValidating
	StateRequesting
	StateRendering
	StateDisplayed
	StateFailed
)

var stateNames = [...]string{
	StateIdle:       "idle",
	StateValidating: "validating",
	StateRequesting: "requesting",
	StateRendering:  "rendering",
	StateDisplayed:  "displayed",
	StateFailed:     "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Transition records one state change of an invocation.
type Transition struct {
	// ID is the invocation id.
	ID   string
	From State
	To   State

	// Err is set when To is StateFailed.
	Err error
}
