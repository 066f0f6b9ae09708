package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// enumValue is a pflag.Value restricted to a fixed set of strings. The empty
// string is accepted only when it is listed.
type enumValue struct {
	value   string
	choices []string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnumValue(def string, choices ...string) *enumValue {
	return &enumValue{value: def, choices: choices}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Set(s string) error {
	if !slices.Contains(e.choices, s) {
		return fmt.Errorf("must be one of %s", e.allowed())
	}
	e.value = s
	return nil
}

func (e *enumValue) Type() string { return "string" }

func (e *enumValue) allowed() string {
	return strings.Join(e.choices, ", ")
}
