package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/codebrief/internal/pipeline"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		kind pipeline.Kind
		want int
	}{
		{pipeline.KindConfig, ExitInput},
		{pipeline.KindInput, ExitInput},
		{pipeline.KindRemote, ExitRemote},
		{pipeline.KindRender, ExitRender},
		{0, ExitInput},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.kind))
		})
	}
}

func TestPipelineExit(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pipeline.Error{Kind: pipeline.KindRemote, Err: errors.New("status 500")})
	ece := pipelineExit(err)
	assert.Equal(t, ExitRemote, ece.code)
	assert.Equal(t, "An error occurred while summarizing the text: wrapped: status 500", ece.msg)
}

func TestExitError(t *testing.T) {
	ece := exitError(ExitRender, "cannot write %s", "out.md")
	assert.Equal(t, ExitRender, ece.code)
	assert.Equal(t, "cannot write out.md", ece.Error())
}
