package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/render"
	"github.com/davetashner/codebrief/internal/selection"
)

func TestSession_AppendOrder(t *testing.T) {
	s := NewSession(100)
	for i := range 3 {
		_, err := s.Append(render.Item{Code: fmt.Sprintf("f%d()", i), Summary: fmt.Sprintf("summary-%d", i), Tag: "go"}, nil)
		require.NoError(t, err)
	}

	items := s.Items()
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, fmt.Sprintf("summary-%d", i), it.Summary)
	}

	page, err := s.Page()
	require.NoError(t, err)
	out := string(page)
	assert.Less(t, strings.Index(out, "summary-0"), strings.Index(out, "summary-1"))
	assert.Less(t, strings.Index(out, "summary-1"), strings.Index(out, "summary-2"))
}

func TestSession_ItemsIsCopy(t *testing.T) {
	s := NewSession(100)
	_, err := s.Append(render.Item{Summary: "kept"}, nil)
	require.NoError(t, err)

	items := s.Items()
	items[0].Summary = "changed"
	assert.Equal(t, "kept", s.Items()[0].Summary)
}

func TestSession_UsageIsLatest(t *testing.T) {
	s := NewSession(100)
	_, err := s.Append(render.Item{Summary: "a"}, &render.Usage{Total: 10, Prompt: 6, Completion: 4})
	require.NoError(t, err)
	page, err := s.Append(render.Item{Summary: "b"}, &render.Usage{Total: 30, Prompt: 20, Completion: 10})
	require.NoError(t, err)

	assert.Contains(t, string(page), "Tokens used: 30 (Prompt tokens: 20, Completion tokens: 10)")
	assert.NotContains(t, string(page), "Tokens used: 10")
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(100)
	id := s.ID()
	_, err := s.Append(render.Item{Summary: "gone"}, &render.Usage{Total: 1})
	require.NoError(t, err)

	page, err := s.Reset()
	require.NoError(t, err)
	assert.Empty(t, s.Items())
	assert.NotEqual(t, id, s.ID())
	assert.NotContains(t, string(page), "gone")
	assert.NotContains(t, string(page), "Tokens used")
}

func TestSession_AppendRollsBackOnRenderFailure(t *testing.T) {
	var updates int
	s := NewSession(100, WithOnUpdate(func([]byte) { updates++ }))
	_, err := s.Append(render.Item{Summary: "kept"}, &render.Usage{Total: 10})
	require.NoError(t, err)

	s.writePage = func(io.Writer, render.Page) error { return errors.New("template broke") }
	page, err := s.Append(render.Item{Summary: "dropped"}, &render.Usage{Total: 99})
	require.EqualError(t, err, "template broke")
	assert.Nil(t, page)
	assert.Equal(t, 1, updates)

	s.writePage = render.WritePage
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Summary)

	page, err = s.Page()
	require.NoError(t, err)
	assert.Contains(t, string(page), "Tokens used: 10")
	assert.NotContains(t, string(page), "dropped")
}

func TestSession_OnUpdate(t *testing.T) {
	var pages []string
	s := NewSession(100, WithOnUpdate(func(p []byte) { pages = append(pages, string(p)) }))

	_, err := s.Append(render.Item{Summary: "one"}, nil)
	require.NoError(t, err)
	_, err = s.Reset()
	require.NoError(t, err)

	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], "one")
	assert.NotContains(t, pages[1], "one")
}

func TestSession_LiveReload(t *testing.T) {
	page, err := NewSession(100, WithLiveReload()).Page()
	require.NoError(t, err)
	assert.Contains(t, string(page), "new WebSocket")

	page, err = NewSession(100).Page()
	require.NoError(t, err)
	assert.NotContains(t, string(page), "new WebSocket")
}

func TestSession_Show(t *testing.T) {
	s := NewSession(100)
	in := render.Input{
		Selection: selection.Input{Text: "echo hi", LanguageID: "shellscript"},
		Result:    &llm.Result{Summary: "Prints hi.", TotalTokens: 5, PromptTokens: 3, CompletionTokens: 2},
	}
	require.NoError(t, s.Show(context.Background(), in, render.Document{}))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, render.Item{Code: "echo hi", Summary: "Prints hi.", Tag: "bash"}, items[0])
}

func TestSession_ConcurrentAppend(t *testing.T) {
	s := NewSession(100)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(render.Item{Summary: fmt.Sprintf("s%d", i)}, nil)
		}()
	}
	wg.Wait()
	assert.Len(t, s.Items(), 20)
}
