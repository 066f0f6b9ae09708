package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/davetashner/codebrief/internal/config"
	"github.com/davetashner/codebrief/internal/langtag"
	"github.com/davetashner/codebrief/internal/llm"
	"github.com/davetashner/codebrief/internal/prompt"
)

func init() {
	Register(NewMarkdown())
}

// fence is a Markdown code fence.
const fence = "```"

// SettingsCommand is the host command the settings hint links to.
const SettingsCommand = "command:" + config.Namespace + ".openSettings"

// Markdown renders one self-contained document per invocation.
type Markdown struct {
	loc *time.Location
}

// Compile-time interface check.
var _ Renderer = (*Markdown)(nil)

// NewMarkdown returns a Markdown renderer that shows timestamps in local time.
func NewMarkdown() *Markdown {
	return &Markdown{}
}

// Name returns the output mode name.
func (m *Markdown) Name() string {
	return config.OutputMarkdown
}

// Render writes the summary, the snippet, a metadata table, the prompts that
// were sent, and a settings hint.
func (m *Markdown) Render(in Input) (Document, error) {
	if in.Result == nil {
		return Document{}, ErrNoResult
	}

	var buf bytes.Buffer
	steps := []func(io.Writer, Input) error{
		writeSummary,
		writeSnippet,
		m.writeDetails,
		writePrompts,
		writeSettingsHint,
	}
	for _, step := range steps {
		if err := step(&buf, in); err != nil {
			return Document{}, err
		}
	}
	return Document{Format: m.Name(), Body: buf.String()}, nil
}

// EscapeBackticks escapes every backtick so the snippet cannot close the
// surrounding code fence.
func EscapeBackticks(s string) string {
	return strings.ReplaceAll(s, "`", "\\`")
}

// BalanceFences appends a closing fence when s contains an odd number of
// triple-backtick sequences. Otherwise s is returned unchanged.
func BalanceFences(s string) string {
	if strings.Count(s, fence)%2 == 0 {
		return s
	}
	return s + "\n" + fence
}

func writeSummary(w io.Writer, in Input) error {
	if _, err := fmt.Fprintf(w, "# Code Summary\n\n%s\n\n", BalanceFences(in.Result.Summary)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

func writeSnippet(w io.Writer, in Input) error {
	tag := langtag.Map(in.Selection.LanguageID)
	code := strings.TrimRight(EscapeBackticks(in.Selection.Text), "\n")
	if _, err := fmt.Fprintf(w, "## Code\n\n%s%s\n%s\n%s\n\n", fence, tag, code, fence); err != nil {
		return fmt.Errorf("write snippet: %w", err)
	}
	return nil
}

func (m *Markdown) writeDetails(w io.Writer, in Input) error {
	res := in.Result
	tag := langtag.Map(in.Selection.LanguageID)
	rows := [][2]string{
		{"Version", orUnavailable(in.Version)},
		{"Model", orUnavailable(res.Model)},
		{"Request ID", orUnavailable(res.RequestID)},
		{"Created", m.timestamp(res.Created)},
		{"Max tokens", fmt.Sprintf("%d", in.settings().MaxTokens)},
		{"Tokens used", fmt.Sprintf("%d (prompt: %d, completion: %d)", res.TotalTokens, res.PromptTokens, res.CompletionTokens)},
		{"Finish reason", finishReasonCell(res)},
		{"Language", fmt.Sprintf("%s (highlighter: %s)", orUnavailable(in.Selection.LanguageID), tag)},
	}
	if in.Selection.Path != "" {
		rows = append(rows, [2]string{"Source", sourceCell(in)})
	}

	if _, err := io.WriteString(w, "## Details\n\n| Field | Value |\n|-------|-------|\n"); err != nil {
		return fmt.Errorf("write details: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "| %s | %s |\n", r[0], tableCell(r[1])); err != nil {
			return fmt.Errorf("write details: %w", err)
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write details: %w", err)
	}
	return nil
}

func (m *Markdown) timestamp(t time.Time) string {
	if t.IsZero() {
		return unavailable
	}
	loc := m.loc
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04:05 MST")
}

func finishReasonCell(res *llm.Result) string {
	if res.Truncated() {
		return "⚠️ **" + res.FinishReason + "** (output may be truncated; consider raising maxTokens)"
	}
	return orUnavailable(res.FinishReason)
}

func sourceCell(in Input) string {
	s := in.Selection
	if s.StartLine > 0 {
		return fmt.Sprintf("`%s:%d-%d`", s.Path, s.StartLine, s.EndLine)
	}
	return "`" + s.Path + "`"
}

// tableCell keeps a value on one table row.
func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

func writePrompts(w io.Writer, in Input) error {
	if _, err := io.WriteString(w, "## Prompts\n\n"); err != nil {
		return fmt.Errorf("write prompts: %w", err)
	}

	if in.Request.Mode == prompt.ModeLegacy {
		// The legacy prompt embeds the snippet verbatim.
		return writeQuoted(w, "Prompt", EscapeBackticks(in.Request.Prompt))
	}

	cfg := in.settings()
	prompts := []struct{ label, text string }{
		{"System", cfg.RoleSystemContent},
		{"Assistant", cfg.RoleAssistantContent},
		{"User", cfg.RoleUserContent},
	}
	for _, m := range in.Request.Messages {
		switch m.Role {
		case prompt.RoleSystem:
			prompts[0].text = m.Content
		case prompt.RoleAssistant:
			prompts[1].text = m.Content
		}
	}
	for _, p := range prompts {
		if err := writeQuoted(w, p.label, p.text); err != nil {
			return err
		}
	}
	return nil
}

func writeQuoted(w io.Writer, label, text string) error {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		text = unavailable
	}
	quoted := "> " + strings.ReplaceAll(text, "\n", "\n> ")
	if _, err := fmt.Fprintf(w, "**%s:**\n\n%s\n\n", label, quoted); err != nil {
		return fmt.Errorf("write prompt %s: %w", strings.ToLower(label), err)
	}
	return nil
}

func writeSettingsHint(w io.Writer, _ Input) error {
	_, err := fmt.Fprintf(w, "---\n\nTo change the model, token limit or prompts, [open settings](%s) or run `codebrief settings open`.\n", SettingsCommand)
	if err != nil {
		return fmt.Errorf("write settings hint: %w", err)
	}
	return nil
}
