// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package selection builds the code selection that is sent for review: the
// selected text plus the editor language id it was written in.
package selection

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sentinel errors for selections that must never reach the remote call.
var (
	// ErrNoSource is returned when neither a file nor piped input is available.
	ErrNoSource = errors.New("please open a file to use this command")

	// ErrEmpty is returned when the selected text is empty.
	ErrEmpty = errors.New("please select some text to summarize")
)

// Input is one selection: the text and the editor language id it carries.
type Input struct {
	Text       string
	LanguageID string

	// Path is the source file, empty for stdin or tool input.
	Path string

	// StartLine and EndLine are 1-based and inclusive; zero means the whole file.
	StartLine int
	EndLine   int
}

// Validate rejects selections that have no text to send.
func (in Input) Validate() error {
	if in.Text == "" {
		return ErrEmpty
	}
	return nil
}

// LineRange is an inclusive, 1-based range of lines.
type LineRange struct {
	Start int
	End   int
}

// ParseLineRange parses "N", "N:M", "N:" or ":M". An empty string selects
// the whole file.
func ParseLineRange(s string) (LineRange, error) {
	if s == "" {
		return LineRange{}, nil
	}
	startStr, endStr, hasColon := strings.Cut(s, ":")
	var r LineRange
	var err error
	if startStr != "" {
		if r.Start, err = strconv.Atoi(startStr); err != nil || r.Start < 1 {
			return LineRange{}, fmt.Errorf("invalid line range %q: start must be a positive integer", s)
		}
	}
	if !hasColon {
		r.End = r.Start
		return r, nil
	}
	if endStr != "" {
		if r.End, err = strconv.Atoi(endStr); err != nil || r.End < 1 {
			return LineRange{}, fmt.Errorf("invalid line range %q: end must be a positive integer", s)
		}
	}
	if r.Start > 0 && r.End > 0 && r.End < r.Start {
		return LineRange{}, fmt.Errorf("invalid line range %q: end before start", s)
	}
	return r, nil
}

// FromFile reads path and returns the lines covered by r. languageID
// overrides extension-based detection when non-empty.
func FromFile(path string, r LineRange, languageID string) (Input, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-selected file
	if err != nil {
		return Input{}, fmt.Errorf("reading %s: %w", path, err)
	}
	text, start, end := slice(string(data), r)
	if languageID == "" {
		languageID = LanguageIDForPath(path)
	}
	return Input{
		Text:       text,
		LanguageID: languageID,
		Path:       path,
		StartLine:  start,
		EndLine:    end,
	}, nil
}

// FromReader reads the whole of rd as the selection text.
func FromReader(rd io.Reader, r LineRange, languageID string) (Input, error) {
	if rd == nil {
		return Input{}, ErrNoSource
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return Input{}, fmt.Errorf("reading input: %w", err)
	}
	text, start, end := slice(string(data), r)
	if languageID == "" {
		languageID = "plaintext"
	}
	return Input{Text: text, LanguageID: languageID, StartLine: start, EndLine: end}, nil
}

// slice cuts the requested line range out of content. Out-of-range bounds are
// clamped; a range that starts past the last line yields empty text.
func slice(content string, r LineRange) (string, int, int) {
	if r.Start == 0 && r.End == 0 {
		return content, 0, 0
	}
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	start, end := r.Start, r.End
	if start == 0 {
		start = 1
	}
	if end == 0 || end > len(lines) {
		end = len(lines)
	}
	if start > len(lines) {
		return "", start, end
	}
	return strings.Join(lines[start-1:end], ""), start, end
}

// extLanguages maps file extensions to editor language ids.
var extLanguages = map[string]string{
	".py":    "python",
	".go":    "go",
	".rs":    "rust",
	".js":    "javascript",
	".mjs":   "javascript",
	".cjs":   "javascript",
	".jsx":   "javascriptreact",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".java":  "java",
	".kt":    "kotlin",
	".swift": "swift",
	".m":     "objective-c",
	".mm":    "objective-cpp",
	".c":     "c",
	".h":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cu":    "cuda-cpp",
	".cs":    "csharp",
	".fs":    "fsharp",
	".vb":    "vb",
	".rb":    "ruby",
	".php":   "php",
	".sh":    "shellscript",
	".bash":  "shellscript",
	".zsh":   "shellscript",
	".ps1":   "powershell",
	".bat":   "bat",
	".cmd":   "bat",
	".html":  "html",
	".htm":   "html",
	".xml":   "xml",
	".xsl":   "xsl",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".json":  "json",
	".jsonc": "jsonc",
	".yaml":  "yaml",
	".yml":   "yaml",
	".toml":  "toml",
	".ini":   "ini",
	".md":    "markdown",
	".rst":   "restructuredtext",
	".tex":   "latex",
	".sql":   "sql",
	".lua":   "lua",
	".pl":    "perl",
	".r":     "r",
	".dart":  "dart",
	".scala": "scala",
	".hs":    "haskell",
	".ex":    "elixir",
	".exs":   "elixir",
	".erl":   "erlang",
	".clj":   "clojure",
	".txt":   "plaintext",
}

// baseLanguages maps well-known file names without a useful extension.
var baseLanguages = map[string]string{
	"Dockerfile":  "dockerfile",
	"Makefile":    "makefile",
	"makefile":    "makefile",
	"GNUmakefile": "makefile",
	".env":        "dotenv",
	".gitignore":  "ignore",
}

// LanguageIDForPath infers the editor language id from a file name. Unknown
// extensions report "plaintext".
func LanguageIDForPath(path string) string {
	base := filepath.Base(path)
	if id, ok := baseLanguages[base]; ok {
		return id
	}
	if id, ok := extLanguages[strings.ToLower(filepath.Ext(base))]; ok {
		return id
	}
	return "plaintext"
}
