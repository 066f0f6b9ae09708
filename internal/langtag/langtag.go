// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package langtag maps editor language identifiers to the language tags
// understood by the Prism syntax highlighter.
package langtag

import "sort"

// tags maps an editor language id to its Prism component name. Ids that
// Prism already understands verbatim (python, go, rust, ...) are omitted and
// pass through Map unchanged.
var tags = map[string]string{
	"shellscript":      "bash",
	"dotenv":           "bash",
	"objective-c":      "objectivec",
	"objective-cpp":    "objectivec",
	"plaintext":        "markup",
	"html":             "markup",
	"xml":              "markup",
	"xsl":              "markup",
	"vue-html":         "markup",
	"javascriptreact":  "jsx",
	"typescriptreact":  "tsx",
	"dockerfile":       "docker",
	"bat":              "batch",
	"jsonc":            "json",
	"json5":            "json5",
	"jade":             "pug",
	"vb":               "vbnet",
	"git-commit":       "git",
	"git-rebase":       "git",
	"restructuredtext": "rest",
	"tex":              "latex",
	"perl6":            "raku",
	"razor":            "cshtml",
	"cuda-cpp":         "cpp",
	"csharp":           "csharp",
	"fsharp":           "fsharp",
	"shaderlab":        "hlsl",
	"coffeescript":     "coffeescript",
	"ignore":           "ignore",
	"properties":       "properties",
	"makefile":         "makefile",
	"powershell":       "powershell",
}

// Map returns the highlighter tag for languageID. Unknown ids are returned
// unchanged.
func Map(languageID string) string {
	if tag, ok := tags[languageID]; ok {
		return tag
	}
	return languageID
}

// Known returns the editor language ids with an explicit mapping, sorted.
func Known() []string {
	ids := make([]string, 0, len(tags))
	for id := range tags {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
