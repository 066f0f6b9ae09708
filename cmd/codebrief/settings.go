// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/codebrief/internal/config"
)

// Settings command flags.
var settingsGlobal bool

// defaultEditor is used when neither $VISUAL nor $EDITOR is set.
const defaultEditor = "vi"

// settingsCmd is the parent command for settings subcommands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and modify codebrief settings",
	Long: `View and modify codebrief settings.

Codebrief reads settings from .codebrief.yaml (or .codebrief.toml) in the
repository root. A global file at ~/.config/codebrief/config.yaml provides
defaults. Repo-level settings override global settings, and command flags
override both.

Note: settings set does a YAML round-trip and will not preserve comments.
If you need to keep comments, use settings open.`,
}

// settingsOpenCmd opens the settings file in the user's editor.
var settingsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the settings file in your editor",
	Long: `Open the settings file in $VISUAL or $EDITOR (vi if neither is set).

The file is created with every setting at its default if it does not
exist yet.`,
	Args: cobra.NoArgs,
	RunE: runSettingsOpen,
}

// settingsPathCmd prints the settings file path.
var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

// settingsGetCmd retrieves a setting by key.
var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a setting",
	Long: `Get the effective value of a setting.

Without --global the value is resolved from defaults, the global file
and the repo file, in that order.

Examples:
  codebrief settings get maxTokens
  codebrief settings get --global gptModel`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsGet,
}

// settingsSetCmd sets a setting.
var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Long: `Set a setting in the settings file.

Values are auto-detected as bool, int, float, or string.
By default, writes to the repo settings file.
Use --global to write to ~/.config/codebrief/config.yaml.

Examples:
  codebrief settings set maxTokens 400
  codebrief settings set requestMode anthropic
  codebrief settings set --global gptModel gpt-4o`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

// settingsListCmd lists every setting with its source.
var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings",
	Long: `List every setting with its effective value and where it comes from:
the repo file, the global file, or the built-in default.`,
	Args: cobra.NoArgs,
	RunE: runSettingsList,
}

func init() {
	settingsOpenCmd.Flags().BoolVar(&settingsGlobal, "global", false, "open the global settings file")
	settingsPathCmd.Flags().BoolVar(&settingsGlobal, "global", false, "print the global settings file path")
	settingsGetCmd.Flags().BoolVar(&settingsGlobal, "global", false, "read only the global settings file")
	settingsSetCmd.Flags().BoolVar(&settingsGlobal, "global", false, "write to the global settings file")

	settingsCmd.AddCommand(settingsOpenCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsListCmd)
}

// resetSettingsFlags resets settings command flags for testing.
func resetSettingsFlags() {
	settingsGlobal = false
	for _, c := range []*cobra.Command{settingsOpenCmd, settingsPathCmd, settingsGetCmd, settingsSetCmd} {
		if f := c.Flags().Lookup("global"); f != nil {
			_ = f.Value.Set("false")
			f.Changed = false
		}
	}
}

// settingsPath returns the file the settings commands act on.
func settingsPath() (string, error) {
	if settingsGlobal {
		return config.GlobalConfigPath(), nil
	}
	path, err := config.RepoPath(".")
	if err != nil {
		return "", fmt.Errorf("locating settings file: %w", err)
	}
	return path, nil
}

func runSettingsOpen(cmd *cobra.Command, _ []string) error {
	path, err := settingsPath()
	if err != nil {
		return err
	}
	if err := ensureSettingsFile(path); err != nil {
		return err
	}

	editor := editorCommand()
	bin, err := cmdExec.LookPath(editor[0])
	if err != nil {
		return fmt.Errorf("editor %q not found; set $EDITOR: %w", editor[0], err)
	}
	args := append(editor[1:], path)
	c := cmdExec.CommandContext(cmd.Context(), bin, args...)
	c.Stdin = cmd.InOrStdin()
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("running editor: %w", err)
	}

	// Re-validate so a broken edit is reported right away.
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	return config.Validate(cfg)
}

// ensureSettingsFile writes the defaults to path when it does not exist.
func ensureSettingsFile(path string) error {
	if _, err := cmdFS.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking settings file: %w", err)
	}
	if err := cmdFS.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	defaults, err := config.ToMap(config.Defaults())
	if err != nil {
		return err
	}
	if err := config.WriteFile(path, defaults); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}

// editorCommand returns the editor program and its leading arguments.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{defaultEditor}
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]

	var cfg *config.Config
	var err error
	if settingsGlobal {
		cfg, err = config.LoadGlobal()
	} else {
		cfg, err = config.Resolve(".")
	}
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	val, err := config.GetValue(cfg, keyPath)
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	keyPath := args[0]
	rawValue := args[1]

	if err := config.ValidateKeyPath(keyPath); err != nil {
		return err
	}

	targetPath, err := settingsPath()
	if err != nil {
		return err
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading settings file: %w", err)
	}
	if err := config.SetValue(data, keyPath, rawValue); err != nil {
		return fmt.Errorf("setting value: %w", err)
	}

	// Round-trip validate before writing anything back.
	validCfg, err := config.FromMap(data)
	if err != nil {
		return fmt.Errorf("invalid settings after set: %w", err)
	}
	if err := config.Validate(validCfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", keyPath, rawValue)
	return nil
}

func runSettingsList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, err := config.LoadGlobal()
	if err != nil {
		return fmt.Errorf("loading global settings: %w", err)
	}
	repoCfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading repo settings: %w", err)
	}

	type entry struct {
		value  any
		source string
	}
	seen := make(map[string]entry)
	layers := []struct {
		cfg    *config.Config
		source string
	}{
		{config.Defaults(), "default"},
		{globalCfg, "global"},
		{repoCfg, "repo"},
	}
	for _, layer := range layers {
		m, err := config.ToMap(layer.cfg)
		if err != nil {
			return err
		}
		for k, v := range config.FlattenMap(m, "") {
			seen[k] = entry{value: v, source: layer.source}
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	globalColor := color.New(color.FgCyan)
	repoColor := color.New(color.FgGreen)
	defaultColor := color.New(color.Faint)

	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %s %s\n", k, formatValue(e.value), formatSource(e.source, globalColor, repoColor, defaultColor))
	}
	return nil
}

// printValue outputs a value: scalars as plain text, maps/slices as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// formatValue keeps multi-line role strings on one line.
func formatValue(v any) string {
	s := fmt.Sprint(v)
	return strings.ReplaceAll(s, "\n", `\n`)
}

// formatSource returns a colorized source annotation.
func formatSource(source string, globalColor, repoColor, defaultColor *color.Color) string {
	switch source {
	case "global":
		return globalColor.Sprintf("(global)")
	case "repo":
		return repoColor.Sprintf("(repo)")
	case "default":
		return defaultColor.Sprintf("(default)")
	default:
		return fmt.Sprintf("(%s)", source)
	}
}
