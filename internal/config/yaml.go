package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the repository settings file for dir. The repository root is
// located with FindRepoRoot; .codebrief.yaml is preferred over
// .codebrief.toml. If neither exists, it returns a zero-value Config and nil.
func Load(dir string) (*Config, error) {
	root, err := FindRepoRoot(dir)
	if err != nil {
		return nil, err
	}
	cfg, _, err := loadFirst(root)
	return cfg, err
}

// RepoPath returns the settings file that Load would read for dir, or the
// YAML path in the repository root if neither file exists yet.
func RepoPath(dir string) (string, error) {
	root, err := FindRepoRoot(dir)
	if err != nil {
		return "", err
	}
	for _, name := range []string{FileName, TOMLFileName} {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return filepath.Join(root, FileName), nil
}

func loadFirst(root string) (*Config, string, error) {
	for _, name := range []string{FileName, TOMLFileName} {
		path := filepath.Join(root, name)
		cfg, err := LoadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, "", err
		}
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

// LoadFile decodes a single settings file, choosing YAML or TOML by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user settings path
	if err != nil {
		return nil, err
	}

	var cfg Config
	if isTOML(path) {
		if err := decodeTOML(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadRaw reads a settings file as an untyped map for dot-path editing.
// A missing file yields an empty map.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user settings path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]any), nil
		}
		return nil, err
	}

	var m map[string]any
	if isTOML(path) {
		err = decodeTOML(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// WriteFile writes data to path in the format implied by its extension,
// creating parent directories as needed.
func WriteFile(path string, data map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // user settings path
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck // close error surfaced by encoder flush

	if isTOML(path) {
		return encodeTOML(f, data)
	}
	enc := yaml.NewEncoder(f)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(data)
}


func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
