// Package prefs persists pager preferences between runs, by default in
// ~/.config/assemble-logs/prefs.toml (resolved by the config package).
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the pager.
type Prefs struct {
	Theme string `toml:"theme"`
	// Wrap soft-wraps long lines instead of letting them run off screen.
	Wrap bool `toml:"wrap"`
}

// DefaultTheme is used when no usable preference is stored.
const DefaultTheme = "Nightfox"

// Defaults returns the preferences used before anything is saved.
func Defaults() Prefs {
	return Prefs{Theme: DefaultTheme}
}

// Load reads preferences from path. A missing file or empty path yields
// defaults with no error. A file that cannot be read or parsed also yields
// defaults, together with the error so the caller can report it.
func Load(path string) (Prefs, error) {
	p := Defaults()
	if strings.TrimSpace(path) == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		return Defaults(), fmt.Errorf("parse prefs: %w", err)
	}
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = DefaultTheme
	}
	return p, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("save prefs: path is empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
