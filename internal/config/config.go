// Package config loads and saves the client's global configuration
// (~/.curio/config.json): backend address, credentials, and UI preferences.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// ServerURL is the backend base URL ("https://curio.example.org").
	ServerURL string `json:"serverUrl,omitempty"`

	// AccessToken authenticates every backend request. Obtained out of band
	// (the backend issues tokens on its own login surface).
	AccessToken string `json:"accessToken,omitempty"`

	// UserID is the id the token belongs to, for owner display.
	UserID int `json:"userId,omitempty"`

	// TokenExpiresAt is informational; the backend is the authority.
	TokenExpiresAt time.Time `json:"tokenExpiresAt,omitzero"`

	// TUI holds optional appearance preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Profile forces a terminal color profile ("ascii", "ansi", "ansi256",
	// "truecolor"). Empty means auto-detect.
	Profile string `json:"profile,omitempty"`
	// Glyphs selects the glyph set ("unicode" or "ascii").
	Glyphs string `json:"glyphs,omitempty"`
}

func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.curio).
	if v := strings.TrimSpace(os.Getenv("CURIO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".curio"), nil
}

func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config; the token in it may be the only one
	// the user has. Best-effort, never blocks a save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o600)
	}

	// Unique temp name + rename so concurrent CLI/TUI processes cannot
	// corrupt each other's writes. 0600: the file holds a credential.
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
