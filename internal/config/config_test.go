package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingConfigIsEmpty(t *testing.T) {
	t.Setenv("CURIO_CONFIG_DIR", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "" || cfg.AccessToken != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestSaveRoundTripAndBackup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CURIO_CONFIG_DIR", dir)

	first := &Config{ServerURL: "https://curio.example.org", AccessToken: "tok-1", UserID: 3}
	if err := Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ServerURL != first.ServerURL || got.AccessToken != first.AccessToken || got.UserID != 3 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	second := &Config{ServerURL: "https://curio.example.org", AccessToken: "tok-2", UserID: 3}
	if err := Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}
	bak, err := os.ReadFile(filepath.Join(dir, "config.json.bak"))
	if err != nil {
		t.Fatalf("expected a backup of the previous config: %v", err)
	}
	if !strings.Contains(string(bak), "tok-1") {
		t.Fatalf("backup does not hold the previous token: %s", bak)
	}

	info, err := os.Stat(filepath.Join(dir, "config.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("config file must be private, got %v", info.Mode().Perm())
	}
}
