package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 8417 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8417)
	}
	if !cfg.Engine.FailFast {
		t.Error("Engine.FailFast should be true by default")
	}
	if cfg.Engine.TimeoutSeconds != 300 {
		t.Errorf("Engine.TimeoutSeconds = %d, want 300", cfg.Engine.TimeoutSeconds)
	}
	if cfg.Thresholds.MonetaryTolerance != 0.01 {
		t.Errorf("Thresholds.MonetaryTolerance = %v, want 0.01", cfg.Thresholds.MonetaryTolerance)
	}
	if cfg.Thresholds.UnreconciledSampleCap != 50 {
		t.Errorf("Thresholds.UnreconciledSampleCap = %d, want 50", cfg.Thresholds.UnreconciledSampleCap)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Port != DefaultConfig().Server.Port {
		t.Errorf("missing file should yield defaults, got port %d", cfg.Server.Port)
	}
}

func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[server]
port = 9000

[engine]
fail_fast = false

[thresholds]
duplicate_name_distance = 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Engine.FailFast {
		t.Error("Engine.FailFast should be overridden to false")
	}
	if cfg.Thresholds.DuplicateNameDistance != 3 {
		t.Errorf("Thresholds.DuplicateNameDistance = %d, want 3", cfg.Thresholds.DuplicateNameDistance)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
	if cfg.Thresholds.MonetaryTolerance != 0.01 {
		t.Errorf("Thresholds.MonetaryTolerance = %v, want default", cfg.Thresholds.MonetaryTolerance)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\nport="), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed TOML")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Server.Port = 9100
	cfg.Thresholds.DateToleranceDays = 5

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Server.Port != 9100 {
		t.Errorf("Server.Port = %d, want 9100", loaded.Server.Port)
	}
	if loaded.Thresholds.DateToleranceDays != 5 {
		t.Errorf("Thresholds.DateToleranceDays = %d, want 5", loaded.Thresholds.DateToleranceDays)
	}
}

func TestHome_EnvOverride(t *testing.T) {
	t.Setenv("CONTAUDIT_HOME", "/tmp/contaudit-test")
	if got := Home(); got != "/tmp/contaudit-test" {
		t.Errorf("Home() = %q, want /tmp/contaudit-test", got)
	}
}
