package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.DefaultFormat != DefaultFormat {
		t.Errorf("DefaultFormat = %q, want %q", cfg.DefaultFormat, DefaultFormat)
	}
	if cfg.WindowDays != DefaultWindowDays {
		t.Errorf("WindowDays = %d, want %d", cfg.WindowDays, DefaultWindowDays)
	}
	if cfg.EnrichDelayMS != DefaultEnrichDelayMS {
		t.Errorf("EnrichDelayMS = %d, want %d", cfg.EnrichDelayMS, DefaultEnrichDelayMS)
	}
	if cfg.MaxEventPages != DefaultMaxEventPages {
		t.Errorf("MaxEventPages = %d, want %d", cfg.MaxEventPages, DefaultMaxEventPages)
	}
}

func TestApplyDefaultsPreservesSetValues(t *testing.T) {
	cfg := &Config{
		DefaultFormat: "json",
		WindowDays:    30,
		EnrichDelayMS: 100,
		MaxEventPages: 10,
	}
	cfg.applyDefaults()

	if cfg.DefaultFormat != "json" || cfg.WindowDays != 30 || cfg.EnrichDelayMS != 100 || cfg.MaxEventPages != 10 {
		t.Errorf("applyDefaults overwrote explicit values: %+v", cfg)
	}
}

func TestMergeConfig(t *testing.T) {
	global := &Config{
		DefaultFormat: "table",
		Usernames:     []string{"alice"},
		WindowDays:    7,
	}
	local := &Config{
		DefaultFormat: "json",
		WindowDays:    14,
	}

	merged := mergeConfig(global, local)

	if merged.DefaultFormat != "json" {
		t.Errorf("local format should win, got %q", merged.DefaultFormat)
	}
	if merged.WindowDays != 14 {
		t.Errorf("local window should win, got %d", merged.WindowDays)
	}
	if len(merged.Usernames) != 1 || merged.Usernames[0] != "alice" {
		t.Errorf("unset local usernames should preserve global, got %v", merged.Usernames)
	}
}

func TestLoadMergesLocalOverGlobal(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	globalDir := filepath.Join(configHome, "ghrecap")
	if err := os.MkdirAll(globalDir, 0700); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	globalYAML := "default_format: table\nusernames:\n  - alice\nwindow_days: 7\n"
	if err := os.WriteFile(filepath.Join(globalDir, "config.yaml"), []byte(globalYAML), 0600); err != nil {
		t.Fatalf("failed to write global config: %v", err)
	}

	workDir := t.TempDir()
	localYAML := "default_format: markdown\n"
	if err := os.WriteFile(filepath.Join(workDir, ".ghrecap.yaml"), []byte(localYAML), 0600); err != nil {
		t.Fatalf("failed to write local config: %v", err)
	}
	chdir(t, workDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultFormat != "markdown" {
		t.Errorf("local format should override global, got %q", cfg.DefaultFormat)
	}
	if len(cfg.Usernames) != 1 || cfg.Usernames[0] != "alice" {
		t.Errorf("global usernames should survive the merge, got %v", cfg.Usernames)
	}
	if cfg.WindowDays != 7 {
		t.Errorf("global window_days should survive the merge, got %d", cfg.WindowDays)
	}
	if cfg.EnrichDelayMS != DefaultEnrichDelayMS {
		t.Errorf("unset fields should get defaults, got %d", cfg.EnrichDelayMS)
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing config files should not be an error: %v", err)
	}
	if cfg.DefaultFormat != DefaultFormat {
		t.Errorf("expected pure defaults, got %+v", cfg)
	}
}

func TestGetGitHubToken(t *testing.T) {
	cfg := &Config{}

	t.Setenv("GITHUB_TOKEN", "")
	if got := cfg.GetGitHubToken(); got != "" {
		t.Errorf("expected empty token, got %q", got)
	}

	t.Setenv("GITHUB_TOKEN", "env-token")
	if got := cfg.GetGitHubToken(); got != "env-token" {
		t.Errorf("expected token from environment, got %q", got)
	}
}

func TestToYAML(t *testing.T) {
	cfg := &Config{DefaultFormat: "json", WindowDays: 14}
	out, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out == "" {
		t.Fatal("expected YAML output")
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}
