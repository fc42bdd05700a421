package cmd

import (
	"testing"
	"time"

	"github.com/ghrecap/ghrecap/config"
)

func TestNew(t *testing.T) {
	cmd := New()
	if cmd == nil {
		t.Fatal("New() returned nil")
	}
	if cmd.Use != "ghrecap" {
		t.Errorf("expected Use to be 'ghrecap', got %q", cmd.Use)
	}

	wantSubcommands := []string{"summary", "config", "version", "ratelimit"}
	for _, name := range wantSubcommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q to be registered", name)
		}
	}
}

func TestNewCmdSummary(t *testing.T) {
	cmd := NewCmdSummary(&Options{})
	if cmd == nil {
		t.Fatal("NewCmdSummary() returned nil")
	}
	if cmd.Use != "summary" {
		t.Errorf("expected Use to be 'summary', got %q", cmd.Use)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.0.0", "abc123", "2024-01-01")
	if version != "1.0.0" || commit != "abc123" || date != "2024-01-01" {
		t.Errorf("version info not applied: %s %s %s", version, commit, date)
	}

	// Empty values keep the previous ones
	SetVersionInfo("", "", "")
	if version != "1.0.0" {
		t.Errorf("empty version should be ignored, got %q", version)
	}
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions(
		WithUsers([]string{"alice"}),
		WithWindow("2024-01-15", "2024-01-20"),
		WithFormat("json"),
		WithDays(14),
		WithVerbosity(2),
		WithMaxPages(5),
	)

	if len(opts.Users) != 1 || opts.Users[0] != "alice" {
		t.Errorf("unexpected users %v", opts.Users)
	}
	if opts.From != "2024-01-15" || opts.To != "2024-01-20" {
		t.Errorf("unexpected window %q..%q", opts.From, opts.To)
	}
	if opts.Format != "json" || opts.Days != 14 || opts.Verbosity != 2 || opts.MaxPages != 5 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestResolveWindowExplicitDates(t *testing.T) {
	cfg := &config.Config{WindowDays: 7}

	win, err := resolveWindow(&Options{From: "2024-01-15", To: "2024-01-20"}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !win.Contains(time.Date(2024, 1, 20, 23, 0, 0, 0, time.UTC)) {
		t.Error("the end day should be included in full")
	}
	if win.Contains(time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)) {
		t.Error("the day after the end date should be excluded")
	}
	if win.Contains(time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)) {
		t.Error("days before the start date should be excluded")
	}
}

func TestResolveWindowErrors(t *testing.T) {
	cfg := &config.Config{WindowDays: 7}

	if _, err := resolveWindow(&Options{From: "15-01-2024"}, cfg); err == nil {
		t.Error("expected an error for a malformed from date")
	}
	if _, err := resolveWindow(&Options{To: "bogus"}, cfg); err == nil {
		t.Error("expected an error for a malformed to date")
	}
	if _, err := resolveWindow(&Options{From: "2024-01-20", To: "2024-01-15"}, cfg); err == nil {
		t.Error("expected an error for an inverted range")
	}
}

func TestResolveWindowDefaults(t *testing.T) {
	cfg := &config.Config{WindowDays: 7}

	win, err := resolveWindow(&Options{}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !win.Contains(time.Now()) {
		t.Error("the default window should include today")
	}
	if !win.Contains(time.Now().AddDate(0, 0, -6)) {
		t.Error("the default window should reach back WindowDays days")
	}
	if win.Contains(time.Now().AddDate(0, 0, -8)) {
		t.Error("the default window should not reach past WindowDays days")
	}
}

func TestResolveWindowOpenEnded(t *testing.T) {
	cfg := &config.Config{WindowDays: 7}

	win, err := resolveWindow(&Options{From: "2024-01-15"}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !win.Contains(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("a from-only window should be open at the end")
	}
}
