package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default("/ws")

	if cfg.Host != "127.0.0.1" || cfg.Port != 4173 {
		t.Errorf("unexpected bind defaults: %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.BMADOutput != filepath.Join("/ws", "_bmad-output") {
		t.Errorf("BMADOutput = %q", cfg.BMADOutput)
	}
	if cfg.BMADRoot != filepath.Join("/ws", "_bmad") {
		t.Errorf("BMADRoot = %q", cfg.BMADRoot)
	}
	if !cfg.Watch || cfg.DebounceMS != 500 {
		t.Errorf("unexpected watch defaults: watch=%v debounce=%d", cfg.Watch, cfg.DebounceMS)
	}
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	workspace := t.TempDir()

	cfg, err := Load(workspace, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4173 {
		t.Errorf("Port = %d, want default", cfg.Port)
	}
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	workspace := t.TempDir()

	if _, err := Load(workspace, filepath.Join(workspace, "nope.yaml")); err == nil {
		t.Error("an explicitly named but missing config file must be an error")
	}
}

func TestLoad_Overlay(t *testing.T) {
	workspace := t.TempDir()
	content := "host: 0.0.0.0\nport: 9000\nbmad_output: artifacts\nwatch: false\n"
	if err := os.WriteFile(filepath.Join(workspace, DefaultConfigFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(workspace, "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Host != "0.0.0.0" || cfg.Port != 9000 {
		t.Errorf("overlay not applied: %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.BMADOutput != filepath.Join(workspace, "artifacts") {
		t.Errorf("relative bmad_output must resolve against the workspace: %q", cfg.BMADOutput)
	}
	if cfg.Watch {
		t.Error("watch: false from the file must stick")
	}
	// Untouched fields keep their defaults.
	if cfg.DebounceMS != 500 {
		t.Errorf("DebounceMS = %d, want default", cfg.DebounceMS)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	workspace := t.TempDir()
	if err := os.WriteFile(filepath.Join(workspace, DefaultConfigFile), []byte("port: [not a number\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(workspace, ""); err == nil {
		t.Error("invalid yaml must be an error")
	}
}

func TestResolveOutput(t *testing.T) {
	cfg := Default("/ws")

	if got := cfg.ResolveOutput(""); got != cfg.BMADOutput {
		t.Errorf("empty query = %q, want configured default", got)
	}
	if got := cfg.ResolveOutput("   "); got != cfg.BMADOutput {
		t.Errorf("blank query = %q, want configured default", got)
	}
	if got := cfg.ResolveOutput("relative/dir"); got != filepath.Join("/ws", "relative/dir") {
		t.Errorf("relative query = %q", got)
	}
	if got := cfg.ResolveOutput("/abs/dir"); got != "/abs/dir" {
		t.Errorf("absolute query = %q", got)
	}
}

func TestResolveOutput_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	cfg := Default("/ws")

	if got := cfg.ResolveOutput("~/boards"); got != filepath.Join(home, "boards") {
		t.Errorf("tilde query = %q, want under %q", got, home)
	}
}
