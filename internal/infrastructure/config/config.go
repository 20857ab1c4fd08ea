// Package config holds the explicit path and endpoint configuration for
// the live board. Nothing here is process-wide: the CLI constructs one
// Config and hands it down to the service and HTTP boundary.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the optional per-workspace config file name.
const DefaultConfigFile = "liveboard.yaml"

// Config is the resolved runtime configuration. Relative path values from
// the config file are resolved against the workspace root during Load.
type Config struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	WorkspaceRoot string `yaml:"-"`
	BMADRoot      string `yaml:"bmad_root"`
	BMADOutput    string `yaml:"bmad_output"`
	Dashboard     string `yaml:"dashboard"`
	Watch         bool   `yaml:"watch"`
	DebounceMS    int    `yaml:"debounce_ms"`
}

// Default returns the conventional configuration for a workspace root.
func Default(workspaceRoot string) *Config {
	return &Config{
		Host:          "127.0.0.1",
		Port:          4173,
		WorkspaceRoot: workspaceRoot,
		BMADRoot:      filepath.Join(workspaceRoot, "_bmad"),
		BMADOutput:    filepath.Join(workspaceRoot, "_bmad-output"),
		Dashboard:     filepath.Join(workspaceRoot, "web", "dashboard.html"),
		Watch:         true,
		DebounceMS:    500,
	}
}

// Load builds the configuration for a workspace, overlaying the yaml file
// at path (or <workspace>/liveboard.yaml when path is empty) onto the
// defaults. A missing file is not an error; an unreadable or invalid one
// is.
func Load(workspaceRoot, path string) (*Config, error) {
	cfg := Default(workspaceRoot)

	explicit := path != ""
	if path == "" {
		path = filepath.Join(workspaceRoot, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.WorkspaceRoot = workspaceRoot
	cfg.BMADRoot = resolveAgainst(workspaceRoot, cfg.BMADRoot)
	cfg.BMADOutput = resolveAgainst(workspaceRoot, cfg.BMADOutput)
	cfg.Dashboard = resolveAgainst(workspaceRoot, cfg.Dashboard)

	return cfg, nil
}

// ResolveOutput maps a request-supplied output override to an absolute
// path: empty input falls back to the configured output dir, "~" expands
// against the home dir, and relative paths resolve against the workspace
// root.
func (c *Config) ResolveOutput(query string) string {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return c.BMADOutput
	}
	if raw == "~" || strings.HasPrefix(raw, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
		}
	}
	return resolveAgainst(c.WorkspaceRoot, raw)
}

func resolveAgainst(root, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
