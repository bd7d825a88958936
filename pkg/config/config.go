// Package config handles loading and saving gv configuration.
//
// The config file lives at ~/.config/gv/config.yaml per the XDG Base
// Directory specification. Besides UI and export preferences it holds the
// project registry: registered project paths, scan paths for discovery, and
// number-key favorites.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Project represents a registered project in the config.
type Project struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	Theme        string  `yaml:"theme,omitempty"`         // dark, light
	RowHeight    float64 `yaml:"row_height,omitempty"`    // Export row height in pixels
	RowSpace     float64 `yaml:"row_space,omitempty"`     // Export inter-row gap in pixels
	ResourceMode bool    `yaml:"resource_mode,omitempty"` // Show resource periods instead of task bars
	SplitRatio   float64 `yaml:"split_ratio,omitempty"`   // Grid/timeline split (0.2-0.8)
}

// ExportConfig holds defaults for chart export.
type ExportConfig struct {
	Dir      string  `yaml:"dir,omitempty"`       // Output directory, default "."
	DayWidth float64 `yaml:"day_width,omitempty"` // Pixels per day on the timeline
}

// DiscoveryConfig controls auto-discovery of projects.
type DiscoveryConfig struct {
	ScanPaths []string `yaml:"scan_paths,omitempty"` // Directories to scan for .gantt/
	MaxDepth  int      `yaml:"max_depth,omitempty"`  // How deep to scan (default 3)
}

// Config is the top-level configuration for gv.
type Config struct {
	Projects  []Project       `yaml:"projects,omitempty"`
	Favorites map[int]string  `yaml:"favorites,omitempty"` // Number key (1-9) -> project name
	UI        UIConfig        `yaml:"ui,omitempty"`
	Export    ExportConfig    `yaml:"export,omitempty"`
	Discovery DiscoveryConfig `yaml:"discovery,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Favorites: make(map[int]string),
		UI: UIConfig{
			Theme:      "dark",
			RowHeight:  24,
			SplitRatio: 0.4,
		},
		Export: ExportConfig{
			Dir:      ".",
			DayWidth: 18,
		},
		Discovery: DiscoveryConfig{
			MaxDepth: 3,
		},
	}
}

// ConfigDir returns the XDG config directory for gv.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "gv")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gv")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Favorites == nil {
		cfg.Favorites = make(map[int]string)
	}
	if cfg.UI.RowHeight <= 0 {
		cfg.UI.RowHeight = 24
	}

	// Expand ~ in project paths
	for i := range cfg.Projects {
		cfg.Projects[i].Path = expandHome(cfg.Projects[i].Path)
	}
	for i := range cfg.Discovery.ScanPaths {
		cfg.Discovery.ScanPaths[i] = expandHome(cfg.Discovery.ScanPaths[i])
	}

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FindProject returns the project with the given name, or nil.
func (c Config) FindProject(name string) *Project {
	for i := range c.Projects {
		if strings.EqualFold(c.Projects[i].Name, name) {
			return &c.Projects[i]
		}
	}
	return nil
}

// FavoriteProject returns the project assigned to number key n (1-9), or nil.
func (c Config) FavoriteProject(n int) *Project {
	name, ok := c.Favorites[n]
	if !ok {
		return nil
	}
	return c.FindProject(name)
}

// SetFavorite assigns a project name to a number key (1-9).
func (c *Config) SetFavorite(n int, projectName string) {
	if c.Favorites == nil {
		c.Favorites = make(map[int]string)
	}
	if projectName == "" {
		delete(c.Favorites, n)
	} else {
		c.Favorites[n] = projectName
	}
}

// ResolvedPath returns the project path with ~ expanded.
func (p Project) ResolvedPath() string {
	return expandHome(p.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
