package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScanForProjects(t *testing.T) {
	root := t.TempDir()

	// Create project directories with .gantt/
	proj1 := filepath.Join(root, "project1")
	proj2 := filepath.Join(root, "subdir", "project2")
	plain := filepath.Join(root, "plain")

	for _, dir := range []string{
		filepath.Join(proj1, ".gantt"),
		filepath.Join(proj2, ".gantt"),
		plain,
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	results := scanForProjects(root, 3)

	if len(results) != 2 {
		t.Fatalf("expected 2 projects, got %d: %v", len(results), results)
	}

	found := make(map[string]bool)
	for _, r := range results {
		found[r] = true
	}

	if !found[proj1] {
		t.Error("expected to find project1")
	}
	if !found[proj2] {
		t.Error("expected to find project2")
	}
}

func TestScanForProjects_DepthLimit(t *testing.T) {
	root := t.TempDir()

	// Create a deeply nested project
	deep := filepath.Join(root, "a", "b", "c", "d", "deep")
	if err := os.MkdirAll(filepath.Join(deep, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	// Shallow project
	shallow := filepath.Join(root, "shallow")
	if err := os.MkdirAll(filepath.Join(shallow, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	results := scanForProjects(root, 2)

	if len(results) != 1 {
		t.Fatalf("expected 1 project at depth 2, got %d: %v", len(results), results)
	}
	if results[0] != shallow {
		t.Errorf("expected shallow project, got %q", results[0])
	}
}

func TestScanForProjects_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()

	// Hidden dir with .gantt inside
	hidden := filepath.Join(root, ".hidden", "project")
	if err := os.MkdirAll(filepath.Join(hidden, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	results := scanForProjects(root, 3)
	if len(results) != 0 {
		t.Errorf("expected 0 results (hidden dir skipped), got %d", len(results))
	}
}

func TestDiscoverProjects_MergesWithRegistered(t *testing.T) {
	root := t.TempDir()

	// Create a discoverable project
	proj := filepath.Join(root, "myproj")
	if err := os.MkdirAll(filepath.Join(proj, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		Projects: []Project{
			{Name: "registered", Path: proj}, // Same path, registered name
		},
		Discovery: DiscoveryConfig{
			ScanPaths: []string{root},
			MaxDepth:  3,
		},
	}

	result := DiscoverProjects(cfg)

	// Should have exactly 1 project (deduped by path)
	if len(result) != 1 {
		t.Fatalf("expected 1 deduped project, got %d: %v", len(result), result)
	}
	// Should use registered name
	if result[0].Name != "registered" {
		t.Errorf("expected registered name, got %q", result[0].Name)
	}
}

func TestDiscoverProjects_AddsNewProjects(t *testing.T) {
	root := t.TempDir()

	proj1 := filepath.Join(root, "proj1")
	proj2 := filepath.Join(root, "proj2")
	for _, p := range []string{proj1, proj2} {
		if err := os.MkdirAll(filepath.Join(p, ".gantt"), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Config{
		Projects: []Project{
			{Name: "proj1", Path: proj1},
		},
		Discovery: DiscoveryConfig{
			ScanPaths: []string{root},
			MaxDepth:  3,
		},
	}

	result := DiscoverProjects(cfg)

	if len(result) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(result))
	}

	// First should be registered, second discovered
	if result[0].Name != "proj1" {
		t.Errorf("expected first project 'proj1', got %q", result[0].Name)
	}
	if result[1].Name != "proj2" {
		t.Errorf("expected discovered project 'proj2', got %q", result[1].Name)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()

	// Create .gantt in root
	if err := os.MkdirAll(filepath.Join(root, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	// Create a subdirectory
	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	// Should find root from subdirectory
	found, ok := findProjectRoot(sub)
	if !ok {
		t.Error("expected to find project root")
	}
	if found != root {
		t.Errorf("expected %q, got %q", root, found)
	}
}

func TestResolveProject(t *testing.T) {
	root := t.TempDir()
	proj := filepath.Join(root, "roadmap")
	if err := os.MkdirAll(filepath.Join(proj, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		Projects:  []Project{{Name: "roadmap", Path: proj}},
		Favorites: map[int]string{1: "roadmap"},
	}

	if dir, ok := ResolveProject(cfg, "roadmap"); !ok || dir != proj {
		t.Errorf("by name: (%q, %v), want %q", dir, ok, proj)
	}
	if dir, ok := ResolveProject(cfg, "ROADMAP"); !ok || dir != proj {
		t.Errorf("names are case-insensitive: (%q, %v)", dir, ok)
	}
	if dir, ok := ResolveProject(cfg, "1"); !ok || dir != proj {
		t.Errorf("by favorite key: (%q, %v), want %q", dir, ok, proj)
	}
	if dir, ok := ResolveProject(cfg, proj); !ok || dir != proj {
		t.Errorf("by path: (%q, %v), want %q", dir, ok, proj)
	}
	if _, ok := ResolveProject(cfg, "missing"); ok {
		t.Error("unknown name resolved")
	}
	if _, ok := ResolveProject(cfg, "7"); ok {
		t.Error("unassigned favorite key resolved")
	}
}

func TestResolveProjectDiscovered(t *testing.T) {
	root := t.TempDir()
	proj := filepath.Join(root, "scanned")
	if err := os.MkdirAll(filepath.Join(proj, ".gantt"), 0o755); err != nil {
		t.Fatal(err)
	}

	cfg := Config{Discovery: DiscoveryConfig{ScanPaths: []string{root}}}
	if dir, ok := ResolveProject(cfg, "scanned"); !ok || dir != proj {
		t.Errorf("discovered project did not resolve: (%q, %v)", dir, ok)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope", "config.yaml"))
	if err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg.UI.RowHeight != 24 || cfg.UI.Theme != "dark" {
		t.Errorf("missing config should yield defaults, got %+v", cfg.UI)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gv", "config.yaml")

	cfg := DefaultConfig()
	cfg.Projects = []Project{{Name: "roadmap", Path: "/tmp/roadmap"}}
	cfg.UI.ResourceMode = true
	cfg.SetFavorite(1, "roadmap")

	if err := SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(loaded.Projects) != 1 || loaded.Projects[0].Name != "roadmap" {
		t.Errorf("projects did not round trip: %+v", loaded.Projects)
	}
	if !loaded.UI.ResourceMode {
		t.Error("resource mode flag did not round trip")
	}
	if p := loaded.FavoriteProject(1); p == nil || p.Name != "roadmap" {
		t.Errorf("favorite did not round trip: %v", p)
	}
}
