package config

import (
	"os"
	"path/filepath"
	"strings"
)

// isProjectRoot reports whether dir carries a .gantt/ marker directory.
func isProjectRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".gantt"))
	return err == nil && info.IsDir()
}

// DiscoverProjects returns every project gv can see: the entries registered
// in the config plus any directory under the configured scan paths that
// carries a .gantt/ marker. Registered entries come first and win on path
// collisions, so their names stick.
func DiscoverProjects(cfg Config) []Project {
	seen := make(map[string]bool)
	projects := make([]Project, 0, len(cfg.Projects))

	for _, p := range cfg.Projects {
		seen[p.ResolvedPath()] = true
		projects = append(projects, p)
	}

	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}
	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, dir := range scanForProjects(scanPath, maxDepth) {
			if seen[dir] {
				continue
			}
			seen[dir] = true
			projects = append(projects, Project{Name: filepath.Base(dir), Path: dir})
		}
	}
	return projects
}

// scanForProjects collects project roots at most maxDepth directory levels
// below root. Hidden directories are not descended into, and a found project
// is not scanned for nested projects.
func scanForProjects(root string, maxDepth int) []string {
	var found []string
	var walk func(dir string, depth int)
	walk = func(dir string, depth int) {
		if isProjectRoot(dir) {
			found = append(found, dir)
			return
		}
		if depth >= maxDepth {
			return
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			walk(filepath.Join(dir, e.Name()), depth+1)
		}
	}
	walk(expandHome(root), 0)
	return found
}

// ResolveProject maps a -project argument to a project directory. The
// argument may be a favorite number key (1-9), a registered or discovered
// project name, or a path that is itself a project root.
func ResolveProject(cfg Config, arg string) (string, bool) {
	if n := favoriteKey(arg); n != 0 {
		if p := cfg.FavoriteProject(n); p != nil {
			return p.ResolvedPath(), true
		}
	}
	if p := cfg.FindProject(arg); p != nil {
		return p.ResolvedPath(), true
	}
	for _, p := range DiscoverProjects(cfg) {
		if strings.EqualFold(p.Name, arg) {
			return p.ResolvedPath(), true
		}
	}
	if dir := expandHome(arg); isProjectRoot(dir) {
		return dir, true
	}
	return "", false
}

// favoriteKey returns the favorite number a single-digit argument names, or
// zero.
func favoriteKey(arg string) int {
	if len(arg) == 1 && arg[0] >= '1' && arg[0] <= '9' {
		return int(arg[0] - '0')
	}
	return 0
}

// DetectCurrentProject walks up from the working directory looking for the
// nearest enclosing project root.
func DetectCurrentProject() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectRoot(dir)
}

// findProjectRoot walks up from dir to the nearest .gantt/ marker. The walk
// stops at the home directory and at the filesystem root.
func findProjectRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()
	for {
		if isProjectRoot(dir) {
			return dir, true
		}
		if dir == home {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}
