package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readGitignore(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf("reading .gitignore: %v", err)
	}
	return string(data)
}

func TestEnsureIgnoredCreatesFile(t *testing.T) {
	dir := t.TempDir()

	if err := EnsureIgnored(dir, "exports/"); err != nil {
		t.Fatalf("EnsureIgnored: %v", err)
	}

	content := readGitignore(t, dir)
	if !strings.Contains(content, "exports/") {
		t.Errorf(".gitignore missing pattern, got %q", content)
	}
}

func TestEnsureIgnoredAppendsToExisting(t *testing.T) {
	dir := t.TempDir()
	existing := "node_modules/\n*.log"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(existing), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureIgnored(dir, "exports"); err != nil {
		t.Fatalf("EnsureIgnored: %v", err)
	}

	content := readGitignore(t, dir)
	if !strings.Contains(content, "node_modules/") {
		t.Error("existing content was lost")
	}
	if !strings.Contains(content, "exports/") {
		t.Error("pattern not appended")
	}
	// File did not end with newline; the append must not glue onto *.log.
	if strings.Contains(content, "*.logexports") || strings.Contains(content, "*.log#") {
		t.Errorf("pattern glued to previous line: %q", content)
	}
}

func TestEnsureIgnoredIdempotent(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 3; i++ {
		if err := EnsureIgnored(dir, "exports/"); err != nil {
			t.Fatalf("EnsureIgnored run %d: %v", i, err)
		}
	}

	content := readGitignore(t, dir)
	if n := strings.Count(content, "exports/"); n != 1 {
		t.Errorf("pattern appears %d times, want 1:\n%s", n, content)
	}
}

func TestEnsureIgnoredRecognizesVariants(t *testing.T) {
	variants := []string{"exports", "exports/", "/exports/", "exports/*", "exports/**"}
	for _, v := range variants {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(v+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}

		if err := EnsureIgnored(dir, "exports/"); err != nil {
			t.Fatalf("EnsureIgnored with %q: %v", v, err)
		}

		content := readGitignore(t, dir)
		if strings.Contains(content, "# gv generated charts") {
			t.Errorf("pattern %q not recognized as covering exports/, appended anyway:\n%s", v, content)
		}
	}
}
