package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnsureIgnored makes sure dir (e.g. "exports/") is listed in the project's
// .gitignore, so generated charts do not pollute the repository.
//
// The function is idempotent: it creates .gitignore if missing, appends the
// pattern only when no existing line already covers it, and preserves the
// file's content otherwise.
func EnsureIgnored(projectDir, dir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}

	dir = strings.TrimSuffix(dir, "/")
	gitignorePath := filepath.Join(projectDir, ".gitignore")

	covered, err := isIgnored(gitignorePath, dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if covered {
		return nil
	}

	return appendToGitignore(gitignorePath, dir+"/")
}

// isIgnored checks whether any non-comment line of the .gitignore file
// already covers dir.
func isIgnored(path, dir string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if coversDir(line, dir) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// coversDir checks if a gitignore line covers the given directory.
func coversDir(line, dir string) bool {
	normalized := strings.TrimPrefix(line, "/")

	for _, pattern := range []string{
		dir,
		dir + "/",
		dir + "/*",
		dir + "/**",
		dir + "/**/*",
	} {
		if normalized == pattern {
			return true
		}
	}

	return false
}

// appendToGitignore appends a pattern, creating the file when needed and
// keeping a blank-line separator before the new block.
func appendToGitignore(path, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# gv generated charts\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# gv generated charts\n" + pattern + "\n"
	}

	if _, err := file.WriteString(toWrite); err != nil {
		return err
	}

	return nil
}
