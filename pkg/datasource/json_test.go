package datasource

import (
	"os"
	"path/filepath"
	"testing"
)

func writeJSON(t *testing.T, content string) DataSource {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gantt.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := Detect(path)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestJSONReaderBareArray(t *testing.T) {
	src := writeJSON(t, `[
		{"id": "a", "title": "Kickoff", "status": "planned", "task_type": "milestone"},
		{"id": "b", "title": "Build", "status": "in_progress", "task_type": "task",
		 "parent_id": "a", "start": "2026-03-01T00:00:00Z", "end": "2026-03-14T00:00:00Z"}
	]`)

	r, err := NewJSONReader(src)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	tasks, err := r.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[1].ParentID != "a" {
		t.Errorf("parent_id = %q, want a", tasks[1].ParentID)
	}
	if tasks[1].Start.IsZero() || tasks[1].End.IsZero() {
		t.Error("dates did not parse")
	}
}

func TestJSONReaderWrappedDocument(t *testing.T) {
	src := writeJSON(t, `{
		"project": "roadmap",
		"tasks": [
			{"id": "a", "title": "One", "status": "done", "task_type": "task"}
		]
	}`)

	r, err := NewJSONReader(src)
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := r.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != "a" {
		t.Errorf("tasks = %v", tasks)
	}
}

func TestJSONReaderSkipsInvalidTasks(t *testing.T) {
	src := writeJSON(t, `[
		{"id": "good", "title": "Fine", "status": "planned", "task_type": "task"},
		{"id": "", "title": "No ID", "status": "planned", "task_type": "task"},
		{"id": "bad-status", "title": "Bad", "status": "wat", "task_type": "task"}
	]`)

	r, err := NewJSONReader(src)
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := r.LoadTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != "good" {
		t.Errorf("expected only the valid task, got %v", tasks)
	}
}

func TestJSONReaderMalformed(t *testing.T) {
	src := writeJSON(t, `{not json`)
	r, err := NewJSONReader(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.LoadTasks(); err == nil {
		t.Error("expected parse error")
	}
}
