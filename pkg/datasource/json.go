package datasource

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// JSONReader reads tasks from a JSON document. Two layouts are accepted: a
// bare array of tasks, or an object with a "tasks" key (the export format,
// which may carry extra metadata we ignore).
type JSONReader struct {
	path string
}

// NewJSONReader creates a reader for a JSON source
func NewJSONReader(source DataSource) (*JSONReader, error) {
	if source.Type != SourceTypeJSON {
		return nil, fmt.Errorf("source is not JSON: %s", source.Type)
	}
	return &JSONReader{path: source.Path}, nil
}

// Close is a no-op; the file is read wholesale per load.
func (r *JSONReader) Close() error {
	return nil
}

// LoadTasks reads and validates all tasks from the document. Tasks that fail
// validation are skipped with a warning rather than failing the whole load.
func (r *JSONReader) LoadTasks() ([]model.Task, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		var doc struct {
			Tasks []model.Task `json:"tasks"`
		}
		if docErr := json.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("parsing %s: %w", r.path, err)
		}
		tasks = doc.Tasks
	}

	return filterValid(tasks), nil
}

// CountTasks returns the number of valid tasks in the document.
func (r *JSONReader) CountTasks() (int, error) {
	tasks, err := r.LoadTasks()
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}
