// Package datasource detects and reads gv project data. A project stores its
// schedule either as a JSON document or as a SQLite database, usually inside
// the .gantt/ directory; when both exist the freshest one wins.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeSQLite is a SQLite database (gantt.db)
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeJSON is a JSON document (gantt.json or any *.json)
	SourceTypeJSON SourceType = "json"
)

// Priority values for source types (higher = more authoritative)
const (
	PrioritySQLite = 100
	PriorityJSON   = 50
)

// DataSource represents a potential source of schedule data
type DataSource struct {
	Type     SourceType `json:"type"`
	Path     string     `json:"path"`
	Priority int        `json:"priority"`
	ModTime  time.Time  `json:"mod_time"`
	Size     int64      `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	return fmt.Sprintf("%s (%s, priority=%d, mod=%s)",
		s.Path, s.Type, s.Priority, s.ModTime.Format(time.RFC3339))
}

// Reader loads tasks from one concrete source.
type Reader interface {
	LoadTasks() ([]model.Task, error)
	Close() error
}

// Detect stats a single file and classifies it by extension.
func Detect(path string) (DataSource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return DataSource{}, fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("source is a directory: %s", path)
	}

	src := DataSource{
		Path:    path,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
		src.Priority = PrioritySQLite
	case ".json":
		src.Type = SourceTypeJSON
		src.Priority = PriorityJSON
	default:
		return DataSource{}, fmt.Errorf("unrecognized source type: %s", path)
	}
	return src, nil
}

// Discover scans a project's .gantt/ directory for candidate sources, sorted
// freshest first; ties break on priority. The project root itself is also
// checked for gantt.json and gantt.db.
func Discover(projectRoot string) ([]DataSource, error) {
	var candidates []string

	ganttDir := filepath.Join(projectRoot, ".gantt")
	if entries, err := os.ReadDir(ganttDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			candidates = append(candidates, filepath.Join(ganttDir, e.Name()))
		}
	}
	for _, name := range []string{"gantt.json", "gantt.db"} {
		candidates = append(candidates, filepath.Join(projectRoot, name))
	}

	var sources []DataSource
	for _, path := range candidates {
		src, err := Detect(path)
		if err != nil {
			continue
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no data sources found under %s", projectRoot)
	}

	sort.SliceStable(sources, func(i, j int) bool {
		if !sources[i].ModTime.Equal(sources[j].ModTime) {
			return sources[i].ModTime.After(sources[j].ModTime)
		}
		return sources[i].Priority > sources[j].Priority
	})
	return sources, nil
}

// Open returns a Reader for the source based on its type.
func Open(src DataSource) (Reader, error) {
	switch src.Type {
	case SourceTypeSQLite:
		return NewSQLiteReader(src)
	case SourceTypeJSON:
		return NewJSONReader(src)
	}
	return nil, fmt.Errorf("unrecognized source type: %s", src.Type)
}

// LoadProject discovers the freshest source under projectRoot and loads its
// tasks.
func LoadProject(projectRoot string) ([]model.Task, DataSource, error) {
	sources, err := Discover(projectRoot)
	if err != nil {
		return nil, DataSource{}, err
	}
	src := sources[0]
	reader, err := Open(src)
	if err != nil {
		return nil, src, err
	}
	defer reader.Close()

	tasks, err := reader.LoadTasks()
	if err != nil {
		return nil, src, err
	}
	return tasks, src, nil
}
