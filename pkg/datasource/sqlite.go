package datasource

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// SQLiteReader provides read access to a gv SQLite database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	// Open in read-only mode with various pragmas for read performance
	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000&_journal_mode=WAL", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	// Set pragmas for read performance
	pragmas := []string{
		"PRAGMA cache_size = -64000",   // 64MB cache
		"PRAGMA mmap_size = 268435456", // 256MB mmap
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		_, _ = db.Exec(pragma) // non-fatal
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadTasks reads all non-tombstone tasks from the database
func (r *SQLiteReader) LoadTasks() ([]model.Task, error) {
	query := `
		SELECT
			id, title, notes, parent_id, status, task_type,
			progress, assignee, start_date, end_date, due_date,
			created_at, updated_at
		FROM tasks
		WHERE (tombstone IS NULL OR tombstone = 0)
		ORDER BY start_date, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		// Older databases lack some columns
		return r.loadTasksSimple()
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var notes, parentID, assignee, taskType sql.NullString
		var progress sql.NullFloat64
		var start, end, due, createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&task.ID, &task.Title, &notes, &parentID, &task.Status, &taskType,
			&progress, &assignee, &start, &end, &due,
			&createdAt, &updatedAt,
		)
		if err != nil {
			continue
		}

		if notes.Valid {
			task.Notes = notes.String
		}
		if parentID.Valid {
			task.ParentID = parentID.String
		}
		task.TaskType = model.TaskType(taskType.String)
		if progress.Valid {
			task.Progress = progress.Float64
		}
		if assignee.Valid {
			task.Assignee = assignee.String
		}
		if start.Valid {
			task.Start = start.Time
		}
		if end.Valid {
			task.End = end.Time
		}
		if due.Valid {
			t := due.Time
			task.Due = &t
		}
		if createdAt.Valid {
			task.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			task.UpdatedAt = updatedAt.Time
		}

		task.Periods = r.loadPeriods(task.ID)
		task.Dependencies = r.loadDependencies(task.ID)

		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return filterValid(tasks), nil
}

// loadTasksSimple is a fallback for databases with fewer columns
func (r *SQLiteReader) loadTasksSimple() ([]model.Task, error) {
	query := `
		SELECT id, title, parent_id, status, task_type, start_date, end_date
		FROM tasks
		WHERE (tombstone IS NULL OR tombstone = 0)
		ORDER BY start_date, id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var task model.Task
		var parentID, taskType sql.NullString
		var start, end sql.NullTime

		err := rows.Scan(&task.ID, &task.Title, &parentID, &task.Status, &taskType, &start, &end)
		if err != nil {
			continue
		}

		if parentID.Valid {
			task.ParentID = parentID.String
		}
		task.TaskType = model.TaskType(taskType.String)
		if start.Valid {
			task.Start = start.Time
		}
		if end.Valid {
			task.End = end.Time
		}

		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return filterValid(tasks), nil
}

// loadPeriods loads resource periods for a task
func (r *SQLiteReader) loadPeriods(taskID string) []*model.Period {
	query := `SELECT id, label, start_date, end_date FROM periods WHERE task_id = ? ORDER BY start_date`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var periods []*model.Period
	for rows.Next() {
		var p model.Period
		var label sql.NullString
		var start, end sql.NullTime
		if err := rows.Scan(&p.ID, &label, &start, &end); err != nil {
			continue
		}
		if label.Valid {
			p.Label = label.String
		}
		if start.Valid {
			p.Start = start.Time
		}
		if end.Valid {
			p.End = end.Time
		}
		periods = append(periods, &p)
	}
	// Note: rows.Err() not checked here since loadPeriods is a best-effort
	// helper that returns nil on any error.
	return periods
}

// loadDependencies loads dependencies for a task
func (r *SQLiteReader) loadDependencies(taskID string) []*model.Dependency {
	query := `SELECT depends_on_id, dependency_type FROM dependencies WHERE task_id = ?`
	rows, err := r.db.Query(query, taskID)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var deps []*model.Dependency
	for rows.Next() {
		var dep model.Dependency
		var depType sql.NullString
		if err := rows.Scan(&dep.DependsOnID, &depType); err != nil {
			continue
		}
		dep.TaskID = taskID
		dep.Type = model.DependencyType(depType.String)
		deps = append(deps, &dep)
	}
	// Note: rows.Err() not checked here since loadDependencies is a
	// best-effort helper that returns nil on any error.
	return deps
}

// CountTasks returns the count of non-tombstone tasks
func (r *SQLiteReader) CountTasks() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM tasks WHERE (tombstone IS NULL OR tombstone = 0)").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetLastModified returns the most recent update time
func (r *SQLiteReader) GetLastModified() (time.Time, error) {
	var updatedAt sql.NullTime
	err := r.db.QueryRow("SELECT MAX(updated_at) FROM tasks").Scan(&updatedAt)
	if err != nil {
		return time.Time{}, err
	}
	if !updatedAt.Valid {
		return time.Time{}, nil
	}
	return updatedAt.Time, nil
}
