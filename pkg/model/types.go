package model

import (
	"fmt"
	"time"
)

// Task represents a single row in the chart: a schedulable unit of work
// with optional children (via ParentID) and optional resource periods.
type Task struct {
	ID           string        `json:"id" yaml:"id"`
	Title        string        `json:"title" yaml:"title"`
	Notes        string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	ParentID     string        `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Status       Status        `json:"status" yaml:"status"`
	TaskType     TaskType      `json:"task_type" yaml:"task_type"`
	Progress     float64       `json:"progress,omitempty" yaml:"progress,omitempty"`
	Assignee     string        `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Start        time.Time     `json:"start,omitzero" yaml:"start,omitempty"`
	End          time.Time     `json:"end,omitzero" yaml:"end,omitempty"`
	Due          *time.Time    `json:"due,omitempty" yaml:"due,omitempty"`
	Periods      []*Period     `json:"periods,omitempty" yaml:"periods,omitempty"`
	Dependencies []*Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	CreatedAt    time.Time     `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Clone creates a deep copy of the task
func (t Task) Clone() Task {
	clone := t

	if t.Due != nil {
		v := *t.Due
		clone.Due = &v
	}

	if t.Periods != nil {
		clone.Periods = make([]*Period, len(t.Periods))
		for idx, p := range t.Periods {
			if p != nil {
				v := *p
				clone.Periods[idx] = &v
			}
		}
	}

	if t.Dependencies != nil {
		clone.Dependencies = make([]*Dependency, len(t.Dependencies))
		for idx, dep := range t.Dependencies {
			if dep != nil {
				v := *dep
				clone.Dependencies[idx] = &v
			}
		}
	}

	return clone
}

// Validate checks if the task data is logically valid
func (t *Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if t.Title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if !t.TaskType.IsValid() {
		return fmt.Errorf("invalid task type: %s", t.TaskType)
	}
	if !t.End.IsZero() && !t.Start.IsZero() && t.End.Before(t.Start) {
		return fmt.Errorf("end (%v) cannot be before start (%v)", t.End, t.Start)
	}
	if t.Progress < 0 || t.Progress > 1 {
		return fmt.Errorf("progress (%v) must be between 0 and 1", t.Progress)
	}
	for _, p := range t.Periods {
		if p == nil {
			continue
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("period on %s: %w", t.ID, err)
		}
	}
	return nil
}

// Duration returns the scheduled span of the task, or 0 when either
// date is absent.
func (t *Task) Duration() time.Duration {
	if t.Start.IsZero() || t.End.IsZero() {
		return 0
	}
	return t.End.Sub(t.Start)
}

// IsMilestone reports whether the task renders as a point rather than a bar.
func (t *Task) IsMilestone() bool {
	return t.TaskType == TypeMilestone
}

// Status represents the current state of a task
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// IsValid returns true if the status is a recognized value
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusBlocked, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// IsClosed returns true if the status represents finished work
func (s Status) IsClosed() bool {
	return s == StatusDone || s == StatusCancelled
}

// TaskType categorizes the kind of row
type TaskType string

const (
	TypeProject   TaskType = "project"
	TypePhase     TaskType = "phase"
	TypeTask      TaskType = "task"
	TypeMilestone TaskType = "milestone"
)

// IsValid returns true if the task type is non-empty.
// Any non-empty type is accepted so external data sources can carry their own
// vocabulary; unrecognized types fall back to default styling in the UI.
func (t TaskType) IsValid() bool {
	return t != ""
}

// IsKnownType returns true if the task type is one of the standard gv types.
// This is used for sorting and icon selection, not validation.
func (t TaskType) IsKnownType() bool {
	switch t {
	case TypeProject, TypePhase, TypeTask, TypeMilestone:
		return true
	}
	return false
}

// Period is a resource assignment interval attached to a task in resource
// mode. IDs are expected to be unique within one linearization pass of the
// viewport controller; the controller applies last-write-wins on duplicates.
type Period struct {
	ID    string    `json:"id" yaml:"id"`
	Label string    `json:"label,omitempty" yaml:"label,omitempty"`
	Start time.Time `json:"start,omitzero" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitzero" yaml:"end,omitempty"`
}

// Validate checks if the period data is logically valid
func (p *Period) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("period ID cannot be empty")
	}
	if !p.End.IsZero() && !p.Start.IsZero() && p.End.Before(p.Start) {
		return fmt.Errorf("period end (%v) cannot be before start (%v)", p.End, p.Start)
	}
	return nil
}

// Dependency represents a scheduling relationship between tasks
type Dependency struct {
	TaskID      string         `json:"task_id" yaml:"task_id"`
	DependsOnID string         `json:"depends_on_id" yaml:"depends_on_id"`
	Type        DependencyType `json:"type" yaml:"type"`
}

// DependencyType categorizes the relationship
type DependencyType string

const (
	DepFinishStart DependencyType = "finish-start"
	DepStartStart  DependencyType = "start-start"
	DepParentChild DependencyType = "parent-child"
)

// IsValid returns true if the dependency type is a recognized value
func (d DependencyType) IsValid() bool {
	switch d {
	case DepFinishStart, DepStartStart, DepParentChild:
		return true
	}
	return false
}

// IsScheduling returns true if this dependency constrains scheduling order.
// An empty type is treated as finish-start for data that predates typed
// dependencies.
func (d DependencyType) IsScheduling() bool {
	return d == "" || d == DepFinishStart || d == DepStartStart
}
