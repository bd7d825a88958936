package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// GenerateMarkdown creates a markdown report of the schedule
func GenerateMarkdown(tasks []model.Task, title string) (string, error) {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	// Summary
	sb.WriteString("## Summary\n\n")

	open := 0
	blocked := 0
	closed := 0

	for _, task := range tasks {
		switch {
		case task.Status == model.StatusBlocked:
			blocked++
		case task.Status.IsClosed():
			closed++
		default:
			open++
		}
	}
	sb.WriteString(fmt.Sprintf("- **Total**: %d\n", len(tasks)))
	sb.WriteString(fmt.Sprintf("- **Open**: %d\n", open))
	sb.WriteString(fmt.Sprintf("- **Blocked**: %d\n", blocked))
	sb.WriteString(fmt.Sprintf("- **Closed**: %d\n\n", closed))

	sb.WriteString("## Table of Contents\n\n")
	for _, task := range tasks {
		link := fmt.Sprintf("#%s", strings.ToLower(task.ID)) // This is heuristic, markdown anchors vary by renderer
		sb.WriteString("- [" + task.ID + " " + task.Title + "](" + link + ") (" + string(task.Status) + ")\n")
	}
	sb.WriteString("\n---\n\n")

	// Dependency Graph (Mermaid)
	sb.WriteString("## Dependency Graph\n\n")
	sb.WriteString("```mermaid\ngraph TD\n")
	hasLinks := false
	for _, task := range tasks {
		// Sanitize title for mermaid
		safeTitle := strings.ReplaceAll(task.Title, "\"", "'")
		safeTitle = strings.ReplaceAll(safeTitle, "[]", "")
		safeTitle = strings.ReplaceAll(safeTitle, "(", "")
		safeTitle = strings.ReplaceAll(safeTitle, ")", "")
		if runewidth.StringWidth(safeTitle) > 30 {
			safeTitle = runewidth.Truncate(safeTitle, 30, "...")
		}

		// Define node
		sb.WriteString(fmt.Sprintf("    %s[\"%s <br/> %s\"]\n", task.ID, task.ID, safeTitle))

		for _, dep := range task.Dependencies {
			if dep == nil {
				continue
			}
			// Graph arrow: depends_on --> task
			linkStyle := "-.->"
			if dep.Type.IsScheduling() {
				linkStyle = "==>" // Bold arrow for scheduling constraints
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", dep.DependsOnID, linkStyle, task.ID))
			hasLinks = true
		}
	}
	if !hasLinks {
		sb.WriteString("    NoDependencies[No Dependencies]\n")
	}
	sb.WriteString("```\n\n")

	sb.WriteString("---\n\n")

	// Tasks
	for _, task := range tasks {
		sb.WriteString(fmt.Sprintf("## %s %s\n\n", task.ID, task.Title))

		// Metadata Table
		sb.WriteString("| Type | Status | Assignee | Start | End | Progress |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.0f%% |\n\n",
			task.TaskType, task.Status, task.Assignee,
			formatDate(task.Start), formatDate(task.End), task.Progress*100))

		if task.Notes != "" {
			sb.WriteString("### Notes\n\n")
			sb.WriteString(task.Notes + "\n\n")
		}

		if len(task.Dependencies) > 0 {
			sb.WriteString("### Dependencies\n\n")
			for _, dep := range task.Dependencies {
				if dep == nil {
					continue
				}
				sb.WriteString(fmt.Sprintf("- **%s**: %s\n", dep.Type, dep.DependsOnID))
			}
			sb.WriteString("\n")
		}

		if len(task.Periods) > 0 {
			sb.WriteString("### Resource Periods\n\n")
			for _, p := range task.Periods {
				if p == nil {
					continue
				}
				sb.WriteString(fmt.Sprintf("- **%s** (%s): %s to %s\n",
					p.ID, p.Label, formatDate(p.Start), formatDate(p.End)))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("---\n\n")
	}

	return sb.String(), nil
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(tasks []model.Task, title, filename string) error {
	// Sort tasks for the report: open work first, then by start date, then ID
	sort.Slice(tasks, func(i, j int) bool {
		iClosed := tasks[i].Status.IsClosed()
		jClosed := tasks[j].Status.IsClosed()
		if iClosed != jClosed {
			return !iClosed
		}
		if !tasks[i].Start.Equal(tasks[j].Start) {
			return tasks[i].Start.Before(tasks[j].Start)
		}
		return tasks[i].ID < tasks[j].ID
	})

	content, err := GenerateMarkdown(tasks, title)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(content), 0644)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
