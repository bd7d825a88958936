package datasource

import (
	"log"

	"github.com/vanderheijden86/ganttview/pkg/model"
)

// filterValid drops tasks that fail validation, logging each one. A single
// malformed row must not take the whole chart down.
func filterValid(tasks []model.Task) []model.Task {
	valid := tasks[:0]
	for i := range tasks {
		if err := tasks[i].Validate(); err != nil {
			log.Printf("warning: skipping task %q: %v", tasks[i].ID, err)
			continue
		}
		valid = append(valid, tasks[i])
	}
	return valid
}
