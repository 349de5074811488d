package projects

import (
	"time"

	"github.com/hugh/taskflow/internal/database/models"
)

// Stats mirrors the board's progress view. Total always equals the sum
// of the four status buckets; overdue counts tasks with a due date
// strictly in the past that are not done.
type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Review     int `json:"review"`
	Done       int `json:"done"`
	Overdue    int `json:"overdue"`
}

// ComputeStats folds a task collection into counts. Pure; now is
// injected so overdue boundaries are testable.
func ComputeStats(tasks []models.Task, now time.Time) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusTodo:
			s.Todo++
		case models.TaskStatusInProgress:
			s.InProgress++
		case models.TaskStatusReview:
			s.Review++
		case models.TaskStatusDone:
			s.Done++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != models.TaskStatusDone {
			s.Overdue++
		}
	}
	return s
}
