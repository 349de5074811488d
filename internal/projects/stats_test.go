package projects

import (
	"testing"
	"time"

	"github.com/hugh/taskflow/internal/database/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	assert.Equal(t, Stats{}, stats)
}

func TestComputeStats_Buckets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tasks := []models.Task{
		{Status: models.TaskStatusTodo},
		{Status: models.TaskStatusTodo, DueDate: &past},
		{Status: models.TaskStatusInProgress, DueDate: &future},
		{Status: models.TaskStatusReview},
		{Status: models.TaskStatusDone, DueDate: &past},
	}

	stats := ComputeStats(tasks, now)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Todo)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Review)
	assert.Equal(t, 1, stats.Done)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, stats.Total, stats.Todo+stats.InProgress+stats.Review+stats.Done)
}

func TestComputeStats_DueExactlyNowNotOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Status: models.TaskStatusTodo, DueDate: &now},
	}

	stats := ComputeStats(tasks, now)
	assert.Equal(t, 0, stats.Overdue)
}
