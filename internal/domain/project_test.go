package domain

import (
	"testing"
	"time"
)

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tasks := []Task{
		{Status: TaskDone, DueDate: &past},
		{Status: TaskInProgress, DueDate: &past},
		{Status: TaskTodo, DueDate: &future},
		{Status: TaskBacklog},
	}

	got := ComputeStats(tasks, now)
	if got.TotalTasks != 4 {
		t.Fatalf("TotalTasks = %d; want 4", got.TotalTasks)
	}
	if got.CompletedTasks != 1 {
		t.Fatalf("CompletedTasks = %d; want 1", got.CompletedTasks)
	}
	// a DONE task past its due date is not overdue
	if got.OverdueTasks != 1 {
		t.Fatalf("OverdueTasks = %d; want 1", got.OverdueTasks)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	got := ComputeStats(nil, time.Now())
	if got.TotalTasks != 0 || got.CompletedTasks != 0 || got.OverdueTasks != 0 {
		t.Fatalf("empty stats = %+v; want zeroes", got)
	}
}

func TestTaskStatusValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskBacklog, TaskTodo, TaskInProgress, TaskReview, TaskDone} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if TaskStatus("SHIPPED").Valid() {
		t.Fatal("SHIPPED should not be valid")
	}
}
