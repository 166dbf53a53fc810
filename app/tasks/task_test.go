package tasks

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeUpdatePodcastFeed, "af-daily")

	if task.ID() == "" {
		t.Error("Task should get an id")
	}
	if task.Type() != TaskTypeUpdatePodcastFeed {
		t.Errorf("Unexpected type: %q", task.Type())
	}
	if task.FeedName() != "af-daily" {
		t.Errorf("Unexpected feed name: %q", task.FeedName())
	}
	if task.RetryCount() != 0 {
		t.Errorf("Fresh task should have no retries, got %d", task.RetryCount())
	}
	if task.MaxRetries() != DefaultMaxRetries {
		t.Errorf("Unexpected max retries: %d", task.MaxRetries())
	}
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeUpdateInputFeed, "input-af")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Task should be retryable at count %d", task.RetryCount())
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Errorf("Task should be exhausted at count %d", task.RetryCount())
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeCheckFeeds, "all")

	if task.Duration() != 0 {
		t.Error("Unstarted task should report zero duration")
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)

	if task.Duration() <= 0 {
		t.Error("Started task should report a positive duration")
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	a := NewTask(TaskTypeCheckFeeds, "all")
	b := NewTask(TaskTypeCheckFeeds, "all")

	if a.ID() == b.ID() {
		t.Errorf("Two tasks got the same id: %q", a.ID())
	}
}
