package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
)

// failingTask always fails, so the scheduler keeps scheduling retries.
type failingTask struct {
	Task
}

func (t *failingTask) Execute(ctx context.Context) error {
	return errors.New("boom")
}

func newTestScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configs:     map[string]*config.FeedConfig{},
		interval:    time.Hour,
		workerCount: 1,
		nextRun:     make(map[string]time.Time),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 4),
	}
}

func TestSchedulerStopWithPendingRetry(t *testing.T) {
	s := newTestScheduler()
	s.Start()

	task := &failingTask{Task: NewTask(TaskTypeCheckFeeds, "all")}
	if err := s.EnqueueTask(task); err != nil {
		t.Fatal(err)
	}

	// Let the worker run the task and schedule its retry.
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return while a retry was pending")
	}
}

func TestSchedulerEnqueueAfterStop(t *testing.T) {
	s := newTestScheduler()
	s.Start()
	s.Stop()

	task := &failingTask{Task: NewTask(TaskTypeCheckFeeds, "all")}
	if err := s.EnqueueTask(task); err == nil {
		t.Error("A stopped scheduler should refuse new tasks")
	}
}

func TestSchedulerQueueFull(t *testing.T) {
	s := newTestScheduler()
	// Not started, so nothing drains the queue.

	for i := 0; i < cap(s.taskQueue); i++ {
		if err := s.EnqueueTask(&failingTask{Task: NewTask(TaskTypeCheckFeeds, "all")}); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.EnqueueTask(&failingTask{Task: NewTask(TaskTypeCheckFeeds, "all")}); err == nil {
		t.Error("Expected an error once the queue is full")
	}

	s.cancel()
}
