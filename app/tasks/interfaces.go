package tasks

import "github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"

// TaskSchedulerInterface is the scheduling surface the rest of the
// application sees: start and stop the worker pool, enqueue ad hoc tasks
// (the HTTP run triggers use this), and build the right task for a feed.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	NewTaskFor(feedConfig *config.FeedConfig) TaskInterface
}
