package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/cfg"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler runs feed updates on an interval through a small worker pool.
// The default single worker is what keeps the single-writer assumption
// honest: no two runs ever write the same destination feed concurrently.
type Scheduler struct {
	configs  map[string]*config.FeedConfig
	fetcher  *feed.Fetcher
	filterer *feed.Filterer
	rewriter *feed.Rewriter
	merger   *feed.Merger
	store    storage.Store
	scorer   feed.Scorer

	interval    time.Duration
	workerCount int

	mu      sync.Mutex
	nextRun map[string]time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(configs map[string]*config.FeedConfig, fetcher *feed.Fetcher, filterer *feed.Filterer,
	rewriter *feed.Rewriter, merger *feed.Merger, store storage.Store, scorer feed.Scorer) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	appCfg := cfg.Get()

	return &Scheduler{
		configs:     configs,
		fetcher:     fetcher,
		filterer:    filterer,
		rewriter:    rewriter,
		merger:      merger,
		store:       store,
		scorer:      scorer,
		interval:    time.Duration(appCfg.SchedulerInterval) * time.Second,
		workerCount: appCfg.WorkerCount,
		nextRun:     make(map[string]time.Time),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	// Checked first so a stopped scheduler always refuses work instead of
	// racing the queue send.
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("scheduler stopped: %w", s.ctx.Err())
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// NewTaskFor builds the update task matching a feed's configured kind.
func (s *Scheduler) NewTaskFor(feedConfig *config.FeedConfig) TaskInterface {
	if feedConfig.Kind == config.KindProviderInput {
		return NewUpdateInputFeedTask(feedConfig, s.fetcher, s.filterer, s.rewriter, s.merger, s.store)
	}
	return NewUpdatePodcastFeedTask(feedConfig, s.fetcher, s.filterer, s.rewriter, s.merger, s.store, s.scorer)
}

func (s *Scheduler) enqueueDueTasks() {
	now := time.Now()

	for name, feedConfig := range s.configs {
		if !feedConfig.Settings.Enabled {
			slog.Debug("Feed disabled, skipping", "feed", name)
			continue
		}

		s.mu.Lock()
		next, seen := s.nextRun[name]
		due := !seen || !next.After(now)
		if due {
			s.nextRun[name] = now.Add(feedConfig.Settings.GetRefreshInterval())
		}
		s.mu.Unlock()

		if !due {
			slog.Debug("Feed not due for refresh yet", "feed", name, "next_run", next)
			continue
		}

		if err := s.EnqueueTask(s.NewTaskFor(feedConfig)); err != nil {
			slog.Warn("Failed to enqueue update task", "feed", name, "error", err)
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.Type()),
		"id", task.ID(), "feed", task.FeedName(), "retry_count", task.RetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.Type()), "id", task.ID(),
			"retry_count", task.RetryCount(), "max_retries", task.MaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := time.Duration(1<<uint(task.RetryCount()-1)) * time.Second
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.Type()), "feed", task.FeedName(),
		"retry_count", task.RetryCount(), "max_retries", task.MaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.Type()), "id", task.ID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.Type()),
					"id", task.ID(), "retry_count", task.RetryCount(), "error", retryErr)
			}
		}
	}()
}
