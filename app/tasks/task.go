package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type TaskType string

const (
	TaskTypeUpdatePodcastFeed TaskType = "update_podcast_feed"
	TaskTypeUpdateInputFeed   TaskType = "update_input_feed"
	TaskTypeCheckFeeds        TaskType = "check_feeds"
)

const DefaultMaxRetries = 3

type TaskInterface interface {
	Execute(ctx context.Context) error
	ID() string
	Type() TaskType
	FeedName() string
	RetryCount() int
	MaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	Duration() time.Duration
}

type Task struct {
	id         string
	taskType   TaskType
	feedName   string
	retryCount int
	maxRetries int
	startedAt  *time.Time
}

func NewTask(taskType TaskType, feedName string) Task {
	return Task{
		id:         fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000)),
		taskType:   taskType,
		feedName:   feedName,
		maxRetries: DefaultMaxRetries,
	}
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) Type() TaskType {
	return t.taskType
}

func (t *Task) FeedName() string {
	return t.feedName
}

func (t *Task) RetryCount() int {
	return t.retryCount
}

func (t *Task) MaxRetries() int {
	return t.maxRetries
}

func (t *Task) IncrementRetryCount() {
	t.retryCount++
}

func (t *Task) CanRetry() bool {
	return t.retryCount < t.maxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.startedAt = &now
}

func (t *Task) Duration() time.Duration {
	if t.startedAt == nil {
		return 0
	}
	return time.Since(*t.startedAt)
}
