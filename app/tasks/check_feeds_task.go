package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
)

// CheckFeedsTask verifies that every persisted feed still parses as RSS and
// carries a channel title. A feed that fails here would also fail for the
// podcast apps, so a check failure is worth an operator's attention.
type CheckFeedsTask struct {
	Task
	store  storage.Store
	parser *feed.Parser
}

func NewCheckFeedsTask(store storage.Store) *CheckFeedsTask {
	return &CheckFeedsTask{
		Task:   NewTask(TaskTypeCheckFeeds, "all"),
		store:  store,
		parser: feed.NewParser(),
	}
}

func (t *CheckFeedsTask) Execute(ctx context.Context) error {
	keys, err := t.store.ListFeeds(ctx)
	if err != nil {
		return fmt.Errorf("list feeds: %w", err)
	}

	var broken []string
	for _, key := range keys {
		if err := t.checkFeed(ctx, key); err != nil {
			slog.Error("Feed failed integrity check", "feed", key, "error", err)
			broken = append(broken, key)
			continue
		}
		slog.Debug("Feed passed integrity check", "feed", key)
	}

	slog.Info("Task completed",
		"type", "CheckFeeds",
		"duration", t.Duration(),
		"checked", len(keys),
		"broken", len(broken))

	if len(broken) > 0 {
		return fmt.Errorf("%d of %d feeds failed integrity check: %v", len(broken), len(keys), broken)
	}
	return nil
}

func (t *CheckFeedsTask) checkFeed(ctx context.Context, key string) error {
	data, err := t.store.ReadFeed(ctx, key)
	if err != nil {
		return err
	}

	doc, err := t.parser.Run(data)
	if err != nil {
		return err
	}
	if doc.Title == "" {
		return fmt.Errorf("channel has no title")
	}
	return nil
}
