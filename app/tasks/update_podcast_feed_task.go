package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
)

// UpdatePodcastFeedTask promotes items from the text-to-speech provider's
// output feed into one persisted per-audience podcast feed. One execution
// is one complete run: fetch, filter, rank, merge, persist.
type UpdatePodcastFeedTask struct {
	Task
	FeedConfig *config.FeedConfig
	fetcher    *feed.Fetcher
	filterer   *feed.Filterer
	rewriter   *feed.Rewriter
	merger     *feed.Merger
	store      storage.Store
	scorer     feed.Scorer
}

func NewUpdatePodcastFeedTask(feedConfig *config.FeedConfig, fetcher *feed.Fetcher, filterer *feed.Filterer,
	rewriter *feed.Rewriter, merger *feed.Merger, store storage.Store, scorer feed.Scorer) *UpdatePodcastFeedTask {
	return &UpdatePodcastFeedTask{
		Task:       NewTask(TaskTypeUpdatePodcastFeed, feedConfig.Name),
		FeedConfig: feedConfig,
		fetcher:    fetcher,
		filterer:   filterer,
		rewriter:   rewriter,
		merger:     merger,
		store:      store,
		scorer:     scorer,
	}
}

func (t *UpdatePodcastFeedTask) Execute(ctx context.Context) error {
	cfg := t.FeedConfig

	ctx, cancel := context.WithTimeout(ctx, cfg.Settings.GetTimeout())
	defer cancel()

	doc, err := t.fetcher.Fetch(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("fetch source feed: %w", err)
	}
	total := len(doc.Items)

	// Removed authors are re-read on every run so operator edits take
	// effect without a restart. This filter runs before the prefix match
	// so a removed author's post never counts toward the forum.
	removedAuthors, err := t.readRemovedAuthors(ctx)
	if err != nil {
		return err
	}
	byAuthor := t.filterer.RemoveByAuthor(doc, removedAuthors)
	byPrefix := t.filterer.KeepTitlePrefix(doc, cfg.Filters.TitlePrefix)

	byPeriod := 0
	if window, ok := cfg.Window(); ok {
		byPeriod, err = t.filterer.KeepWithinPeriod(doc, window, time.Now(), cfg.DateLayout())
		if err != nil {
			return fmt.Errorf("search period filter: %w", err)
		}
	}

	// Karma is fetched only for items that survived every exclusion, which
	// bounds the number of scrape calls per run.
	byKarma := 0
	if cfg.Filters.TopPostOnly {
		byKarma, err = t.filterer.SelectTopPost(ctx, doc, t.scorer)
		if err != nil {
			return fmt.Errorf("top post selection: %w", err)
		}
	}

	t.filterer.AppendGUIDSuffix(doc, cfg.Filters.GUIDSuffix)
	t.rewriter.AddSourceLinks(doc)

	appended, err := t.merger.Merge(ctx, cfg.RSSFilename, doc.Items, cfg.Meta())
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "UpdatePodcastFeed",
		"feed", cfg.Name,
		"duration", t.Duration(),
		"total", total,
		"removed_author", byAuthor,
		"removed_prefix", byPrefix,
		"removed_period", byPeriod,
		"removed_karma", byKarma,
		"new", len(appended))
	for _, title := range appended {
		slog.Info("Published new episode", "feed", cfg.Name, "title", title)
	}

	return nil
}

func (t *UpdatePodcastFeedTask) readRemovedAuthors(ctx context.Context) ([]string, error) {
	if t.FeedConfig.Filters.RemovedAuthorsFile == "" {
		return nil, nil
	}
	authors, err := t.store.ReadLines(ctx, t.FeedConfig.Filters.RemovedAuthorsFile)
	if err != nil {
		return nil, fmt.Errorf("read removed authors: %w", err)
	}
	return authors, nil
}
