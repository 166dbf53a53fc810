package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/config"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
)

// UpdateInputFeedTask builds the deduplicated text feed the text-to-speech
// provider reads from. It pulls new posts from one forum, drops anything
// already published through any of the relevant feeds, rewrites each post
// for narration and merges the survivors into the persisted input feed.
type UpdateInputFeedTask struct {
	Task
	FeedConfig *config.FeedConfig
	fetcher    *feed.Fetcher
	filterer   *feed.Filterer
	rewriter   *feed.Rewriter
	merger     *feed.Merger
	store      storage.Store
}

func NewUpdateInputFeedTask(feedConfig *config.FeedConfig, fetcher *feed.Fetcher, filterer *feed.Filterer,
	rewriter *feed.Rewriter, merger *feed.Merger, store storage.Store) *UpdateInputFeedTask {
	return &UpdateInputFeedTask{
		Task:       NewTask(TaskTypeUpdateInputFeed, feedConfig.Name),
		FeedConfig: feedConfig,
		fetcher:    fetcher,
		filterer:   filterer,
		rewriter:   rewriter,
		merger:     merger,
		store:      store,
	}
}

func (t *UpdateInputFeedTask) Execute(ctx context.Context) error {
	cfg := t.FeedConfig

	ctx, cancel := context.WithTimeout(ctx, cfg.Settings.GetTimeout())
	defer cancel()

	doc, err := t.fetcher.Fetch(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("fetch source feed: %w", err)
	}
	total := len(doc.Items)

	// The forum only exposes authorship as dc:creator; the author element
	// it feeds must exist before the removed-authors filter can match.
	t.rewriter.PopulateAuthors(doc)

	byAuthor := 0
	if cfg.Filters.RemovedAuthorsFile != "" {
		removedAuthors, err := t.store.ReadLines(ctx, cfg.Filters.RemovedAuthorsFile)
		if err != nil {
			return fmt.Errorf("read removed authors: %w", err)
		}
		byAuthor = t.filterer.RemoveByAuthor(doc, removedAuthors)
	}

	short := t.filterer.RemoveShortDescriptions(doc, cfg.Filters.MinChars)

	noParagraphs, err := t.filterer.RequireParagraphs(doc)
	if err != nil {
		return fmt.Errorf("paragraph filter: %w", err)
	}

	// Rewriting runs before title decoration so the narrated intro reads
	// the post's own title, and decoration runs before the cross-feed
	// check so candidate titles compare against the decorated titles the
	// published feeds actually carry.
	if err := t.rewriter.RewriteDescriptions(doc, cfg.DateLayout()); err != nil {
		return fmt.Errorf("rewrite descriptions: %w", err)
	}
	t.rewriter.PrefixTitles(doc)
	t.rewriter.AppendAuthorToTitles(doc)

	known := t.merger.KnownTitles(ctx, cfg.Filters.RelevantFeeds)
	duplicates := t.filterer.RemoveKnownTitles(doc, known)

	appended, err := t.merger.Merge(ctx, cfg.RSSFilename, doc.Items, cfg.Meta())
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "UpdateInputFeed",
		"feed", cfg.Name,
		"duration", t.Duration(),
		"total", total,
		"removed_author", byAuthor,
		"removed_short", short,
		"removed_no_paragraphs", noParagraphs,
		"removed_duplicate", duplicates,
		"new", len(appended))
	for _, title := range appended {
		slog.Info("Queued new post for narration", "feed", cfg.Name, "title", title)
	}

	return nil
}
