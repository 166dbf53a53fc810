package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
)

// ChannelMeta is the channel-level metadata a target feed advertises.
// It is re-applied on every merge so a configuration change, say new
// artwork, reaches the feed without waiting for new content.
type ChannelMeta struct {
	Title       string
	Description string
	Author      string
	Email       string
	ImageURL    string
}

// Merger is the single state transition that grows a persisted feed. It
// loads the destination document, appends the candidates that are not
// already present by title similarity, refreshes the channel metadata and
// writes the whole document back in one overwrite.
//
// Running the same batch twice leaves the destination unchanged after the
// second run: every candidate is recognized as a duplicate and the
// metadata rewrite is deterministic. Scheduled jobs rely on this to be
// safe against double invocation.
type Merger struct {
	store     storage.Store
	parser    *Parser
	generator *Generator
}

func NewMerger(store storage.Store) *Merger {
	return &Merger{
		store:     store,
		parser:    NewParser(),
		generator: NewGenerator(),
	}
}

// Merge appends the candidate items to the feed stored at key and returns
// the titles actually added, in order. Candidates whose title matches an
// existing item are skipped silently; that is the normal idempotent path,
// not an error.
func (m *Merger) Merge(ctx context.Context, key string, candidates []*Item, meta ChannelMeta) ([]string, error) {
	dest, err := m.load(ctx, key)
	if err != nil {
		return nil, err
	}

	existing := dest.Titles()
	var appended []string
	for _, item := range candidates {
		if IsDuplicate(item.Title, existing) {
			slog.Debug("Skipping item already in feed", "title", item.Title)
			continue
		}
		dest.Items = append(dest.Items, item)
		existing = append(existing, item.Title)
		appended = append(appended, item.Title)
		slog.Info("New item found", "feed", key, "title", item.Title)
	}

	m.applyMeta(dest, meta)

	// Serialize fully before touching storage so a failed write leaves the
	// previous document intact.
	data := m.generator.Run(dest)
	if err := m.store.WriteFeed(ctx, key, data); err != nil {
		return nil, fmt.Errorf("merge into %s: %w", key, err)
	}

	return appended, nil
}

// Titles returns the item titles of the feed stored at key.
func (m *Merger) Titles(ctx context.Context, key string) ([]string, error) {
	doc, err := m.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return doc.Titles(), nil
}

// KnownTitles gathers item titles across the given feeds. A feed that
// cannot be read contributes nothing: treating an already-seen item as new
// costs a recoverable duplicate, which is cheaper than aborting the run.
func (m *Merger) KnownTitles(ctx context.Context, keys []string) []string {
	var titles []string
	for _, key := range keys {
		feedTitles, err := m.Titles(ctx, key)
		if err != nil {
			slog.Warn("Skipping unreadable relevant feed", "feed", key, "error", err)
			continue
		}
		titles = append(titles, feedTitles...)
	}
	return titles
}

// load reads and parses the destination feed. Only a clearly-classified
// missing object maps to the empty template; any other failure aborts the
// merge so an unreadable feed is never overwritten.
func (m *Merger) load(ctx context.Context, key string) (*Document, error) {
	data, err := m.store.ReadFeed(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			slog.Info("No feed published yet, starting from empty template", "feed", key)
			return Empty(), nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	doc, err := m.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return doc, nil
}

func (m *Merger) applyMeta(doc *Document, meta ChannelMeta) {
	doc.Title = meta.Title
	doc.Description = meta.Description
	doc.Author = meta.Author
	doc.Email = meta.Email
	doc.ImageURL = meta.ImageURL
	doc.ITunesSummary = meta.Description
	doc.ITunesImageURL = meta.ImageURL
	doc.ITunesAuthor = meta.Author

	for _, item := range doc.Items {
		item.ITunesImageURL = meta.ImageURL
	}
}
