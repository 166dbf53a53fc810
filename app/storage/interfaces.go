// Package storage persists RSS documents and auxiliary text lists, either
// on the local filesystem or in a Google Cloud Storage bucket behind the
// same narrow contract.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound reports that the requested object does not exist. The merge
// engine maps it to "no feed published yet"; every other read error aborts
// the run so a feed that failed to load is never silently overwritten.
var ErrNotFound = errors.New("storage: object not found")

// Store is the persistence contract consumed by the feed engine.
type Store interface {
	// ReadFeed returns the raw bytes of a persisted RSS document.
	// Fails with ErrNotFound when the key is absent.
	ReadFeed(ctx context.Context, key string) ([]byte, error)

	// WriteFeed overwrites the document at key with data in full.
	WriteFeed(ctx context.Context, key string, data []byte) error

	// ReadLines returns the non-empty lines of a text file, used for the
	// removed-authors list. A missing file yields an empty list, not an
	// error.
	ReadLines(ctx context.Context, key string) ([]string, error)

	// ListFeeds returns the keys of all persisted RSS documents.
	ListFeeds(ctx context.Context) ([]string, error)
}

// IsNotFound reports whether err classifies as a missing object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
