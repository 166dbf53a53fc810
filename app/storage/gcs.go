package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/api/iterator"
)

// GCS stores feeds as objects in a Google Cloud Storage bucket. Reads and
// writes retry transient failures with backoff; a missing object is
// classified up front and never retried.
type GCS struct {
	client *gcs.Client
	bucket string
}

var _ Store = (*GCS)(nil)

func NewGCS(client *gcs.Client, bucket string) *GCS {
	return &GCS{client: client, bucket: bucket}
}

func (g *GCS) ReadFeed(ctx context.Context, key string) ([]byte, error) {
	data, err := g.read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read gs://%s/%s: %w", g.bucket, key, err)
	}
	return data, nil
}

func (g *GCS) WriteFeed(ctx context.Context, key string, data []byte) error {
	slog.Info("Writing feed to bucket", "bucket", g.bucket, "key", key, "bytes", len(data))

	err := retry.Do(
		func() error {
			w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
			if _, writeErr := w.Write(data); writeErr != nil {
				if closeErr := w.Close(); closeErr != nil {
					slog.Warn("Failed to close writer after error", "key", key, "error", closeErr)
				}
				return writeErr
			}
			return w.Close()
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			slog.Info("Retrying feed write", "attempt", n, "key", key, "error", retryErr)
		}),
	)
	if err != nil {
		return fmt.Errorf("write gs://%s/%s: %w", g.bucket, key, err)
	}
	return nil
}

func (g *GCS) ReadLines(ctx context.Context, key string) ([]string, error) {
	data, err := g.read(ctx, key)
	if err != nil {
		if IsNotFound(err) {
			slog.Debug("List object not found, returning empty list", "bucket", g.bucket, "key", key)
			return nil, nil
		}
		return nil, fmt.Errorf("read gs://%s/%s: %w", g.bucket, key, err)
	}
	return splitLines(string(data)), nil
}

func (g *GCS) ListFeeds(ctx context.Context) ([]string, error) {
	var keys []string

	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list gs://%s: %w", g.bucket, err)
		}
		if strings.HasSuffix(attrs.Name, ".xml") {
			keys = append(keys, attrs.Name)
		}
	}

	return keys, nil
}

func (g *GCS) read(ctx context.Context, key string) ([]byte, error) {
	var data []byte

	err := retry.Do(
		func() error {
			r, openErr := g.client.Bucket(g.bucket).Object(key).NewReader(ctx)
			if openErr != nil {
				if errors.Is(openErr, gcs.ErrObjectNotExist) {
					return retry.Unrecoverable(ErrNotFound)
				}
				return openErr
			}
			defer func() {
				if closeErr := r.Close(); closeErr != nil {
					slog.Warn("Failed to close storage reader", "key", key, "error", closeErr)
				}
			}()

			var readErr error
			data, readErr = io.ReadAll(r)
			return readErr
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(30*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			slog.Info("Retrying feed read", "attempt", n, "key", key, "error", retryErr)
		}),
	)
	if err != nil {
		return nil, err
	}

	return data, nil
}
