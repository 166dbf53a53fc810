package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Local stores feeds as files under a root directory. Used for development
// runs and in tests.
type Local struct {
	root string
}

var _ Store = (*Local)(nil)

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) ReadFeed(ctx context.Context, key string) ([]byte, error) {
	path := filepath.Join(l.root, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Local) WriteFeed(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(l.root, key)
	slog.Info("Writing feed to local storage", "path", path, "bytes", len(data))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (l *Local) ReadLines(ctx context.Context, key string) ([]string, error) {
	path := filepath.Join(l.root, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("List file not found, returning empty list", "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return splitLines(string(data)), nil
}

func (l *Local) ListFeeds(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", l.root, err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		keys = append(keys, entry.Name())
	}
	return keys, nil
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
