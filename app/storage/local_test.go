package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalReadWriteFeed(t *testing.T) {
	store := NewLocal(t.TempDir())
	ctx := context.Background()

	data := []byte("<rss></rss>")
	if err := store.WriteFeed(ctx, "test.xml", data); err != nil {
		t.Fatal(err)
	}

	got, err := store.ReadFeed(ctx, "test.xml")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Errorf("Read back %q, want %q", got, data)
	}
}

func TestLocalReadFeedNotFound(t *testing.T) {
	store := NewLocal(t.TempDir())

	_, err := store.ReadFeed(context.Background(), "absent.xml")
	if err == nil {
		t.Fatal("Expected an error for a missing feed")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected ErrNotFound classification, got %v", err)
	}
}

func TestLocalReadLines(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	ctx := context.Background()

	content := "Bad Actor\r\n\nAnother Author \n  \n"
	if err := os.WriteFile(filepath.Join(dir, "removed_authors.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lines, err := store.ReadLines(ctx, "removed_authors.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "Bad Actor" || lines[1] != "Another Author" {
		t.Errorf("Unexpected lines: %q", lines)
	}
}

func TestLocalReadLinesMissingFile(t *testing.T) {
	store := NewLocal(t.TempDir())

	lines, err := store.ReadLines(context.Background(), "absent.txt")
	if err != nil {
		t.Fatalf("A missing list file should not be an error, got %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected an empty list, got %q", lines)
	}
}

func TestLocalListFeeds(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir)
	ctx := context.Background()

	for _, name := range []string{"a.xml", "b.xml", "removed_authors.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.xml"), 0o755); err != nil {
		t.Fatal(err)
	}

	keys, err := store.ListFeeds(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if len(keys) != 2 || keys[0] != "a.xml" || keys[1] != "b.xml" {
		t.Errorf("Unexpected feed keys: %q", keys)
	}
}
