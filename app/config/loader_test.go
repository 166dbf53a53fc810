package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadValidConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
kind: "podcast"
source: "https://audio.example.com/feed.xml"
rss_filename: "nonlinear-library-aggregated-AF-daily.xml"

channel:
  title: "The Nonlinear Library: Alignment Forum Daily"
  description: "The best post of the day, read aloud."
  author: "The Nonlinear Fund"
  email: "podcast@nonlinear.org"
  image_url: "https://example.com/artwork.png"

filters:
  title_prefix: "AF - "
  guid_suffix: "_AF-day"
  search_period: "one-day"
  top_post_only: true
  removed_authors_file: "removed_authors.txt"

settings:
  enabled: true
  refresh_interval: 21600
  timeout: 120
`
	writeConfig(t, tempDir, "af-daily.yaml", content)

	configs, err := NewLoader(tempDir).LoadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(configs) != 1 {
		t.Fatalf("Expected 1 config, got %d", len(configs))
	}

	cfg := configs["af-daily"]
	if cfg == nil {
		t.Fatal("Config should be keyed by its filename without extension")
	}

	if cfg.Kind != KindPodcast {
		t.Errorf("Unexpected kind: %q", cfg.Kind)
	}
	if cfg.Source != "https://audio.example.com/feed.xml" {
		t.Errorf("Unexpected source: %q", cfg.Source)
	}
	if cfg.RSSFilename != "nonlinear-library-aggregated-AF-daily.xml" {
		t.Errorf("Unexpected rss filename: %q", cfg.RSSFilename)
	}
	if cfg.Channel.Title != "The Nonlinear Library: Alignment Forum Daily" {
		t.Errorf("Unexpected channel title: %q", cfg.Channel.Title)
	}
	if cfg.Filters.TitlePrefix != "AF - " || cfg.Filters.GUIDSuffix != "_AF-day" {
		t.Errorf("Unexpected filters: %+v", cfg.Filters)
	}
	if !cfg.Filters.TopPostOnly {
		t.Error("Expected top_post_only to be set")
	}
	if cfg.Filters.MinChars != 250 {
		t.Errorf("Expected default min_chars 250, got %d", cfg.Filters.MinChars)
	}

	window, ok := cfg.Window()
	if !ok || window != 24*time.Hour {
		t.Errorf("Expected a one-day window, got %v (%v)", window, ok)
	}
	if cfg.DateLayout() != feed.PubDateLayout {
		t.Errorf("Podcast feeds use the provider date layout, got %q", cfg.DateLayout())
	}
	if cfg.Settings.GetRefreshInterval() != 6*time.Hour {
		t.Errorf("Unexpected refresh interval: %v", cfg.Settings.GetRefreshInterval())
	}
	if cfg.Settings.GetTimeout() != 2*time.Minute {
		t.Errorf("Unexpected timeout: %v", cfg.Settings.GetTimeout())
	}
}

func TestLoadProviderInputConfig(t *testing.T) {
	tempDir := t.TempDir()

	content := `
kind: "provider-input"
source: "https://www.alignmentforum.org/feed.xml?view=community-rss&karmaThreshold=0"
rss_filename: "nonlinear-library-AF.xml"

channel:
  title: "The Nonlinear Library: Alignment Forum"
  author: "The Nonlinear Fund"

filters:
  min_chars: 250
  relevant_feeds:
    - "nonlinear-library-AF.xml"
    - "nonlinear-library-LW.xml"
`
	writeConfig(t, tempDir, "input-af.yaml", content)

	configs, err := NewLoader(tempDir).LoadAll()
	if err != nil {
		t.Fatal(err)
	}

	cfg := configs["input-af"]
	if cfg == nil {
		t.Fatal("Expected input-af config")
	}
	if cfg.Kind != KindProviderInput {
		t.Errorf("Unexpected kind: %q", cfg.Kind)
	}
	if cfg.DateLayout() != feed.PubDateLayoutGMT {
		t.Errorf("Forum feeds use the GMT date layout, got %q", cfg.DateLayout())
	}
	if _, ok := cfg.Window(); ok {
		t.Error("A feed without a search period has no window")
	}
	if len(cfg.Filters.RelevantFeeds) != 2 {
		t.Errorf("Unexpected relevant feeds: %v", cfg.Filters.RelevantFeeds)
	}
}

func TestLoadInvalidConfigs(t *testing.T) {
	base := `
kind: %q
source: %q
rss_filename: "out.xml"
channel:
  title: %q
  author: %q
filters:
  search_period: %q
  top_post_only: %v
`
	tests := []struct {
		name         string
		kind         string
		source       string
		title        string
		author       string
		searchPeriod string
		topPostOnly  bool
	}{
		{name: "unknown kind", kind: "newsletter", source: "s", title: "t", author: "a"},
		{name: "missing source", kind: "podcast", source: "", title: "t", author: "a"},
		{name: "missing channel title", kind: "podcast", source: "s", title: "", author: "a"},
		{name: "missing channel author", kind: "podcast", source: "s", title: "t", author: ""},
		{name: "unknown search period", kind: "podcast", source: "s", title: "t", author: "a", searchPeriod: "fortnight"},
		{name: "top post on input feed", kind: "provider-input", source: "s", title: "t", author: "a", topPostOnly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			content := fmt.Sprintf(base, tt.kind, tt.source, tt.title, tt.author, tt.searchPeriod, tt.topPostOnly)
			writeConfig(t, tempDir, "bad.yaml", content)

			if _, err := NewLoader(tempDir).LoadAll(); err == nil {
				t.Error("Expected the load to fail")
			}
		})
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	configs, err := NewLoader(filepath.Join(t.TempDir(), "absent")).LoadAll()
	if err != nil {
		t.Fatalf("A missing feeds directory should load as empty, got %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("Expected no configs, got %d", len(configs))
	}
}

func TestMetaMapsChannel(t *testing.T) {
	cfg := &FeedConfig{
		Channel: Channel{
			Title:       "t",
			Description: "d",
			Author:      "a",
			Email:       "e",
			ImageURL:    "i",
		},
	}

	meta := cfg.Meta()
	if meta.Title != "t" || meta.Description != "d" || meta.Author != "a" || meta.Email != "e" || meta.ImageURL != "i" {
		t.Errorf("Unexpected meta: %+v", meta)
	}
}
