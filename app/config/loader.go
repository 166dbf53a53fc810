package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads and validates per-feed YAML configurations.
type Loader struct {
	feedsDir string
}

func NewLoader(feedsDir string) *Loader {
	return &Loader{feedsDir: feedsDir}
}

// LoadAll loads every YAML file in the feeds directory, keyed by feed name.
// A single invalid file fails the load: a half-configured process would
// silently skip target feeds.
func (l *Loader) LoadAll() (map[string]*FeedConfig, error) {
	configs := make(map[string]*FeedConfig)

	if _, err := os.Stat(l.feedsDir); os.IsNotExist(err) {
		return configs, nil
	}

	files, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.feedsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		cfg, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}

		if err := l.validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", file, err)
		}

		configs[cfg.Name] = cfg
		slog.Debug("Loaded feed configuration", "name", cfg.Name, "kind", string(cfg.Kind))
	}

	return configs, nil
}

func (l *Loader) loadFile(path string) (*FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var cfg FeedConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	base := filepath.Base(path)
	cfg.Name = strings.TrimSuffix(strings.TrimSuffix(base, ".yaml"), ".yml")

	l.setDefaults(&cfg)

	return &cfg, nil
}

func (l *Loader) setDefaults(cfg *FeedConfig) {
	if cfg.Filters.MinChars == 0 {
		cfg.Filters.MinChars = 250
	}
	if cfg.Settings.RefreshInterval == 0 {
		cfg.Settings.RefreshInterval = 3600
	}
	if cfg.Settings.Timeout == 0 {
		cfg.Settings.Timeout = 30
	}
}

func (l *Loader) validate(cfg *FeedConfig) error {
	switch cfg.Kind {
	case KindPodcast, KindProviderInput:
	default:
		return fmt.Errorf("unknown kind %q", cfg.Kind)
	}

	if cfg.Source == "" {
		return fmt.Errorf("source is required")
	}
	if cfg.RSSFilename == "" {
		return fmt.Errorf("rss_filename is required")
	}
	if cfg.Channel.Title == "" {
		return fmt.Errorf("channel title is required")
	}
	if cfg.Channel.Author == "" {
		return fmt.Errorf("channel author is required")
	}

	switch cfg.Filters.SearchPeriod {
	case SearchPeriodNone, SearchPeriodOneDay, SearchPeriodOneWeek:
	default:
		return fmt.Errorf("unknown search_period %q", cfg.Filters.SearchPeriod)
	}

	if cfg.Filters.TopPostOnly && cfg.Kind != KindPodcast {
		return fmt.Errorf("top_post_only applies only to podcast feeds")
	}
	if cfg.Filters.MinChars < 0 {
		return fmt.Errorf("min_chars must be non-negative")
	}
	if cfg.Settings.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be non-negative")
	}
	if cfg.Settings.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}

	return nil
}
