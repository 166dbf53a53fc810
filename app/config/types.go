package config

// Per-feed configuration, one YAML file per target feed.

// Kind selects which pipeline a feed runs through.
type Kind string

const (
	// KindPodcast merges the audio-bearing provider output feed into a
	// per-audience podcast feed.
	KindPodcast Kind = "podcast"
	// KindProviderInput builds the deduplicated text feed the provider
	// reads forum posts from.
	KindProviderInput Kind = "provider-input"
)

// SearchPeriod is the optional lookback window for a feed.
type SearchPeriod string

const (
	SearchPeriodNone    SearchPeriod = ""
	SearchPeriodOneDay  SearchPeriod = "one-day"
	SearchPeriodOneWeek SearchPeriod = "one-week"
)

// FeedConfig is the immutable parameter set for one pipeline run. Loaded
// and validated up front; a run never discovers a missing field mid-flight.
type FeedConfig struct {
	Name        string       // derived from the filename, without extension
	Kind        Kind         `yaml:"kind"`
	Source      string       `yaml:"source"`
	RSSFilename string       `yaml:"rss_filename"`
	Channel     Channel      `yaml:"channel"`
	Filters     Filters      `yaml:"filters"`
	Settings    FeedSettings `yaml:"settings"`
}

// Channel is the metadata stamped onto the destination feed on every run.
type Channel struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Email       string `yaml:"email"`
	ImageURL    string `yaml:"image_url"`
}

// Filters holds the per-feed filter pipeline parameters.
type Filters struct {
	TitlePrefix        string       `yaml:"title_prefix"`
	GUIDSuffix         string       `yaml:"guid_suffix"`
	SearchPeriod       SearchPeriod `yaml:"search_period"`
	TopPostOnly        bool         `yaml:"top_post_only"`
	MinChars           int          `yaml:"min_chars"`
	RemovedAuthorsFile string       `yaml:"removed_authors_file"`
	RelevantFeeds      []string     `yaml:"relevant_feeds"`
}

// FeedSettings contains feed scheduling settings.
type FeedSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
}
