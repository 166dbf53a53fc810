package config

import (
	"time"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/feed"
)

// Window returns the lookback window for the configured search period.
// The second return is false when the feed has no window at all, which is
// different from a zero window.
func (c *FeedConfig) Window() (time.Duration, bool) {
	switch c.Filters.SearchPeriod {
	case SearchPeriodOneDay:
		return 24 * time.Hour, true
	case SearchPeriodOneWeek:
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// DateLayout is the pubDate layout used by this feed's source. The
// text-to-speech provider emits numeric zones; the forums emit a literal
// GMT.
func (c *FeedConfig) DateLayout() string {
	if c.Kind == KindProviderInput {
		return feed.PubDateLayoutGMT
	}
	return feed.PubDateLayout
}

// Meta returns the channel metadata to stamp onto the destination feed.
func (c *FeedConfig) Meta() feed.ChannelMeta {
	return feed.ChannelMeta{
		Title:       c.Channel.Title,
		Description: c.Channel.Description,
		Author:      c.Channel.Author,
		Email:       c.Channel.Email,
		ImageURL:    c.Channel.ImageURL,
	}
}

// GetRefreshInterval returns the scheduling interval as a Duration.
func (s *FeedSettings) GetRefreshInterval() time.Duration {
	if s.RefreshInterval <= 0 {
		return time.Hour
	}
	return time.Duration(s.RefreshInterval) * time.Second
}

// GetTimeout returns the per-run timeout as a Duration.
func (s *FeedSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Timeout) * time.Second
}
