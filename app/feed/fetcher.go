package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

// Fetcher resolves a feed source, either an http(s) URL or a local file
// path, into a parsed Document. The HTTP client is injected so timeouts and
// TLS settings are decided once, at wiring time, never via process-global
// state.
type Fetcher struct {
	client    *http.Client
	parser    *Parser
	userAgent string
}

func NewFetcher(client *http.Client, userAgent string) *Fetcher {
	return &Fetcher{
		client:    client,
		parser:    NewParser(),
		userAgent: userAgent,
	}
}

// Fetch downloads and parses the feed at source. Network and parse errors
// both propagate: the run must never process half a feed.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*Document, error) {
	data, err := f.download(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}

	doc, err := f.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	return doc, nil
}

func (f *Fetcher) download(ctx context.Context, source string) ([]byte, error) {
	parsed, err := url.Parse(source)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return os.ReadFile(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
