// Package karma resolves a forum post's vote score by scraping its page.
package karma

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/codeGROOVE-dev/retry"
)

// voteScoreSelector locates the score on LessWrong-family post pages.
const voteScoreSelector = "h1.PostsVote-voteScore"

// ForbiddenError indicates the forum refused the request outright. It is a
// distinct type because top-post ranking must abort on it: treating a
// blocked fetch as karma zero would silently corrupt the ranking.
type ForbiddenError struct {
	URL string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("HTTP 403 Forbidden: %s", e.URL)
}

// IsForbidden reports whether err wraps a ForbiddenError.
func IsForbidden(err error) bool {
	var forbidden *ForbiddenError
	return errors.As(err, &forbidden)
}

// Scorer fetches karma scores over an injected HTTP client. The client must
// carry its own timeout; retries here are bounded so a hung or flaky forum
// cannot stall a scheduled run indefinitely.
type Scorer struct {
	client    *http.Client
	userAgent string
}

func New(client *http.Client, userAgent string) *Scorer {
	return &Scorer{
		client:    client,
		userAgent: userAgent,
	}
}

// Score returns the vote score of the post at link.
func (s *Scorer) Score(ctx context.Context, link string) (int, error) {
	var score int

	err := retry.Do(
		func() error {
			var fetchErr error
			score, fetchErr = s.fetchScore(ctx, link)
			if IsForbidden(fetchErr) {
				return retry.Unrecoverable(fetchErr)
			}
			return fetchErr
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			slog.Info("Retrying karma fetch", "attempt", n, "url", link, "error", retryErr)
		}),
	)
	if err != nil {
		return 0, err
	}

	return score, nil
}

func (s *Scorer) fetchScore(ctx context.Context, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, fmt.Errorf("karma request for %s: %w", link, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("karma fetch for %s: %w", link, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return 0, &ForbiddenError{URL: link}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("karma fetch for %s: HTTP %d", link, resp.StatusCode)
	}

	page, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse post page %s: %w", link, err)
	}

	text := strings.TrimSpace(page.Find(voteScoreSelector).First().Text())
	if text == "" {
		return 0, fmt.Errorf("no vote score found at %s", link)
	}

	score, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("vote score %q at %s: %w", text, link, err)
	}

	return score, nil
}
