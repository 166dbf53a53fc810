package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Scorer resolves an external popularity score for a post link. Implemented
// by the karma package; declared here so the filter pipeline depends only on
// the contract.
type Scorer interface {
	Score(ctx context.Context, link string) (int, error)
}

// Filterer holds the pure transforms that reduce a source document to the
// items eligible for publishing. Each method mutates the document's item
// list in place and reports how many items it removed; callers compose them
// in a fixed order (removed authors before the forum prefix, the karma-based
// top-post selection strictly last) so exclusions never cost a karma fetch.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// RemoveByAuthor drops items whose author, trimmed, appears in the removed
// authors list. Matching is exact: these are operator-curated display names.
func (f *Filterer) RemoveByAuthor(doc *Document, removed []string) int {
	if len(removed) == 0 {
		return 0
	}

	removedSet := make(map[string]struct{}, len(removed))
	for _, author := range removed {
		if author = strings.TrimSpace(author); author != "" {
			removedSet[author] = struct{}{}
		}
	}

	return f.remove(doc, func(item *Item) bool {
		if _, ok := removedSet[strings.TrimSpace(item.Author)]; ok {
			slog.Debug("Removing item from removed author", "title", item.Title, "author", item.Author)
			return true
		}
		return false
	})
}

// KeepTitlePrefix drops items whose title does not start with the configured
// forum prefix. A feed without a prefix keeps everything.
func (f *Filterer) KeepTitlePrefix(doc *Document, prefix string) int {
	if prefix == "" {
		return 0
	}

	return f.remove(doc, func(item *Item) bool {
		return !strings.HasPrefix(item.Title, prefix)
	})
}

// KeepWithinPeriod drops items published at or before now minus the window.
// A pubDate that does not parse with the given layout fails the whole run:
// a misread date could admit or exclude the wrong item, which is worse than
// publishing nothing.
func (f *Filterer) KeepWithinPeriod(doc *Document, window time.Duration, now time.Time, layout string) (int, error) {
	cutoff := now.Add(-window)

	kept := doc.Items[:0]
	removed := 0
	for _, item := range doc.Items {
		published, err := time.Parse(layout, item.PubDate)
		if err != nil {
			return removed, fmt.Errorf("item %q: parse pubDate %q: %w", item.Title, item.PubDate, err)
		}
		if !published.After(cutoff) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	doc.Items = kept

	return removed, nil
}

// RemoveShortDescriptions drops items whose description, HTML included, is
// shorter than minChars characters.
func (f *Filterer) RemoveShortDescriptions(doc *Document, minChars int) int {
	return f.remove(doc, func(item *Item) bool {
		if len(item.Description) < minChars {
			slog.Debug("Removing item with short description", "title", item.Title, "length", len(item.Description))
			return true
		}
		return false
	})
}

// RequireParagraphs drops items whose description contains no paragraph
// blocks. Cross-posts arrive with empty bodies and would otherwise become
// silent episodes.
func (f *Filterer) RequireParagraphs(doc *Document) (int, error) {
	kept := doc.Items[:0]
	removed := 0
	for _, item := range doc.Items {
		body, err := goquery.NewDocumentFromReader(strings.NewReader(item.Description))
		if err != nil {
			return removed, fmt.Errorf("item %q: parse description: %w", item.Title, err)
		}
		if body.Find("p").Length() == 0 {
			slog.Debug("Removing item without paragraphs, possibly a cross post", "title", item.Title)
			removed++
			continue
		}
		kept = append(kept, item)
	}
	doc.Items = kept

	return removed, nil
}

// RemoveKnownTitles drops items already present, by title similarity, in the
// other feeds this source shares posts with.
func (f *Filterer) RemoveKnownTitles(doc *Document, known []string) int {
	if len(known) == 0 {
		return 0
	}

	return f.remove(doc, func(item *Item) bool {
		return IsDuplicate(item.Title, known)
	})
}

// SelectTopPost reduces the document to its single highest-karma item.
// Ties keep the first-encountered item. An empty document stays empty, which
// is a normal outcome, not an error; a failed karma fetch aborts the run
// rather than guessing a score.
func (f *Filterer) SelectTopPost(ctx context.Context, doc *Document, scorer Scorer) (int, error) {
	if len(doc.Items) == 0 {
		return 0, nil
	}

	var top *Item
	topScore := 0
	for _, item := range doc.Items {
		score, err := scorer.Score(ctx, item.Link)
		if err != nil {
			return 0, fmt.Errorf("score %q: %w", item.Link, err)
		}
		slog.Debug("Fetched karma score", "title", item.Title, "karma", score)
		if top == nil || score > topScore {
			top = item
			topScore = score
		}
	}

	removed := len(doc.Items) - 1
	slog.Info("Selected top post", "title", top.Title, "karma", topScore)
	doc.Items = []*Item{top}

	return removed, nil
}

// AppendGUIDSuffix disambiguates guids across target feeds, since the same
// provider item is cross-posted into several of them.
func (f *Filterer) AppendGUIDSuffix(doc *Document, suffix string) {
	if suffix == "" {
		return
	}
	for _, item := range doc.Items {
		item.GUID += suffix
	}
}

func (f *Filterer) remove(doc *Document, drop func(*Item) bool) int {
	kept := doc.Items[:0]
	removed := 0
	for _, item := range doc.Items {
		if drop(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	doc.Items = kept

	return removed
}
