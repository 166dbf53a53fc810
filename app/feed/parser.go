package feed

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Parser turns raw RSS bytes into a Document. It is a thin layer over
// gofeed that flattens the itunes and dc extension namespaces into the
// flat Item fields the rest of the pipeline works with.
type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Document, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	doc := &Document{
		Title:         parsed.Title,
		Description:   parsed.Description,
		Copyright:     parsed.Copyright,
		Language:      parsed.Language,
		Link:          parsed.Link,
		LastBuildDate: parsed.Updated,
	}

	if parsed.Image != nil {
		doc.ImageURL = parsed.Image.URL
	}

	if parsed.ITunesExt != nil {
		doc.ITunesAuthor = parsed.ITunesExt.Author
		doc.ITunesSummary = parsed.ITunesExt.Summary
		doc.ITunesImageURL = parsed.ITunesExt.Image
		doc.ITunesExplicit = parsed.ITunesExt.Explicit
		if parsed.ITunesExt.Owner != nil {
			doc.Email = parsed.ITunesExt.Owner.Email
			if doc.Author == "" {
				doc.Author = parsed.ITunesExt.Owner.Name
			}
		}
	}
	if doc.Author == "" {
		doc.Author = doc.ITunesAuthor
	}

	doc.Items = make([]*Item, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		doc.Items = append(doc.Items, p.normalizeItem(item))
	}

	return doc, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) *Item {
	guid := item.GUID
	if guid == "" {
		guid = item.Link
	}

	normalized := &Item{
		GUID:        guid,
		GUIDIsLink:  isURL(guid),
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Content,
		Link:        item.Link,
		PubDate:     item.Published,
		Author:      extractAuthor(item),
		Creator:     extractCreator(item),
	}

	if item.ITunesExt != nil {
		normalized.Duration = item.ITunesExt.Duration
		normalized.EpisodeType = item.ITunesExt.EpisodeType
		normalized.Episode = item.ITunesExt.Episode
		normalized.ITunesExplicit = item.ITunesExt.Explicit
		normalized.ITunesImageURL = item.ITunesExt.Image
	}

	// RSS 2.0 allows a single enclosure per item.
	if len(item.Enclosures) > 0 && item.Enclosures[0] != nil {
		enclosure := item.Enclosures[0]
		normalized.EnclosureURL = enclosure.URL
		normalized.EnclosureType = enclosure.Type
		if enclosure.Length != "" {
			if length, err := strconv.ParseInt(enclosure.Length, 10, 64); err == nil {
				normalized.EnclosureLength = length
			}
		}
	}

	return normalized
}

// extractAuthor returns the item's display-name author. The provider feed
// carries plain names in <author>; gofeed surfaces those either as the
// person's name or, when the text looks address-like, as the email field.
func extractAuthor(item *gofeed.Item) string {
	if item.Author != nil {
		if name := strings.TrimSpace(item.Author.Name); name != "" {
			return name
		}
		if email := strings.TrimSpace(item.Author.Email); email != "" {
			return email
		}
	}
	return extractCreator(item)
}

func extractCreator(item *gofeed.Item) string {
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		return strings.TrimSpace(item.DublinCoreExt.Creator[0])
	}
	return ""
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
