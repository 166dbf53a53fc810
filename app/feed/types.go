package feed

// Feed model types.
//
// A Document is the in-memory form of one RSS 2.0 feed: channel metadata
// plus the items in document order. Items keep their pubDate as the raw
// string from the wire; date-sensitive code parses it with the layout
// configured for the feed so a malformed date surfaces as an error instead
// of silently shifting an item in or out of a time window.

// PubDateLayout is the provider feed's pubDate layout (numeric zone).
// The forum feeds publish the same shape with a literal "GMT" zone,
// covered by PubDateLayoutGMT.
const (
	PubDateLayout    = "Mon, 02 Jan 2006 15:04:05 -0700"
	PubDateLayoutGMT = "Mon, 02 Jan 2006 15:04:05 GMT"
)

type Document struct {
	Title         string
	Description   string
	Author        string
	Email         string
	Copyright     string
	Language      string
	Link          string
	ImageURL      string
	LastBuildDate string

	ITunesSummary  string
	ITunesImageURL string
	ITunesAuthor   string
	ITunesExplicit string

	Items []*Item
}

type Item struct {
	GUID        string
	GUIDIsLink  bool
	Title       string
	Description string // HTML, carried verbatim inside CDATA
	Content     string // content:encoded, HTML
	Author      string // display name from the <author> element
	Creator     string // dc:creator, raw (underscores and all)
	Link        string
	PubDate     string // raw RFC-822-like string from the wire

	EnclosureURL    string
	EnclosureLength int64
	EnclosureType   string
	Duration        string

	EpisodeType    string
	Episode        string
	ITunesExplicit string
	ITunesImageURL string
}

// Titles returns the item titles in document order.
func (d *Document) Titles() []string {
	titles := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		titles = append(titles, item.Title)
	}
	return titles
}

// Empty returns a minimal well-formed document. The merge engine starts
// from this when no feed has been persisted yet, so a brand-new target
// feed never fails its first run.
func Empty() *Document {
	return &Document{
		Title:    "The Nonlinear Library",
		Language: "en",
	}
}
