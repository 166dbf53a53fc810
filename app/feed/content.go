package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const outro = "<p>Thanks for listening. To help us out with The Nonlinear Library or to learn more, please visit nonlinear.org</p>"

// Rewriter prepares forum posts for the text-to-speech provider: spoken
// intro and outro around the body, forum abbreviation and author woven into
// the title so listeners can tell episodes apart in a podcast app.
type Rewriter struct{}

func NewRewriter() *Rewriter {
	return &Rewriter{}
}

// Website maps a forum URL to its abbreviation or full name.
func Website(url string, short bool) string {
	switch {
	case strings.Contains(url, "forum.effectivealtruism.org"):
		if short {
			return "EA"
		}
		return "The Effective Altruism Forum"
	case strings.Contains(url, "lesswrong.com"):
		if short {
			return "LW"
		}
		return "LessWrong"
	case strings.Contains(url, "alignmentforum.org"):
		if short {
			return "AF"
		}
		return "The AI Alignment Forum"
	default:
		return "Unknown"
	}
}

// PopulateAuthors sets each item's author display name from its dc:creator,
// with the forum's underscore convention mapped back to spaces. The author
// element is what the removed-authors filter matches against.
func (r *Rewriter) PopulateAuthors(doc *Document) {
	for _, item := range doc.Items {
		if item.Creator != "" {
			item.Author = strings.ReplaceAll(item.Creator, "_", " ")
		}
	}
}

// RewriteDescriptions wraps each item body in the spoken intro and outro
// and mirrors the result into content:encoded. The forum prepends a
// publication note as the body's first three nodes; those are dropped so
// the narration doesn't read the date twice.
func (r *Rewriter) RewriteDescriptions(doc *Document, layout string) error {
	for _, item := range doc.Items {
		intro, err := r.intro(item, layout)
		if err != nil {
			return err
		}

		body, err := bodyWithoutLeadingNodes(item.Description, 3)
		if err != nil {
			return fmt.Errorf("item %q: parse description: %w", item.Title, err)
		}

		item.Description = fmt.Sprintf("<p>%s</p> %s %s", intro, body, outro)
		item.Content = item.Description
	}

	return nil
}

// AddSourceLinks prepends a link back to the original article to each item
// description. Used on the podcast-app feeds, where the description is shown
// rather than spoken.
func (r *Rewriter) AddSourceLinks(doc *Document) {
	for _, item := range doc.Items {
		if item.Link == "" || item.Description == "" {
			continue
		}
		if strings.Contains(item.Description, ">Link to original article</a>") {
			continue
		}
		item.Description = fmt.Sprintf("<a href=%q>Link to original article</a><br/>%s", item.Link, item.Description)
	}
}

// PrefixTitles prepends the forum abbreviation derived from the channel
// link, e.g. "AF - ", to each item title.
func (r *Rewriter) PrefixTitles(doc *Document) {
	prefix := Website(doc.Link, true)
	for _, item := range doc.Items {
		item.Title = fmt.Sprintf("%s - %s", prefix, strings.TrimSpace(item.Title))
	}
}

// AppendAuthorToTitles appends "by <author>" to each item title.
func (r *Rewriter) AppendAuthorToTitles(doc *Document) {
	for _, item := range doc.Items {
		if item.Author == "" {
			continue
		}
		item.Title = fmt.Sprintf("%s by %s", strings.TrimSpace(item.Title), strings.TrimSpace(item.Author))
	}
}

func (r *Rewriter) intro(item *Item, layout string) (string, error) {
	published, err := time.Parse(layout, item.PubDate)
	if err != nil {
		return "", fmt.Errorf("item %q: parse pubDate %q: %w", item.Title, item.PubDate, err)
	}

	date := fmt.Sprintf("%s %d, %d", published.Month(), published.Day(), published.Year())
	website := Website(item.Link, false)

	return fmt.Sprintf("Welcome to The Nonlinear Library, where we use Text-to-Speech software to convert the best writing "+
		"from the Rationalist and EA communities into audio. This is: %s, published by %s on %s on %s. ",
		strings.TrimRight(item.Title, " \t\n"), item.Author, date, website), nil
}

// bodyWithoutLeadingNodes reparses an HTML fragment and drops its first n
// top-level nodes.
func bodyWithoutLeadingNodes(fragment string, n int) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var renderErr error
	parsed.Find("body").Contents().Each(func(i int, s *goquery.Selection) {
		if i < n || renderErr != nil {
			return
		}
		node, err := goquery.OuterHtml(s)
		if err != nil {
			renderErr = err
			return
		}
		b.WriteString(node)
	})
	if renderErr != nil {
		return "", renderErr
	}

	return b.String(), nil
}
