package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
)

// Generator serializes a Document back to RSS 2.0.
//
// The element order and namespace set are load-bearing: the text-to-speech
// provider and the podcast apps consume these files as-is, so items are
// written as title, description, author, link, content:encoded, enclosure,
// pubDate, itunes:* regardless of how the source feed ordered them.
// HTML-bearing fields travel inside CDATA so the markup stays literal.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Run(doc *Document) []byte {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">`)
	buf.WriteString("\n  <channel>\n")

	g.writeCDATA(&buf, "title", doc.Title, 4)
	g.writeCDATA(&buf, "description", doc.Description, 4)
	g.writeElement(&buf, "author", doc.Author, 4)
	g.writeElement(&buf, "link", doc.Link, 4)
	g.writeElement(&buf, "language", doc.Language, 4)
	g.writeElement(&buf, "copyright", doc.Copyright, 4)
	g.writeElement(&buf, "lastBuildDate", doc.LastBuildDate, 4)

	if doc.ImageURL != "" {
		buf.WriteString("    <image>\n")
		g.writeElement(&buf, "url", doc.ImageURL, 6)
		g.writeElement(&buf, "title", doc.Title, 6)
		g.writeElement(&buf, "link", doc.Link, 6)
		buf.WriteString("    </image>\n")
	}

	g.writeCDATA(&buf, "itunes:summary", doc.ITunesSummary, 4)
	g.writeElement(&buf, "itunes:author", doc.ITunesAuthor, 4)
	g.writeElement(&buf, "itunes:explicit", doc.ITunesExplicit, 4)
	if doc.ITunesImageURL != "" {
		buf.WriteString(fmt.Sprintf("    <itunes:image href=\"%s\"/>\n",
			html.EscapeString(doc.ITunesImageURL)))
	}
	if doc.Author != "" || doc.Email != "" {
		buf.WriteString("    <itunes:owner>\n")
		g.writeElement(&buf, "itunes:name", doc.Author, 6)
		g.writeElement(&buf, "itunes:email", doc.Email, 6)
		buf.WriteString("    </itunes:owner>\n")
	}

	for _, item := range doc.Items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.Bytes()
}

func (g *Generator) writeItem(buf *bytes.Buffer, item *Item) {
	buf.WriteString("    <item>\n")

	if item.GUID != "" {
		buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"%t\">", item.GUIDIsLink))
		xml.EscapeText(buf, []byte(item.GUID))
		buf.WriteString("</guid>\n")
	}

	g.writeCDATA(buf, "title", item.Title, 6)
	g.writeCDATA(buf, "description", item.Description, 6)
	g.writeElement(buf, "author", item.Author, 6)
	g.writeElement(buf, "dc:creator", item.Creator, 6)
	g.writeElement(buf, "link", item.Link, 6)
	g.writeCDATA(buf, "content:encoded", item.Content, 6)

	if item.EnclosureURL != "" {
		buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"%d\" type=\"%s\"/>\n",
			html.EscapeString(item.EnclosureURL),
			item.EnclosureLength,
			html.EscapeString(item.EnclosureType)))
	}

	g.writeElement(buf, "pubDate", item.PubDate, 6)
	g.writeElement(buf, "itunes:duration", item.Duration, 6)
	g.writeElement(buf, "itunes:episodeType", item.EpisodeType, 6)
	g.writeElement(buf, "itunes:episode", item.Episode, 6)
	g.writeElement(buf, "itunes:explicit", item.ITunesExplicit, 6)
	if item.ITunesImageURL != "" {
		buf.WriteString(fmt.Sprintf("      <itunes:image href=\"%s\"/>\n",
			html.EscapeString(item.ITunesImageURL)))
	}

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

func (g *Generator) writeCDATA(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString("><![CDATA[")
	buf.WriteString(content)
	buf.WriteString("]]></")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
