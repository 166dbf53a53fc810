package feed

import (
	"strings"
	"testing"
)

func testDocument() *Document {
	return &Document{
		Title:          "The Nonlinear Library: Alignment Forum",
		Description:    "Audio narrations of Alignment Forum posts.",
		Author:         "The Nonlinear Fund",
		Email:          "podcast@nonlinear.org",
		Language:       "en",
		Link:           "https://www.nonlinear.org",
		ImageURL:       "https://example.com/artwork.png",
		ITunesSummary:  "Audio narrations of Alignment Forum posts.",
		ITunesImageURL: "https://example.com/artwork.png",
		ITunesAuthor:   "The Nonlinear Fund",
		Items: []*Item{
			{
				GUID:            "abc-123_AF",
				Title:           "AF - Foo by Bar",
				Description:     "<p>Body of Foo.</p>",
				Content:         "<p>Body of Foo.</p>",
				Author:          "Bar",
				Creator:         "Bar",
				Link:            "https://www.alignmentforum.org/posts/abc/foo",
				PubDate:         "Fri, 14 Apr 2023 08:00:00 -0000",
				EnclosureURL:    "https://audio.example.com/abc.mp3",
				EnclosureLength: 123456,
				EnclosureType:   "audio/mpeg",
				Duration:        "00:04:20",
			},
		},
	}
}

func TestGeneratorRun(t *testing.T) {
	output := string(NewGenerator().Run(testDocument()))

	wantFragments := []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		`xmlns:dc="http://purl.org/dc/elements/1.1/"`,
		`xmlns:content="http://purl.org/rss/1.0/modules/content/"`,
		`xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd"`,
		`<title><![CDATA[The Nonlinear Library: Alignment Forum]]></title>`,
		`<itunes:summary><![CDATA[Audio narrations of Alignment Forum posts.]]></itunes:summary>`,
		`<itunes:image href="https://example.com/artwork.png"/>`,
		`<itunes:owner>`,
		`<itunes:email>podcast@nonlinear.org</itunes:email>`,
		`<guid isPermaLink="false">abc-123_AF</guid>`,
		`<title><![CDATA[AF - Foo by Bar]]></title>`,
		`<description><![CDATA[<p>Body of Foo.</p>]]></description>`,
		`<dc:creator>Bar</dc:creator>`,
		`<content:encoded><![CDATA[<p>Body of Foo.</p>]]></content:encoded>`,
		`<enclosure url="https://audio.example.com/abc.mp3" length="123456" type="audio/mpeg"/>`,
		`<pubDate>Fri, 14 Apr 2023 08:00:00 -0000</pubDate>`,
		`<itunes:duration>00:04:20</itunes:duration>`,
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(output, fragment) {
			t.Errorf("Output missing %q", fragment)
		}
	}
}

func TestGeneratorItemElementOrder(t *testing.T) {
	output := string(NewGenerator().Run(testDocument()))

	itemStart := strings.Index(output, "<item>")
	if itemStart < 0 {
		t.Fatal("No item in output")
	}
	item := output[itemStart:]

	// The provider and the podcast apps rely on this exact order.
	ordered := []string{
		"<guid",
		"<title>",
		"<description>",
		"<author>",
		"<dc:creator>",
		"<link>",
		"<content:encoded>",
		"<enclosure",
		"<pubDate>",
		"<itunes:duration>",
	}
	last := -1
	for _, tag := range ordered {
		idx := strings.Index(item, tag)
		if idx < 0 {
			t.Fatalf("Item missing %q", tag)
		}
		if idx < last {
			t.Errorf("Element %q out of order", tag)
		}
		last = idx
	}
}

func TestGeneratorOmitsEmptyElements(t *testing.T) {
	doc := Empty()
	output := string(NewGenerator().Run(doc))

	for _, unwanted := range []string{"<lastBuildDate>", "<image>", "<copyright>", "<item>"} {
		if strings.Contains(output, unwanted) {
			t.Errorf("Output should not contain %q: %s", unwanted, output)
		}
	}
	if !strings.Contains(output, "<language>en</language>") {
		t.Error("Empty template should still declare its language")
	}
}

func TestGeneratorRoundTrip(t *testing.T) {
	doc := testDocument()

	parsed, err := NewParser().Run(NewGenerator().Run(doc))
	if err != nil {
		t.Fatal(err)
	}

	if parsed.Title != doc.Title {
		t.Errorf("Channel title changed in flight: %q", parsed.Title)
	}
	if len(parsed.Items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(parsed.Items))
	}

	got, want := parsed.Items[0], doc.Items[0]
	if got.GUID != want.GUID || got.GUIDIsLink != want.GUIDIsLink {
		t.Errorf("guid changed in flight: %q (isLink %v)", got.GUID, got.GUIDIsLink)
	}
	if got.Title != want.Title || got.Description != want.Description {
		t.Errorf("title or description changed in flight: %q, %q", got.Title, got.Description)
	}
	if got.PubDate != want.PubDate {
		t.Errorf("pubDate changed in flight: %q", got.PubDate)
	}
	if got.EnclosureURL != want.EnclosureURL || got.EnclosureLength != want.EnclosureLength {
		t.Errorf("enclosure changed in flight: %q, %d", got.EnclosureURL, got.EnclosureLength)
	}
}
