// Package goqueryparser implements the HTML document parser backing the
// scrape pipeline: charset-aware decode, anchor extraction in document
// order, and visible-text extraction.
package goqueryparser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/focuscrawl/focuscrawl/internal/scraper"
)

// Parser turns raw page bytes into a scraper.Document. It is stateless and
// safe for concurrent use.
type Parser struct{}

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse decodes content (honoring meta charset declarations and BOMs) and
// extracts the title, every anchor target as written, and the page's
// visible text with script, style, and noscript subtrees skipped.
func (p *Parser) Parse(content []byte) (scraper.Document, error) {
	reader, err := charset.NewReader(bytes.NewReader(content), "")
	if err != nil {
		return scraper.Document{}, fmt.Errorf("detect charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return scraper.Document{}, fmt.Errorf("parse html: %w", err)
	}

	out := scraper.Document{
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, exists := sel.Attr("href"); exists {
			out.Hrefs = append(out.Hrefs, href)
		}
	})

	var sb strings.Builder
	for _, node := range doc.Selection.Nodes {
		collectText(node, &sb)
	}
	out.Text = strings.TrimSpace(sb.String())
	return out, nil
}

// collectText walks the parsed tree appending text nodes separated by
// single spaces so downstream tokenization sees word boundaries.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}
	if n.Type == html.TextNode {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			sb.WriteString(trimmed)
			sb.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
