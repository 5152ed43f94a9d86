// File: internal/controller/scrape.go
package controller

import (
	"strings"

	"golang.org/x/net/html"
)

// skippedTags never contribute readable text.
var skippedTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {}, "head": {},
}

// blockTags force a line break around their content in the extracted text.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "section": {}, "article": {}, "li": {}, "tr": {},
	"br": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"table": {}, "ul": {}, "ol": {}, "blockquote": {}, "pre": {},
}

// ExtractReadableText reduces an HTML document to its visible text, one line
// per block element, for the scrape action's output.
func ExtractReadableText(rawHTML string) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skippedTags[n.Data]; skip {
				return
			}
			if _, block := blockTags[n.Data]; block {
				b.WriteByte('\n')
			}
		}
		if n.Type == html.TextNode {
			if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
				if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			if _, block := blockTags[n.Data]; block {
				b.WriteByte('\n')
			}
		}
	}
	walk(doc)

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
