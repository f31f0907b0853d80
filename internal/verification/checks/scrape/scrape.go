// Package scrape holds the small HTML extraction helpers shared by the
// checkers whose registries only publish web pages.
package scrape

import (
	"strings"

	"golang.org/x/net/html"
)

// FindDefinition scans a parsed page for a dt/th element whose text equals
// the label and returns the text of the following dd/td. Registry pages
// render their records as label/value pairs.
func FindDefinition(doc *html.Node, label string) string {
	var value string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if value != "" {
			return
		}
		if n.Type == html.ElementNode && (n.Data == "dt" || n.Data == "th") {
			if strings.EqualFold(strings.TrimSpace(Text(n)), label) {
				if v := nextValueSibling(n); v != nil {
					value = strings.TrimSpace(Text(v))
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return value
}

func nextValueSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && (s.Data == "dd" || s.Data == "td") {
			return s
		}
	}
	return nil
}

// Text concatenates all text nodes under n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
