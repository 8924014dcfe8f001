package hint

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Classes marking a content container when the page has no <article>.
var contentClasses = map[string]bool{"article": true, "post": true, "content": true}

// Page chrome dropped from page text.
var chromeTags = map[string]bool{
	"nav": true, "footer": true, "script": true, "style": true, "iframe": true, "noscript": true,
}

// PageText extracts the readable text of a page: the first <article>, else
// the first element in document order with class article, post or content,
// else <body>.
// Navigation and footers are dropped and whitespace is collapsed.
func PageText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	root := findFirst(doc, func(n *html.Node) bool { return n.Data == "article" })
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return hasClass(n, contentClasses) })
	}
	if root == nil {
		root = findFirst(doc, func(n *html.Node) bool { return n.Data == "body" })
	}
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (chromeTags[n.Data] || ignoreTags[n.Data]) {
			return
		}
		// Inline markup does not separate words.
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		separate := n.Type == html.ElementNode && (isBlockElement(n) || n.Data == "br")
		if separate {
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if separate {
			sb.WriteByte(' ')
		}
	}
	walk(root)
	return collapseSpace(sb.String()), nil
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}
