// Package hint derives structural hints for selections from HTML markup:
// whether the selected text sits inside a code or math container.
package hint

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"selectsense/pkg/categorizer"
)

// ErrSelectionNotFound is returned when the selection does not occur in the
// document text.
var ErrSelectionNotFound = errors.New("hint: selection not found in document")

// Tags whose content is never visible text.
var ignoreTags = map[string]bool{
	"script": true, "style": true, "head": true, "noscript": true,
}

var (
	codeTags    = map[string]bool{"pre": true, "code": true}
	codeClasses = map[string]bool{"code-block": true}
	mathTags    = map[string]bool{"math": true}
	mathClasses = map[string]bool{"math": true, "equation": true, "formula": true, "katex": true, "mathjax": true}
)

// ForNode walks n and its ancestors and reports whether any of them is a code
// or math container. Class names are matched case-insensitively.
func ForNode(n *html.Node) categorizer.StructuralHint {
	var h categorizer.StructuralHint
	for ; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		if codeTags[n.Data] || hasClass(n, codeClasses) {
			h.LooksLikeCode = true
		}
		if mathTags[n.Data] || hasClass(n, mathClasses) {
			h.LooksLikeMath = true
		}
	}
	return h
}

func hasClass(n *html.Node, set map[string]bool) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if set[strings.ToLower(c)] {
				return true
			}
		}
	}
	return false
}

// FromHTML locates selection in the visible text of the document read from r
// and derives the hint from the closest element containing all of it.
// Whitespace differences between the selection and the markup are ignored.
func FromHTML(r io.Reader, selection string) (categorizer.StructuralHint, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return categorizer.StructuralHint{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	needle := collapseSpace(selection)
	if needle == "" {
		return categorizer.StructuralHint{}, ErrSelectionNotFound
	}

	flat := flatten(doc)
	start := strings.Index(flat.text, needle)
	if start < 0 {
		return categorizer.StructuralHint{}, ErrSelectionNotFound
	}
	end := start + len(needle) - 1

	first, last := flat.owner[start], flat.owner[end]
	return ForNode(commonAncestor(first, last)), nil
}

// flatText is the whitespace-collapsed visible text of a document, with the
// text node owning each byte.
type flatText struct {
	text  string
	owner []*html.Node
}

func flatten(doc *html.Node) flatText {
	var b strings.Builder
	var owner []*html.Node
	pendingSpace := false

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && ignoreTags[n.Data] {
			return
		}
		// Inline markup does not separate words: <b>a</b>b reads "ab".
		if n.Type == html.TextNode {
			for _, r := range n.Data {
				if unicode.IsSpace(r) {
					pendingSpace = b.Len() > 0
					continue
				}
				if pendingSpace {
					b.WriteByte(' ')
					owner = append(owner, n)
					pendingSpace = false
				}
				start := b.Len()
				b.WriteRune(r)
				for i := start; i < b.Len(); i++ {
					owner = append(owner, n)
				}
			}
		}
		if n.Type == html.ElementNode && (isBlockElement(n) || n.Data == "br") {
			pendingSpace = b.Len() > 0
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlockElement(n) {
			pendingSpace = b.Len() > 0
		}
	}
	walk(doc)
	return flatText{text: b.String(), owner: owner}
}

// commonAncestor returns the lowest node that contains both a and b.
func commonAncestor(a, b *html.Node) *html.Node {
	if a == b {
		return a
	}
	seen := map[*html.Node]bool{}
	for n := a; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// isBlockElement checks if an HTML node represents a common block-level element.
func isBlockElement(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "address", "article", "aside", "blockquote", "caption", "dd", "div", "dl", "dt", "fieldset", "figcaption", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "li", "main", "nav", "ol", "p", "pre", "section", "table", "td", "th", "tfoot", "ul":
		return true
	default:
		return false
	}
}
