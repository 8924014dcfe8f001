package hint

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"selectsense/pkg/categorizer"
)

// Block is one block-level unit of visible text with the hint derived from
// its own element.
type Block struct {
	Tag  string                     `json:"tag"`
	Text string                     `json:"text"`
	Hint categorizer.StructuralHint `json:"hint"`
}

// Blocks splits an HTML document into block-level text units in document
// order. Text nested in an inner block belongs to the inner block only.
// Text inside <pre> keeps its line breaks; everything else is collapsed.
func Blocks(r io.Reader) ([]Block, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	type slot struct {
		node *html.Node
		raw  strings.Builder
		pre  bool
	}
	var slots []*slot

	var walk func(n *html.Node, cur *slot)
	walk = func(n *html.Node, cur *slot) {
		if n.Type == html.ElementNode && ignoreTags[n.Data] {
			return
		}
		switch {
		case n.Type == html.TextNode:
			if cur != nil {
				cur.raw.WriteString(n.Data)
			}
		case n.Type == html.ElementNode && n.Data == "br":
			if cur != nil {
				cur.raw.WriteString("\n")
			}
		case isBlockElement(n) || (n.Type == html.ElementNode && n.Data == "body"):
			// Reserve the slot on entry so blocks keep document order.
			s := &slot{node: n, pre: n.Data == "pre" || (cur != nil && cur.pre)}
			slots = append(slots, s)
			cur = s
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, cur)
		}
	}
	walk(doc, nil)

	var blocks []Block
	for _, s := range slots {
		text := s.raw.String()
		if s.pre {
			text = strings.Trim(text, "\n")
			if strings.TrimSpace(text) == "" {
				continue
			}
		} else {
			text = collapseSpace(text)
			if text == "" {
				continue
			}
		}
		blocks = append(blocks, Block{Tag: s.node.Data, Text: text, Hint: ForNode(s.node)})
	}
	return blocks, nil
}
