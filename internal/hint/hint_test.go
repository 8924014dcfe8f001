package hint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"selectsense/pkg/categorizer"
)

const page = `<html><head><title>Notes</title><style>.x { color: red }</style></head><body>
<p>The function <code>useState</code> returns a pair.</p>
<pre class="lang-js"><code>function add(a, b) {
  return a + b;
}</code></pre>
<div class="MathJax">∫ x^2 dx</div>
<div class="code-block"><span>SELECT 1</span></div>
<p>Plain prose here. And more.</p>
<script>var hidden = 1;</script>
</body></html>`

func TestFromHTML(t *testing.T) {
	code := categorizer.StructuralHint{LooksLikeCode: true}
	math := categorizer.StructuralHint{LooksLikeMath: true}

	testCases := []struct {
		name      string
		selection string
		want      categorizer.StructuralHint
	}{
		{"inline code element", "useState", code},
		{"pre block with different whitespace", "function add(a, b) { return a + b; }", code},
		{"partial line inside pre", "return a + b;", code},
		{"math class is case-insensitive", "∫ x^2 dx", math},
		{"code-block class on ancestor", "SELECT 1", code},
		{"plain paragraph", "Plain prose here.", categorizer.StructuralHint{}},
		{"selection wider than the code element", "The function useState", categorizer.StructuralHint{}},
		{"selection across blocks", "returns a pair. function add", categorizer.StructuralHint{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromHTML(strings.NewReader(page), tc.selection)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromHTML_NotFound(t *testing.T) {
	for _, sel := range []string{"var hidden", "Notes", "", "   ", "not on the page"} {
		got, err := FromHTML(strings.NewReader(page), sel)
		assert.ErrorIs(t, err, ErrSelectionNotFound, sel)
		assert.Equal(t, categorizer.StructuralHint{}, got)
	}
}

func TestFromHTML_LineBreaksSeparateText(t *testing.T) {
	got, err := FromHTML(strings.NewReader("<pre>let a = 1;<br>let b = 2;</pre>"), "let a = 1;\nlet b = 2;")
	require.NoError(t, err)
	assert.True(t, got.LooksLikeCode)

	got, err = FromHTML(strings.NewReader(`<p class="equation">x + 1<br>= 2</p>`), "x + 1 = 2")
	require.NoError(t, err)
	assert.True(t, got.LooksLikeMath)
}

func TestFromHTML_MathMLElement(t *testing.T) {
	doc := `<p>Euler: <math><mi>e</mi><mo>=</mo><mn>2.718</mn></math></p>`
	got, err := FromHTML(strings.NewReader(doc), "e=2.718")
	require.NoError(t, err)
	assert.True(t, got.LooksLikeMath)
	assert.False(t, got.LooksLikeCode)
}

func TestBlocks(t *testing.T) {
	blocks, err := Blocks(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, blocks, 5)

	assert.Equal(t, "p", blocks[0].Tag)
	assert.Equal(t, "The function useState returns a pair.", blocks[0].Text)
	assert.Equal(t, categorizer.StructuralHint{}, blocks[0].Hint)

	assert.Equal(t, "pre", blocks[1].Tag)
	assert.Equal(t, "function add(a, b) {\n  return a + b;\n}", blocks[1].Text)
	assert.True(t, blocks[1].Hint.LooksLikeCode)

	assert.Equal(t, "∫ x^2 dx", blocks[2].Text)
	assert.True(t, blocks[2].Hint.LooksLikeMath)

	assert.Equal(t, "SELECT 1", blocks[3].Text)
	assert.True(t, blocks[3].Hint.LooksLikeCode)

	assert.Equal(t, "Plain prose here. And more.", blocks[4].Text)

	for _, b := range blocks {
		assert.NotContains(t, b.Text, "hidden")
		assert.NotContains(t, b.Text, "color")
	}
}

func TestBlocks_NestedBlocksKeepDocumentOrder(t *testing.T) {
	blocks, err := Blocks(strings.NewReader(`<div>intro <p>para</p> outro</div><p>line<br>break</p>`))
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "intro outro", blocks[0].Text)
	assert.Equal(t, "para", blocks[1].Text)
	assert.Equal(t, "line break", blocks[2].Text)
}

func TestBlocks_ClassifyPipeline(t *testing.T) {
	blocks, err := Blocks(strings.NewReader(page))
	require.NoError(t, err)

	got := make([]categorizer.Category, len(blocks))
	for i, b := range blocks {
		got[i] = categorizer.Classify(b.Text, b.Hint)
	}
	assert.Equal(t, categorizer.CategoryCode, got[1])
	assert.Equal(t, categorizer.CategoryMath, got[2])
	assert.Equal(t, categorizer.CategoryCode, got[3])
}

func TestPageText(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "article element wins",
			doc:  `<body><nav>Home About</nav><div class="content">Side</div><article><h1>Title</h1><p>Body  text.</p><footer>Share</footer></article></body>`,
			want: "Title Body text.",
		},
		{
			name: "post class when no article",
			doc:  `<body><header>Site</header><div class="entry POST"><p>Hello</p><script>x()</script></div></body>`,
			want: "Hello",
		},
		{
			name: "first content class in document order",
			doc:  `<body><div class="content">Content first</div><div class="post">Post second</div></body>`,
			want: "Content first",
		},
		{
			name: "inline markup keeps words whole",
			doc:  `<body><p>Hel<b>lo</b> world</p><p>next<br>line</p></body>`,
			want: "Hello world next line",
		},
		{
			name: "body fallback drops chrome",
			doc:  `<html><head><title>T</title></head><body><nav>Menu</nav><p>One</p><iframe>ad</iframe><p>Two</p><footer>(c)</footer></body></html>`,
			want: "One Two",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PageText(strings.NewReader(tc.doc))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
