package postservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: "  \n\n  ",
			want:  "",
		},
		{
			name:  "level 1 heading",
			input: "# Hello",
			want:  "<h1>Hello</h1>",
		},
		{
			name:  "level 2 heading",
			input: "## Section",
			want:  "<h2>Section</h2>",
		},
		{
			name:  "level 3 heading",
			input: "### Detail",
			want:  "<h3>Detail</h3>",
		},
		{
			name:  "plain text becomes a paragraph",
			input: "just text",
			want:  "<p>\njust text\n</p>",
		},
		{
			name:  "bold and italic",
			input: "**bold** and *italic*",
			want:  "<p>\n<strong>bold</strong> and <em>italic</em>\n</p>",
		},
		{
			name:  "unordered list wrapped in a single container",
			input: "- a\n- b",
			want:  "<ul>\n<li>a</li>\n<li>b</li>\n</ul>",
		},
		{
			name:  "separate unordered runs get separate containers",
			input: "- a\n\n- b",
			want:  "<ul>\n<li>a</li>\n</ul>\n\n<ul>\n<li>b</li>\n</ul>",
		},
		{
			name:  "ordered list items are not wrapped",
			input: "1. a\n2. b",
			want:  "<li>a</li>\n<li>b</li>",
		},
		{
			name:  "blockquote per line",
			input: "> first\n> second",
			want:  "<blockquote>first</blockquote>\n<blockquote>second</blockquote>",
		},
		{
			name:  "horizontal rule",
			input: "---",
			want:  "<hr>",
		},
		{
			name:  "link",
			input: "see [the channel](https://example.com) for more",
			want:  "<p>\nsee <a href=\"https://example.com\">the channel</a> for more\n</p>",
		},
		{
			name:  "image on its own line is not a paragraph",
			input: "![a rose](/images/rose.jpg)",
			want:  "<img src=\"/images/rose.jpg\" alt=\"a rose\">",
		},
		{
			name:  "inline code",
			input: "run `go build` first",
			want:  "<p>\nrun <code>go build</code> first\n</p>",
		},
		{
			name:  "inline code is escaped",
			input: "`<script>`",
			want:  "<p>\n<code>&lt;script&gt;</code>\n</p>",
		},
		{
			name:  "fenced code block with language",
			input: "```go\nx := 1\n```",
			want:  "<pre><code class=\"language-go\">x := 1</code></pre>",
		},
		{
			name:  "fenced code block without language",
			input: "```\nplain code\n```",
			want:  "<pre><code>plain code</code></pre>",
		},
		{
			name:  "markdown inside a code fence is left alone",
			input: "```\n# not a heading\n- not a list\n```",
			want:  "<pre><code># not a heading\n- not a list</code></pre>",
		},
		{
			name:  "bold list item",
			input: "- **Zone 9a** sounds nice until July",
			want:  "<ul>\n<li><strong>Zone 9a</strong> sounds nice until July</li>\n</ul>",
		},
		{
			name:  "paragraph closes at a blank line",
			input: "first paragraph\n\nsecond paragraph",
			want:  "<p>\nfirst paragraph\n</p>\n\n<p>\nsecond paragraph\n</p>",
		},
		{
			name:  "paragraph closes at a block line",
			input: "intro text\n## Section",
			want:  "<p>\nintro text\n</p>\n<h2>Section</h2>",
		},
		{
			name:  "mixed document",
			input: "# Title\n\nintro\n\n- a\n- b\n\noutro",
			want:  "<h1>Title</h1>\n\n<p>\nintro\n</p>\n\n<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n\n<p>\noutro\n</p>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := RenderMarkdown(tc.input)
			assert.Equal(t, tc.want, output)
		})
	}
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	input := "# Title\n\nSome *prose* with a [link](https://example.com).\n\n- one\n- two\n\n```go\nx := 1\n```"

	first := RenderMarkdown(input)
	second := RenderMarkdown(input)

	assert.Equal(t, first, second)
}
