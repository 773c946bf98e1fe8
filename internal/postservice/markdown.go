package postservice

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// The renderer is a fixed sequence of passes over the whole document.
// The order is load-bearing: fenced code blocks are lifted out first so
// no later pass can fire inside them, images run before links because an
// image literal contains a link literal, and bold runs before italic so
// the single-asterisk pattern never matches inside a double-asterisk
// sequence. Unordered list items are wrapped in a <ul> per contiguous
// run; ordered items are converted after that wrapping and therefore
// never get a container.
var (
	codeBlockRX  = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")
	inlineCodeRX = regexp.MustCompile("`([^`\n]+)`")
	h3RX         = regexp.MustCompile(`(?m)^### (.+)$`)
	h2RX         = regexp.MustCompile(`(?m)^## (.+)$`)
	h1RX         = regexp.MustCompile(`(?m)^# (.+)$`)
	imageRX      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	linkRX       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	boldRX       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRX     = regexp.MustCompile(`\*(.+?)\*`)
	bulletRX     = regexp.MustCompile(`(?m)^- (.+)$`)
	numberedRX   = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	quoteRX      = regexp.MustCompile(`(?m)^> (.+)$`)
	ruleRX       = regexp.MustCompile(`(?m)^---$`)
)

// RenderMarkdown converts markdown-flavored text into an HTML fragment.
// It is deterministic and total: any input produces some output, and
// unrecognized syntax passes through as literal text.
func RenderMarkdown(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	out, blocks := extractCodeBlocks(input)
	out = renderInlineCode(out)
	out = h3RX.ReplaceAllString(out, "<h3>$1</h3>")
	out = h2RX.ReplaceAllString(out, "<h2>$1</h2>")
	out = h1RX.ReplaceAllString(out, "<h1>$1</h1>")
	out = imageRX.ReplaceAllString(out, `<img src="$2" alt="$1">`)
	out = linkRX.ReplaceAllString(out, `<a href="$2">$1</a>`)
	out = boldRX.ReplaceAllString(out, "<strong>$1</strong>")
	out = italicRX.ReplaceAllString(out, "<em>$1</em>")
	out = bulletRX.ReplaceAllString(out, "<li>$1</li>")
	out = wrapBulletRuns(out)
	out = numberedRX.ReplaceAllString(out, "<li>$1</li>")
	out = quoteRX.ReplaceAllString(out, "<blockquote>$1</blockquote>")
	out = ruleRX.ReplaceAllString(out, "<hr>")
	out = wrapParagraphs(out)

	return restoreCodeBlocks(out, blocks)
}

// codeBlockToken must never collide with author text; NUL bytes cannot
// appear in valid post content.
func codeBlockToken(i int) string {
	return fmt.Sprintf("\x00code:%d\x00", i)
}

func extractCodeBlocks(s string) (string, []string) {
	var blocks []string

	out := codeBlockRX.ReplaceAllStringFunc(s, func(block string) string {
		m := codeBlockRX.FindStringSubmatch(block)
		lang := m[1]
		code := html.EscapeString(strings.TrimSpace(m[2]))

		var rendered string
		if lang == "" {
			rendered = "<pre><code>" + code + "</code></pre>"
		} else {
			rendered = fmt.Sprintf("<pre><code class=%q>%s</code></pre>", "language-"+lang, code)
		}

		blocks = append(blocks, rendered)
		return codeBlockToken(len(blocks) - 1)
	})

	return out, blocks
}

func restoreCodeBlocks(s string, blocks []string) string {
	for i, block := range blocks {
		s = strings.Replace(s, codeBlockToken(i), block, 1)
	}
	return s
}

func renderInlineCode(s string) string {
	return inlineCodeRX.ReplaceAllStringFunc(s, func(code string) string {
		m := inlineCodeRX.FindStringSubmatch(code)
		return "<code>" + html.EscapeString(m[1]) + "</code>"
	})
}

// wrapBulletRuns wraps each contiguous run of <li> lines in a single <ul>.
// It runs before the numbered-item pass, so ordered items never pick up a
// container.
func wrapBulletRuns(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	inList := false
	for _, line := range lines {
		if strings.HasPrefix(line, "<li>") {
			if !inList {
				out = append(out, "<ul>")
				inList = true
			}
			out = append(out, line)
			continue
		}

		if inList {
			out = append(out, "</ul>")
			inList = false
		}
		out = append(out, line)
	}

	if inList {
		out = append(out, "</ul>")
	}

	return strings.Join(out, "\n")
}

// blockPrefixes marks lines that are already block-level output and must
// not be wrapped in a paragraph. "<h" also covers <hr>.
var blockPrefixes = []string{"<h", "<ul", "<li", "<pre", "<blockquote", "<img", "</"}

func isBlockLine(line string) bool {
	if strings.HasPrefix(line, "\x00") {
		return true
	}

	for _, prefix := range blockPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}

	return false
}

// wrapParagraphs is a single forward scan: a paragraph opens before the
// first prose line and closes at the next blank or block-level line.
func wrapParagraphs(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	inParagraph := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isBlockLine(trimmed) {
			if inParagraph {
				out = append(out, "</p>")
				inParagraph = false
			}
			out = append(out, line)
			continue
		}

		if !inParagraph {
			out = append(out, "<p>")
			inParagraph = true
		}
		out = append(out, line)
	}

	if inParagraph {
		out = append(out, "</p>")
	}

	return strings.Join(out, "\n")
}
