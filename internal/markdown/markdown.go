// Package markdown renders the free-form body of a recipe document to HTML.
//
// Only the subset recipe authors use is supported: headings, emphasis, lists,
// code, links, rules and paragraphs. Raw HTML in the source is always escaped
// and the result is passed through the sanitizer.
package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"

	"mise/internal/sanitize"
)

var (
	fencePattern      = regexp.MustCompile("(?s)```(\\w*)\\n(.*?)```")
	inlineCodePattern = regexp.MustCompile("`([^`\\n]+)`")
	headingPattern    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)
	ruleLinePattern   = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	linkPattern       = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	bulletListPattern = regexp.MustCompile(`(?m)^- .+(?:\n- .+)*`)
	bulletItemPattern = regexp.MustCompile(`(?m)^- (.+)$`)
	orderedListPat    = regexp.MustCompile(`(?m)^\d+\. .+(?:\n\d+\. .+)*`)
	orderedItemPat    = regexp.MustCompile(`(?m)^\d+\. (.+)$`)
	blankLines        = regexp.MustCompile(`\n{2,}`)
	blockTagPattern   = regexp.MustCompile(`^<(h[1-6]|ul|ol|pre|hr|blockquote)`)
	slugRunPattern    = regexp.MustCompile(`[^a-z0-9]+`)

	// RE2 has no lookaround; bold markers must not be split into two italics.
	italicStar       = regexp2.MustCompile(`(?<!\*)\*([^*\n]+)\*(?!\*)`, regexp2.None)
	italicUnderscore = regexp2.MustCompile(`(?<!_)_([^_\n]+)_(?!_)`, regexp2.None)
)

// Render converts markdown to sanitized HTML.
func Render(source string) string {
	return sanitize.HTML(render(source))
}

// HeadingID derives the anchor id used for a heading's text.
func HeadingID(text string) string {
	id := slugRunPattern.ReplaceAllString(strings.ToLower(text), "-")
	return strings.Trim(id, "-")
}

func render(source string) string {
	text := strings.ReplaceAll(source, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")

	text = html.EscapeString(text)

	var codes stash
	text = fencePattern.ReplaceAllStringFunc(text, func(m string) string {
		parts := fencePattern.FindStringSubmatch(m)
		body := html.EscapeString(html.UnescapeString(parts[2]))
		open := "<pre><code>"
		if parts[1] != "" {
			open = `<pre><code class="language-` + parts[1] + `">`
		}
		return codes.put(blockKind, open+body+"</code></pre>")
	})
	text = inlineCodePattern.ReplaceAllStringFunc(text, func(m string) string {
		inner := inlineCodePattern.FindStringSubmatch(m)[1]
		return codes.put(inlineKind, "<code>"+inner+"</code>")
	})

	text = headingPattern.ReplaceAllStringFunc(text, func(m string) string {
		parts := headingPattern.FindStringSubmatch(m)
		level := strconv.Itoa(len(parts[1]))
		title := strings.TrimSpace(parts[2])
		id := HeadingID(codes.plain(title))
		return "<h" + level + ` id="` + id + `">` + title + "</h" + level + ">"
	})

	text = ruleLinePattern.ReplaceAllString(text, "<hr>")
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = replaceLookaround(italicStar, text, "<em>$1</em>")
	text = replaceLookaround(italicUnderscore, text, "<em>$1</em>")
	text = linkPattern.ReplaceAllString(text, `<a href="$2">$1</a>`)

	text = bulletListPattern.ReplaceAllStringFunc(text, func(m string) string {
		return "<ul>\n" + bulletItemPattern.ReplaceAllString(m, "<li>$1</li>") + "\n</ul>"
	})
	text = orderedListPat.ReplaceAllStringFunc(text, func(m string) string {
		return "<ol>\n" + orderedItemPat.ReplaceAllString(m, "<li>$1</li>") + "\n</ol>"
	})

	text = paragraphs(text)
	return codes.restore(text)
}

func paragraphs(text string) string {
	var blocks []string
	for _, block := range blankLines.Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if blockTagPattern.MatchString(block) || isBlockToken(block) {
			blocks = append(blocks, block)
			continue
		}
		blocks = append(blocks, "<p>"+strings.ReplaceAll(block, "\n", "<br>\n")+"</p>")
	}
	return strings.Join(blocks, "\n\n")
}

func replaceLookaround(re *regexp2.Regexp, input, replacement string) string {
	out, err := re.Replace(input, replacement, -1, -1)
	if err != nil {
		return input
	}
	return out
}
