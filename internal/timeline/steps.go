package timeline

import (
	"regexp"
	"strings"

	"mise/internal/recipe"
	"mise/internal/sanitize"
)

const defaultComponent = "Main"

var (
	trailingSection   = regexp.MustCompile(`(?s)\s*##\s+.*`)
	boldMarkup        = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicMarkup      = regexp.MustCompile(`\*(.+?)\*`)
	ordinalPrefix     = regexp.MustCompile(`^\d+\.\s*`)
	whitespaceRun     = regexp.MustCompile(`\s+`)
	numberedItemStart = regexp.MustCompile(`(?m)^\d+\.\s+`)
	bulletItemLine    = regexp.MustCompile(`(?m)^[ \t]*[-*]\s+(.+)$`)
	boldNumbered      = regexp.MustCompile(`\*\*(\d+)\.\s*([^*]+)\*\*`)
	boldNumberedLine  = regexp.MustCompile(`(?m)^\*\*\d+\.\s*([^*\n]+)\*\*`)
	subComponentLine  = regexp.MustCompile(`(?m)^#### ([^\n]+)$`)
)

// CleanStepText strips markdown from a step: any trailing "##" section,
// bold and italic markup, a leading ordinal, and repeated whitespace.
func CleanStepText(text string) string {
	text = trailingSection.ReplaceAllString(text, "")
	text = boldMarkup.ReplaceAllString(text, "$1")
	text = italicMarkup.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "*", "")
	text = ordinalPrefix.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// stepParser pulls raw step texts out of a block. An empty result means
// the block is not written in that style.
type stepParser func(block string) []string

// blockParsers are tried in order inside a timeline block.
var blockParsers = []stepParser{
	inlineBoldSteps,
	lineBoldSteps,
	numberedSteps,
	bulletSteps,
}

// listParsers are used where a block is a plain list.
var listParsers = []stepParser{
	numberedSteps,
	bulletSteps,
}

func firstSteps(block string, parsers []stepParser) []string {
	for _, parse := range parsers {
		if steps := parse(block); len(steps) > 0 {
			return steps
		}
	}
	return nil
}

func inlineBoldSteps(block string) []string {
	var steps []string
	for _, m := range boldNumbered.FindAllStringSubmatch(block, -1) {
		steps = appendClean(steps, m[2])
	}
	return steps
}

func lineBoldSteps(block string) []string {
	var steps []string
	for _, m := range boldNumberedLine.FindAllStringSubmatch(block, -1) {
		steps = appendClean(steps, m[1])
	}
	return steps
}

// numberedSteps splits a block on "N. " list items. Text before the first
// item is not a step.
func numberedSteps(block string) []string {
	starts := numberedItemStart.FindAllStringIndex(block, -1)
	if len(starts) == 0 {
		return nil
	}

	var steps []string
	for i, loc := range starts {
		end := len(block)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		steps = appendClean(steps, block[loc[1]:end])
	}
	return steps
}

func bulletSteps(block string) []string {
	var steps []string
	for _, m := range bulletItemLine.FindAllStringSubmatch(block, -1) {
		steps = appendClean(steps, m[1])
	}
	return steps
}

func appendClean(steps []string, raw string) []string {
	if step := CleanStepText(raw); step != "" {
		return append(steps, step)
	}
	return steps
}

type chunk struct {
	component string
	text      string
}

// parseBlock reads a timeline block into cm. "#### Name" lines switch the
// component the following steps belong to.
func parseBlock(block string, cm *recipe.ComponentMap) {
	current := defaultComponent

	var chunks []chunk
	last := 0
	for _, loc := range subComponentLine.FindAllStringSubmatchIndex(block, -1) {
		chunks = append(chunks, chunk{current, block[last:loc[0]]})
		current = sanitize.EscapeHTML(strings.TrimSpace(block[loc[2]:loc[3]]))
		cm.Ensure(current)
		last = loc[1]
	}
	chunks = append(chunks, chunk{current, block[last:]})

	for _, c := range chunks {
		text := strings.TrimSpace(c.text)
		if text == "" {
			continue
		}
		cm.Append(c.component, escapeAll(firstSteps(text, blockParsers))...)
	}
}

func escapeAll(steps []string) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = sanitize.EscapeHTML(s)
	}
	return out
}
