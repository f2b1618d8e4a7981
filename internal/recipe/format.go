package recipe

import "regexp"

// Format identifies which markdown dialect a recipe body is written in.
type Format int

const (
	// Simple documents have a "## Ingredients" section with optional
	// bold or sub-heading groups. Unrecognized documents are Simple too.
	Simple Format = iota
	// KombuCod documents use "## INGREDIENTS" with "### Component" groups
	// and a "## METHOD BY TIMELINE" section.
	KombuCod
	// SectionBased documents are split into "## Component N — Name"
	// blocks, each with an ingredient table and a timed method.
	SectionBased
)

func (f Format) String() string {
	switch f {
	case KombuCod:
		return "kombu-cod"
	case SectionBased:
		return "section-based"
	default:
		return "simple"
	}
}

var (
	kombuIngredientsLine = regexp.MustCompile(`(?m)^## INGREDIENTS$`)
	kombuTimelineLine    = regexp.MustCompile(`(?m)^## METHOD BY TIMELINE$`)
	componentBlockLine   = regexp.MustCompile(`(?m)^## Component \d+ [—–-]`)
)

// DetectFormat classifies a recipe body. It always returns a format.
func DetectFormat(markdown string) Format {
	markdown = NormalizeNewlines(markdown)

	if kombuIngredientsLine.MatchString(markdown) && kombuTimelineLine.MatchString(markdown) {
		return KombuCod
	}
	if componentBlockLine.MatchString(markdown) {
		return SectionBased
	}
	return Simple
}
