// Package timeline extracts a recipe's method as steps grouped by canonical
// timeline marker and component.
package timeline

import (
	"fmt"
	"regexp"
	"strings"

	"mise/internal/recipe"
)

// Warning records a timeline heading that did not match any known marker
// form and was filed under Service.
type Warning struct {
	Heading string `json:"heading"`
	Marker  string `json:"marker"`
}

func (w Warning) String() string {
	return fmt.Sprintf("unrecognized timeline marker %q filed under %s", w.Heading, w.Marker)
}

// Report describes how a timeline was extracted.
type Report struct {
	Format recipe.Format
	// Strategy names the cascade stage that produced the timeline, or is
	// empty when every stage came up empty.
	Strategy string
	Timeline Map
	Warnings []Warning
}

// source is the input to one strategy run.
type source struct {
	markdown string
	format   recipe.Format
	warnings []Warning
}

func (s *source) marker(heading string) string {
	canonical, ok := ParseMarker(heading)
	if !ok {
		s.warnings = append(s.warnings, Warning{Heading: strings.TrimSpace(heading), Marker: canonical})
	}
	return canonical
}

type strategy struct {
	name string
	run  func(src *source) Map
}

// cascade is tried in order until a strategy yields at least one step.
var cascade = []strategy{
	{"kombu-cod", kombuCodTimeline},
	{"section-based", sectionTimeline},
	{"generic", genericTimeline},
	{"inline", inlineTimeline},
	{"default", defaultTimeline},
}

// Extract returns the timeline of a recipe body. It never fails; a body
// without any recognizable method yields an empty map.
func Extract(markdown string) Map {
	return Inspect(markdown).Timeline
}

// Inspect runs the extraction cascade and reports which stage succeeded
// and which headings fell back to Service.
func Inspect(markdown string) Report {
	markdown = recipe.NormalizeNewlines(markdown)
	format := recipe.DetectFormat(markdown)

	for _, st := range cascade {
		src := &source{markdown: markdown, format: format}
		tl := st.run(src)
		tl.Compact()
		if tl.Count() > 0 {
			return Report{Format: format, Strategy: st.name, Timeline: tl, Warnings: src.warnings}
		}
	}
	return Report{Format: format}
}

var (
	kombuTimelineStart = regexp.MustCompile(`(?i)^## METHOD BY TIMELINE\s*$`)
	markerHeading      = regexp.MustCompile(`(?m)^### ([^\n]+)$`)
	summaryHeading     = regexp.MustCompile(`(?i)timeline\s*summary|at\s+service\s+you\s+are`)
	methodHeading      = regexp.MustCompile(`^### Method\s*\(([^)]+)\)\s*$`)
	platingStart       = regexp.MustCompile(`^## Plating\s*$`)
	assemblyHeading    = regexp.MustCompile(`^### Assembly`)
	prepHeading        = regexp.MustCompile(`^### Prep`)
	genericHeading     = regexp.MustCompile(`(?m)^###[ \t]+([^\n]+)$`)
	inlineHeading      = regexp.MustCompile(`^#{3,} Method\s*\(([^)]+)\)\s*$`)
	bareMethodStart    = regexp.MustCompile(`(?i)^#{2,}\s*method\s*$`)
)

// kombuCodTimeline reads "### <marker>" blocks under "## METHOD BY TIMELINE".
func kombuCodTimeline(src *source) Map {
	var tl Map
	if src.format != recipe.KombuCod {
		return tl
	}

	lines, ok := recipe.SectionAfter(src.markdown, kombuTimelineStart.MatchString, isLevelTwoHeading)
	if !ok {
		return tl
	}

	for _, b := range splitOnHeadings(strings.Join(lines, "\n"), markerHeading) {
		if summaryHeading.MatchString(b.heading) || !LooksLikeMarker(b.heading) {
			continue
		}
		parseBlock(strings.TrimSpace(b.body), tl.At(src.marker(b.heading)))
	}
	return tl
}

// sectionTimeline reads the "### Method (<marker>)" list of every component
// block, plus the "## Plating" section's assembly and prep lists.
func sectionTimeline(src *source) Map {
	var tl Map
	if src.format != recipe.SectionBased {
		return tl
	}

	for _, block := range recipe.ComponentBlocks(src.markdown) {
		var marker string
		method, ok := recipe.SectionAfter(strings.Join(block.Lines, "\n"), func(line string) bool {
			m := methodHeading.FindStringSubmatch(line)
			if m != nil {
				marker = src.marker(m[1])
			}
			return m != nil
		}, isLevelThreeHeading)
		if !ok {
			continue
		}
		if steps := firstSteps(strings.Join(method, "\n"), listParsers); len(steps) > 0 {
			tl.At(marker).Set(block.Name, escapeAll(steps))
		}
	}

	plating, ok := recipe.SectionAfter(src.markdown, platingStart.MatchString, isLevelTwoHeading)
	if !ok {
		return tl
	}
	section := strings.Join(plating, "\n")

	if assembly, ok := recipe.SectionAfter(section, assemblyHeading.MatchString, isLevelThreeHeading); ok {
		if steps := numberedSteps(strings.Join(assembly, "\n")); len(steps) > 0 {
			tl.At(Service).Set("Assembly", escapeAll(steps))
		}
	}
	if prep, ok := recipe.SectionAfter(section, prepHeading.MatchString, isLevelThreeHeading); ok {
		if steps := bulletSteps(strings.Join(prep, "\n")); len(steps) > 0 {
			tl.At(DayOf).Set("Plating Prep", escapeAll(steps))
		}
	}
	return tl
}

// genericTimeline treats any "### " heading that reads like a marker as a
// timeline block running to the next "### " heading.
func genericTimeline(src *source) Map {
	var tl Map
	for _, b := range splitOnHeadings(src.markdown, genericHeading) {
		heading := strings.TrimSpace(b.heading)
		if !LooksLikeMarker(heading) {
			continue
		}
		parseBlock(b.body, tl.At(src.marker(heading)))
	}
	return tl
}

// inlineTimeline collects "### Method (<marker>)" lists wherever they are.
func inlineTimeline(src *source) Map {
	var tl Map

	lines := strings.Split(src.markdown, "\n")
	for i, line := range lines {
		m := inlineHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var body []string
		for _, l := range lines[i+1:] {
			if isLevelTwoHeading(l) || isLevelThreeHeading(l) {
				break
			}
			body = append(body, l)
		}
		marker := src.marker(strings.TrimSpace(m[1]))
		tl.Append(marker, defaultComponent, escapeAll(firstSteps(strings.Join(body, "\n"), listParsers))...)
	}
	return tl
}

// defaultMarker is where a method without any timing information is filed.
const defaultMarker = "T-1h"

// defaultTimeline files the steps of a bare "## Method" section under T-1h.
func defaultTimeline(src *source) Map {
	var tl Map

	lines, ok := recipe.SectionAfter(src.markdown, bareMethodStart.MatchString, func(line string) bool {
		return strings.HasPrefix(line, "##") && (len(line) == 2 || line[2] == ' ' || line[2] == '\t')
	})
	if !ok {
		return tl
	}

	if steps := firstSteps(strings.Join(lines, "\n"), listParsers); len(steps) > 0 {
		tl.Append(defaultMarker, defaultComponent, escapeAll(steps)...)
	}
	return tl
}

type headedBlock struct {
	heading string
	body    string
}

// splitOnHeadings returns each heading matched by re with the text up to the
// next match. Text before the first heading is dropped.
func splitOnHeadings(text string, re *regexp.Regexp) []headedBlock {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]headedBlock, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, headedBlock{
			heading: strings.TrimSpace(text[loc[2]:loc[3]]),
			body:    text[loc[1]:end],
		})
	}
	return blocks
}

func isLevelTwoHeading(line string) bool {
	return strings.HasPrefix(line, "## ")
}

func isLevelThreeHeading(line string) bool {
	return strings.HasPrefix(line, "### ")
}
