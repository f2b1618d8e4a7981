package recipe

import (
	"regexp"
	"strings"

	"mise/internal/sanitize"
)

const defaultComponent = "Main"

var (
	subHeadingLine     = regexp.MustCompile(`^### (.+)$`)
	bulletLine         = regexp.MustCompile(`^[-*]\s*(.+)$`)
	ruleLine           = regexp.MustCompile(`^(?:(?:-\s*){3,}|(?:\*\s*){3,}|(?:_\s*){3,})$`)
	componentHeading   = regexp.MustCompile(`^## Component \d+ [—–-] (.+)$`)
	ingredientsHeading = regexp.MustCompile(`^### Ingredients\s*$`)
	tableHeaderRow     = regexp.MustCompile(`(?i)^\|?\s*Ingredient`)
	tableRow           = regexp.MustCompile(`^\|?\s*([^|]+)\|([^|]+)\|?([^|]*)\|?`)
	simpleSectionStart = regexp.MustCompile(`(?i)^\s*#{2,}\s*ingredients\s*$`)
	simpleGroupHeading = regexp.MustCompile(`^#{2,3}\s+(.+)`)
	boldGroupLine      = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)
)

// ExtractIngredients pulls the ingredient lists out of a recipe body using
// the strategy for its dialect. Every entry is HTML-escaped and components
// without entries are dropped. Unparseable structure yields an empty map.
func ExtractIngredients(markdown string) ComponentMap {
	markdown = NormalizeNewlines(markdown)
	return ExtractIngredientsAs(DetectFormat(markdown), markdown)
}

// ExtractIngredientsAs runs the strategy for a known format.
func ExtractIngredientsAs(format Format, markdown string) ComponentMap {
	markdown = NormalizeNewlines(markdown)

	var m ComponentMap
	switch format {
	case KombuCod:
		m = kombuIngredients(markdown)
	case SectionBased:
		m = sectionIngredients(markdown)
	default:
		m = simpleIngredients(markdown)
	}
	m.Compact()
	return m
}

func kombuIngredients(markdown string) ComponentMap {
	var m ComponentMap

	lines, ok := sectionAfter(markdown, func(line string) bool {
		return strings.TrimRight(line, " \t") == "## INGREDIENTS"
	}, isLevelTwoHeading)
	if !ok {
		return m
	}

	current := defaultComponent
	m.Ensure(current)
	for _, line := range lines {
		if sub := subHeadingLine.FindStringSubmatch(line); sub != nil {
			current = componentName(sub[1])
			m.Reset(current)
			continue
		}
		if item, ok := bulletItem(line); ok {
			m.Append(current, item)
		}
	}
	return m
}

func sectionIngredients(markdown string) ComponentMap {
	var m ComponentMap

	for _, block := range componentBlocks(markdown) {
		table, ok := sectionAfter(strings.Join(block.Lines, "\n"), func(line string) bool {
			return ingredientsHeading.MatchString(line)
		}, isLevelThreeHeading)
		if !ok {
			continue
		}
		m.Set(block.Name, tableIngredients(table))
	}
	return m
}

func tableIngredients(lines []string) []string {
	var items []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "---") || tableHeaderRow.MatchString(line) {
			continue
		}
		cells := tableRow.FindStringSubmatch(line)
		if cells == nil {
			if item, ok := bulletItem(line); ok {
				items = append(items, item)
			}
			continue
		}
		item := strings.TrimSpace(cells[1])
		amount := strings.TrimSpace(cells[2])
		notes := strings.TrimSpace(cells[3])
		if item == "" {
			continue
		}

		combined := amount + " " + item
		if notes != "" {
			combined += ", " + strings.ToLower(notes)
		}
		items = append(items, sanitize.EscapeHTML(strings.TrimSpace(combined)))
	}
	return items
}

func simpleIngredients(markdown string) ComponentMap {
	var m ComponentMap

	lines, ok := sectionAfter(markdown, simpleSectionStart.MatchString, func(line string) bool {
		return strings.HasPrefix(line, "##") && (len(line) == 2 || line[2] == ' ' || line[2] == '\t')
	})
	if !ok {
		return m
	}

	current := defaultComponent
	m.Ensure(current)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if sub := simpleGroupHeading.FindStringSubmatch(line); sub != nil {
			current = componentName(sub[1])
			m.Reset(current)
			continue
		}
		if sub := boldGroupLine.FindStringSubmatch(line); sub != nil {
			current = componentName(strings.TrimSuffix(strings.TrimSpace(sub[1]), ":"))
			m.Reset(current)
			continue
		}
		if item, ok := bulletItem(line); ok {
			m.Append(current, item)
		}
	}
	return m
}

// ComponentBlock is one "## Component N — Name" section of a
// section-based document, without its heading line.
type ComponentBlock struct {
	Name  string
	Lines []string
}

func componentBlocks(markdown string) []ComponentBlock {
	var blocks []ComponentBlock
	var current *ComponentBlock

	for _, line := range strings.Split(markdown, "\n") {
		if sub := componentHeading.FindStringSubmatch(line); sub != nil {
			blocks = append(blocks, ComponentBlock{Name: componentName(sub[1])})
			current = &blocks[len(blocks)-1]
			continue
		}
		if isLevelTwoHeading(line) {
			current = nil
			continue
		}
		if current != nil {
			current.Lines = append(current.Lines, line)
		}
	}
	return blocks
}

// ComponentBlocks returns every component block of a section-based body.
func ComponentBlocks(markdown string) []ComponentBlock {
	return componentBlocks(NormalizeNewlines(markdown))
}

// sectionAfter returns the lines following the first line accepted by start,
// up to (not including) the first later line accepted by end.
func sectionAfter(markdown string, start, end func(string) bool) ([]string, bool) {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		if !start(line) {
			continue
		}
		var section []string
		for _, l := range lines[i+1:] {
			if end(l) {
				break
			}
			section = append(section, l)
		}
		return section, true
	}
	return nil, false
}

// SectionAfter is sectionAfter over a normalized body.
func SectionAfter(markdown string, start, end func(string) bool) ([]string, bool) {
	return sectionAfter(NormalizeNewlines(markdown), start, end)
}

func bulletItem(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "**") || ruleLine.MatchString(line) {
		return "", false
	}
	sub := bulletLine.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	item := strings.TrimSpace(sub[1])
	if item == "" {
		return "", false
	}
	return sanitize.EscapeHTML(item), true
}

func componentName(raw string) string {
	return sanitize.EscapeHTML(strings.TrimSpace(raw))
}

func isLevelTwoHeading(line string) bool {
	return strings.HasPrefix(line, "## ")
}

func isLevelThreeHeading(line string) bool {
	return strings.HasPrefix(line, "### ")
}
