package recipe

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SlugPrefix marks slugs of recipes authored through the application.
const SlugPrefix = "user-"

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text, transliterates accented letters to ASCII and
// collapses everything else into single hyphens.
func Slugify(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		ascii = strings.ToLower(text)
	}
	return strings.Trim(nonSlugRun.ReplaceAllString(ascii, "-"), "-")
}

// GenerateSlug derives the base slug for a recipe title.
func GenerateSlug(title string) string {
	s := Slugify(title)
	if s == "" {
		s = "recipe"
	}
	return SlugPrefix + s
}

// UniqueSlug appends -1, -2, ... to base until exists reports it free.
func UniqueSlug(base string, exists func(string) (bool, error)) (string, error) {
	slug := base
	for n := 1; ; n++ {
		taken, err := exists(slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug %s: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}
