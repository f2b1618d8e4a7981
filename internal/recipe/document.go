package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrMissingFrontMatter is returned for documents without a frontmatter block.
var ErrMissingFrontMatter = errors.New("recipe document has no frontmatter")

// frontMatter receives the raw frontmatter values before validation. Fields
// are untyped so that a wrong type is reported as a field error instead of a
// decode failure.
type frontMatter struct {
	Title      any `yaml:"title" toml:"title" json:"title"`
	Subtitle   any `yaml:"subtitle" toml:"subtitle" json:"subtitle"`
	Category   any `yaml:"category" toml:"category" json:"category"`
	Difficulty any `yaml:"difficulty" toml:"difficulty" json:"difficulty"`
	Serves     any `yaml:"serves" toml:"serves" json:"serves"`
	ActiveTime any `yaml:"active_time" toml:"active_time" json:"active_time"`
	TotalTime  any `yaml:"total_time" toml:"total_time" json:"total_time"`
	Tags       any `yaml:"tags" toml:"tags" json:"tags"`
}

// ParseDocument splits a submitted recipe into validated metadata and body.
// Validation failures are returned as validation.Errors keyed by field name.
func ParseDocument(markdown string) (*Document, error) {
	markdown = NormalizeNewlines(markdown)

	var raw frontMatter
	body, err := frontmatter.MustParse(bytes.NewReader([]byte(strings.TrimSpace(markdown))), &raw)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, ErrMissingFrontMatter
		}
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	meta, err := validateFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	return &Document{
		Metadata: meta,
		Markdown: markdown,
		Body:     strings.TrimSpace(string(body)),
	}, nil
}

// Body returns the markdown that follows the frontmatter block, or the whole
// input when there is none.
func Body(markdown string) string {
	markdown = NormalizeNewlines(markdown)

	var raw frontMatter
	body, err := frontmatter.Parse(bytes.NewReader([]byte(strings.TrimSpace(markdown))), &raw)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(string(body))
}

func validateFrontMatter(raw frontMatter) (Metadata, error) {
	errs := validation.Errors{}
	var meta Metadata

	if s, ok := nonEmptyString(raw.Title); ok {
		meta.Title = s
	} else {
		errs["title"] = validation.NewError("recipe.title_invalid", "Title must be a non-empty string")
	}

	category, _ := raw.Category.(string)
	if err := validation.Validate(category, validation.Required, validation.In(enumValues(Categories)...)); err != nil {
		errs["category"] = validation.NewError("recipe.category_invalid", "Category must be one of: "+joinEnum(Categories))
	} else {
		meta.Category = Category(category)
	}

	difficulty, _ := raw.Difficulty.(string)
	if err := validation.Validate(difficulty, validation.Required, validation.In(enumValues(Difficulties)...)); err != nil {
		errs["difficulty"] = validation.NewError("recipe.difficulty_invalid", "Difficulty must be one of: "+joinEnum(Difficulties))
	} else {
		meta.Difficulty = Difficulty(difficulty)
	}

	if s, ok := nonEmptyString(raw.ActiveTime); ok {
		meta.ActiveTime = s
	} else {
		errs["active_time"] = validation.NewError("recipe.active_time_invalid", "Active time must be a non-empty string")
	}

	if s, ok := nonEmptyString(raw.TotalTime); ok {
		meta.TotalTime = s
	} else {
		errs["total_time"] = validation.NewError("recipe.total_time_invalid", "Total time must be a non-empty string")
	}

	serves, ok := wholeNumber(raw.Serves)
	if err := validation.Validate(serves, validation.Min(1)); !ok || err != nil {
		errs["serves"] = validation.NewError("recipe.serves_invalid", "Serves must be a positive integer")
	} else {
		meta.Serves = serves
	}

	tags, ok := raw.Tags.([]any)
	switch {
	case !ok || len(tags) == 0:
		errs["tags"] = validation.NewError("recipe.tags_required", "Tags must be a non-empty array")
	default:
		for _, tag := range tags {
			s, ok := nonEmptyString(tag)
			if !ok {
				errs["tags"] = validation.NewError("recipe.tags_invalid", "Tags must be an array of non-empty strings")
				meta.Tags = nil
				break
			}
			meta.Tags = append(meta.Tags, s)
		}
	}

	if raw.Subtitle != nil {
		if s, ok := raw.Subtitle.(string); ok {
			meta.Subtitle = strings.TrimSpace(s)
		} else {
			errs["subtitle"] = validation.NewError("recipe.subtitle_invalid", "Subtitle must be a string if provided")
		}
	}

	if len(errs) > 0 {
		return Metadata{}, errs
	}
	return meta, nil
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// wholeNumber accepts the integer representations the YAML, TOML and JSON
// decoders produce.
func wholeNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func enumValues[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
