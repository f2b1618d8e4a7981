package recipe

import (
	"strings"
	"time"
)

// Category classifies a recipe's course.
type Category string

const (
	CategoryMain    Category = "main"
	CategoryStarter Category = "starter"
	CategoryDessert Category = "dessert"
	CategorySide    Category = "side"
	CategoryDrink   Category = "drink"
	CategorySauce   Category = "sauce"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryMain, CategoryStarter, CategoryDessert, CategorySide, CategoryDrink, CategorySauce}

// Difficulty is the author's effort rating.
type Difficulty string

const (
	DifficultyEasy         Difficulty = "easy"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Difficulties lists every accepted difficulty.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyIntermediate, DifficultyAdvanced}

// Metadata is the validated frontmatter of a recipe document.
type Metadata struct {
	Title      string     `json:"title"`
	Subtitle   string     `json:"subtitle,omitempty"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Serves     int        `json:"serves"`
	ActiveTime string     `json:"active_time"`
	TotalTime  string     `json:"total_time"`
	Tags       []string   `json:"tags"`
}

// Document is a parsed recipe: the raw markdown as submitted plus its
// frontmatter and the body that follows it.
type Document struct {
	Metadata
	Markdown string `json:"markdown"`
	Body     string `json:"-"`
}

// Recipe is a stored recipe record.
type Recipe struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Document
	// Content is the rendered, sanitized HTML of the body.
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
