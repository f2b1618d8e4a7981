// Package meal stores meals: ordered groups of recipes together with the
// snapshot generated from them.
package meal

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"mise/internal/recipe"
	"mise/internal/snapshot"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	DefaultMaxRecipes    = 20

	slugChars       = "bcdfghjkmnpqrstvwxyz23456789"
	slugSuffixLen   = 6
	slugMaxAttempts = 5
)

var recipeSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Meal is a stored meal with its embedded snapshot.
type Meal struct {
	ID          string                `json:"id"`
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Description string                `json:"description,omitempty"`
	Snapshot    snapshot.MealSnapshot `json:"snapshot"`
	IsStale     bool                  `json:"is_stale"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// Summary is the list view of a meal.
type Summary struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	RecipeCount  int       `json:"recipe_count"`
	TimelineSpan string    `json:"timeline_span"`
	IsStale      bool      `json:"is_stale"`
	CreatedAt    time.Time `json:"created_at"`
}

// Input is the user-supplied part of a meal. Recipes lists recipe slugs in
// course order.
type Input struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Recipes     []string `json:"recipes"`
}

// Validate checks a complete meal input, as submitted on create.
func (in Input) Validate(maxRecipes int) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, titleRules...),
		validation.Field(&in.Description, descriptionRules...),
		validation.Field(&in.Recipes, recipeRules(maxRecipes)...),
	)
}

var (
	titleRules = []validation.Rule{
		validation.Required.Error("Title is required"),
		validation.RuneLength(0, MaxTitleLength).Error("Title too long (max 200 characters)"),
	}
	descriptionRules = []validation.Rule{
		validation.RuneLength(0, MaxDescriptionLength).Error("Description too long (max 1000 characters)"),
	}
)

func recipeRules(maxRecipes int) []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("At least one recipe is required"),
		validation.Length(0, maxRecipes).Error("Maximum " + strconv.Itoa(maxRecipes) + " recipes per meal"),
		validation.Each(validation.Match(recipeSlugPattern).Error("Invalid slug format")),
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Recipes     []string `json:"recipes"`
}

// Validate checks only the fields the patch sets.
func (p Patch) Validate(maxRecipes int) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.When(p.Title != nil, titleRules...)),
		validation.Field(&p.Description, validation.When(p.Description != nil, descriptionRules...)),
		validation.Field(&p.Recipes, validation.When(p.Recipes != nil, recipeRules(maxRecipes)...)),
	)
}

// Apply returns in with the patch applied.
func (p Patch) Apply(in Input) Input {
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Recipes != nil {
		in.Recipes = p.Recipes
	}
	return in
}

// GenerateSlug returns the recipe-style slug of title followed by a random
// suffix.
func GenerateSlug(title string) string {
	return recipe.GenerateSlug(title) + "-" + randomSuffix()
}

// UniqueSlug generates slugs until exists reports one as free. After a few
// collisions it falls back to a time-derived suffix.
func UniqueSlug(title string, exists func(string) (bool, error)) (string, error) {
	for range slugMaxAttempts {
		slug := GenerateSlug(title)
		taken, err := exists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	sum := md5.Sum([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	return recipe.GenerateSlug(title) + "-" + hex.EncodeToString(sum[:])[:slugSuffixLen], nil
}

func randomSuffix() string {
	b := make([]byte, slugSuffixLen)
	limit := big.NewInt(int64(len(slugChars)))
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % limit.Int64())
		}
		b[i] = slugChars[n.Int64()]
	}
	return string(b)
}
