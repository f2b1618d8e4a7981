package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mise/internal/recipe/recipedb"
)

// ErrNotFound is returned when no live recipe has the requested slug.
var ErrNotFound = errors.New("recipe not found")

// Repository is a database-backed repository for recipes.
type Repository struct {
	queries *recipedb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: recipedb.New(d),
		db:      d,
	}
}

// WithTx returns a repository whose queries run inside tx.
func (r *Repository) WithTx(tx *sql.Tx) *Repository {
	return &Repository{
		queries: r.queries.WithTx(tx),
		db:      r.db,
	}
}

// Insert stores a new recipe. ID, CreatedAt and UpdatedAt must be set.
func (r *Repository) Insert(ctx context.Context, rec Recipe) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe tags: %w", err)
	}

	err = r.queries.InsertRecipe(ctx, recipedb.InsertRecipeParams{
		ID:         rec.ID,
		Slug:       rec.Slug,
		Title:      rec.Title,
		Subtitle:   nullString(rec.Subtitle),
		Category:   string(rec.Category),
		Difficulty: string(rec.Difficulty),
		Serves:     int64(rec.Serves),
		ActiveTime: rec.ActiveTime,
		TotalTime:  rec.TotalTime,
		Tags:       string(tags),
		Markdown:   rec.Markdown,
		Content:    rec.Content,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert recipe %s: %w", rec.Slug, err)
	}
	return nil
}

// Update replaces the document and content of the live recipe rec.Slug.
func (r *Repository) Update(ctx context.Context, rec Recipe) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe tags: %w", err)
	}

	n, err := r.queries.UpdateRecipe(ctx, recipedb.UpdateRecipeParams{
		Title:      rec.Title,
		Subtitle:   nullString(rec.Subtitle),
		Category:   string(rec.Category),
		Difficulty: string(rec.Difficulty),
		Serves:     int64(rec.Serves),
		ActiveTime: rec.ActiveTime,
		TotalTime:  rec.TotalTime,
		Tags:       string(tags),
		Markdown:   rec.Markdown,
		Content:    rec.Content,
		UpdatedAt:  rec.UpdatedAt,
		Slug:       rec.Slug,
	})
	if err != nil {
		return fmt.Errorf("failed to update recipe %s: %w", rec.Slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateContent replaces only the rendered HTML of a recipe.
func (r *Repository) UpdateContent(ctx context.Context, id, content string) error {
	err := r.queries.UpdateRecipeContent(ctx, recipedb.UpdateRecipeContentParams{Content: content, ID: id})
	if err != nil {
		return fmt.Errorf("failed to update content of recipe %s: %w", id, err)
	}
	return nil
}

// GetBySlug retrieves a live recipe. It returns ErrNotFound if there is none.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Recipe, error) {
	row, err := r.queries.GetRecipeBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by slug: %w", err)
	}
	return fromRow(row)
}

// SlugExists reports whether any recipe, deleted or not, uses slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.queries.CountRecipesBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check recipe slug: %w", err)
	}
	return n > 0, nil
}

// SoftDelete marks a recipe deleted. It returns ErrNotFound if it is not live.
func (r *Repository) SoftDelete(ctx context.Context, slug string, at time.Time) error {
	n, err := r.queries.SoftDeleteRecipe(ctx, recipedb.SoftDeleteRecipeParams{
		DeletedAt: sql.NullTime{Time: at, Valid: true},
		UpdatedAt: at,
		Slug:      slug,
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %s: %w", slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List retrieves all live recipes ordered by title.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.queries.ListRecipes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipes := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rec)
	}
	return recipes, nil
}

// Count returns the number of live recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	count, err := r.queries.CountRecipes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return int(count), nil
}

func fromRow(row recipedb.Recipe) (*Recipe, error) {
	var tags []string
	if err := json.Unmarshal([]byte(row.Tags), &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tags of recipe %s: %w", row.Slug, err)
	}

	return &Recipe{
		ID:   row.ID,
		Slug: row.Slug,
		Document: Document{
			Metadata: Metadata{
				Title:      row.Title,
				Subtitle:   row.Subtitle.String,
				Category:   Category(row.Category),
				Difficulty: Difficulty(row.Difficulty),
				Serves:     int(row.Serves),
				ActiveTime: row.ActiveTime,
				TotalTime:  row.TotalTime,
				Tags:       tags,
			},
			Markdown: row.Markdown,
			Body:     Body(row.Markdown),
		},
		Content:   row.Content,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
