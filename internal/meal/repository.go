package meal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"mise/internal/meal/meal_db"
	"mise/internal/snapshot"
)

// ErrNotFound is returned when no live meal has the requested slug.
var ErrNotFound = errors.New("meal not found")

// Repository is a database-backed repository for meals.
type Repository struct {
	queries *mealdb.Queries
	db      *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{
		queries: mealdb.New(d),
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

// Insert stores a new meal. ID, CreatedAt and UpdatedAt must be set.
func (r *Repository) Insert(ctx context.Context, m Meal) error {
	snap, err := json.Marshal(m.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal meal snapshot: %w", err)
	}

	err = r.queries.InsertMeal(ctx, mealdb.InsertMealParams{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Description: nullString(m.Description),
		Snapshot:    string(snap),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to insert meal %s: %w", m.Slug, err)
	}
	return nil
}

// Update replaces the title, description, snapshot and stale flag of the
// live meal m.Slug.
func (r *Repository) Update(ctx context.Context, m Meal) error {
	snap, err := json.Marshal(m.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal meal snapshot: %w", err)
	}

	n, err := r.queries.UpdateMeal(ctx, mealdb.UpdateMealParams{
		Title:       m.Title,
		Description: nullString(m.Description),
		Snapshot:    string(snap),
		IsStale:     boolToInt(m.IsStale),
		UpdatedAt:   m.UpdatedAt,
		Slug:        m.Slug,
	})
	if err != nil {
		return fmt.Errorf("failed to update meal %s: %w", m.Slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetBySlug retrieves a live meal. It returns ErrNotFound if there is none.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*Meal, error) {
	row, err := r.queries.GetMealBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get meal by slug: %w", err)
	}
	return fromRow(row)
}

// SlugExists reports whether any meal, deleted or not, uses slug.
func (r *Repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.queries.CountMealsBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("failed to check meal slug: %w", err)
	}
	return n > 0, nil
}

// List returns summaries of all live meals, newest first. Summaries are
// read straight from the stored snapshot JSON without decoding it.
func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.queries.ListMeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}

	summaries := make([]Summary, 0, len(rows))
	for _, row := range rows {
		var markers []string
		if first := gjson.Get(row.Snapshot, "timeline_markers.0"); first.Exists() {
			markers = []string{first.String()}
		}
		summaries = append(summaries, Summary{
			Slug:         row.Slug,
			Title:        row.Title,
			Description:  row.Description.String,
			RecipeCount:  int(gjson.Get(row.Snapshot, "recipes.#").Int()),
			TimelineSpan: snapshot.TimelineSpan(markers),
			IsStale:      row.IsStale != 0,
			CreatedAt:    row.CreatedAt,
		})
	}
	return summaries, nil
}

// SoftDelete marks a meal deleted. It returns ErrNotFound if it is not live.
func (r *Repository) SoftDelete(ctx context.Context, slug string, at time.Time) error {
	n, err := r.queries.SoftDeleteMeal(ctx, mealdb.SoftDeleteMealParams{
		DeletedAt: sql.NullTime{Time: at, Valid: true},
		UpdatedAt: at,
		Slug:      slug,
	})
	if err != nil {
		return fmt.Errorf("failed to delete meal %s: %w", slug, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkStaleForRecipe flags every live meal whose snapshot contains
// recipeSlug as stale and returns how many were flagged.
func (r *Repository) MarkStaleForRecipe(ctx context.Context, recipeSlug string, at time.Time) (int64, error) {
	n, err := r.queries.MarkMealsStaleForRecipe(ctx, mealdb.MarkMealsStaleForRecipeParams{
		UpdatedAt:  at,
		RecipeSlug: recipeSlug,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark meals stale for recipe %s: %w", recipeSlug, err)
	}
	return n, nil
}

// MarkRecipeDeleted sets is_deleted on every embedded copy of recipeSlug in
// live meal snapshots, leaving the rest of each snapshot untouched. It
// returns how many meals were rewritten.
func (r *Repository) MarkRecipeDeleted(ctx context.Context, recipeSlug string, at time.Time) (int, error) {
	rows, err := r.queries.ListMealsContainingRecipe(ctx, recipeSlug)
	if err != nil {
		return 0, fmt.Errorf("failed to list meals containing recipe %s: %w", recipeSlug, err)
	}

	for _, row := range rows {
		raw := row.Snapshot
		for i, slug := range gjson.Get(raw, "recipes.#.slug").Array() {
			if slug.String() != recipeSlug {
				continue
			}
			raw, err = sjson.Set(raw, fmt.Sprintf("recipes.%d.is_deleted", i), true)
			if err != nil {
				return 0, fmt.Errorf("failed to mark recipe deleted in meal %s: %w", row.Slug, err)
			}
		}

		err = r.queries.UpdateMealSnapshot(ctx, mealdb.UpdateMealSnapshotParams{
			Snapshot:  raw,
			UpdatedAt: at,
			ID:        row.ID,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to update snapshot of meal %s: %w", row.Slug, err)
		}
	}
	return len(rows), nil
}

// Count returns the number of live meals and how many of them are stale.
func (r *Repository) Count(ctx context.Context) (total, stale int, err error) {
	n, err := r.queries.CountMeals(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count meals: %w", err)
	}
	s, err := r.queries.CountStaleMeals(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count stale meals: %w", err)
	}
	return int(n), int(s), nil
}

func fromRow(row mealdb.Meal) (*Meal, error) {
	var snap snapshot.MealSnapshot
	if err := json.Unmarshal([]byte(row.Snapshot), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot of meal %s: %w", row.Slug, err)
	}

	return &Meal{
		ID:          row.ID,
		Slug:        row.Slug,
		Title:       row.Title,
		Description: row.Description.String,
		Snapshot:    snap,
		IsStale:     row.IsStale != 0,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
