package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"mise/internal/markdown"
	"mise/internal/recipe"
	"mise/internal/timeline"
)

// AddRecipe parses, validates and stores a new recipe document under a
// fresh unique slug.
func (a *App) AddRecipe(ctx context.Context, source string) (*recipe.Recipe, error) {
	doc, err := recipe.ParseDocument(source)
	if err != nil {
		return nil, err
	}

	var rec recipe.Recipe
	err = a.db.InTx(ctx, func(tx *sql.Tx) error {
		recipes := a.recipes.WithTx(tx)
		slug, err := recipe.UniqueSlug(recipe.GenerateSlug(doc.Title), func(s string) (bool, error) {
			return recipes.SlugExists(ctx, s)
		})
		if err != nil {
			return err
		}

		now := a.timestamp()
		rec = recipe.Recipe{
			ID:        a.newID(),
			Slug:      slug,
			Document:  *doc,
			Content:   markdown.Render(doc.Body),
			CreatedAt: now,
			UpdatedAt: now,
		}
		return recipes.Insert(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("recipe added", zap.String("slug", rec.Slug), zap.String("title", rec.Title))
	return &rec, nil
}

// UpdateRecipe replaces the document of an existing recipe. Its slug does
// not change. Every meal containing the recipe is marked stale; the number
// of such meals is returned.
func (a *App) UpdateRecipe(ctx context.Context, slug, source string) (*recipe.Recipe, int64, error) {
	doc, err := recipe.ParseDocument(source)
	if err != nil {
		return nil, 0, err
	}

	var (
		rec   *recipe.Recipe
		stale int64
	)
	err = a.db.InTx(ctx, func(tx *sql.Tx) error {
		recipes := a.recipes.WithTx(tx)
		existing, err := recipes.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		existing.Document = *doc
		existing.Content = markdown.Render(doc.Body)
		existing.UpdatedAt = a.timestamp()
		if err := recipes.Update(ctx, *existing); err != nil {
			return err
		}

		stale, err = a.meals.WithTx(tx).MarkStaleForRecipe(ctx, slug, existing.UpdatedAt)
		if err != nil {
			return err
		}
		rec = existing
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	a.logger.Info("recipe updated", zap.String("slug", slug), zap.Int64("stale_meals", stale))
	return rec, stale, nil
}

// DeleteRecipe soft-deletes a recipe. Meals containing it keep their copy,
// flagged is_deleted, and are marked stale; the number of such meals is
// returned.
func (a *App) DeleteRecipe(ctx context.Context, slug string) (int64, error) {
	var stale int64
	err := a.db.InTx(ctx, func(tx *sql.Tx) error {
		now := a.timestamp()
		if err := a.recipes.WithTx(tx).SoftDelete(ctx, slug, now); err != nil {
			return err
		}

		meals := a.meals.WithTx(tx)
		if _, err := meals.MarkRecipeDeleted(ctx, slug, now); err != nil {
			return err
		}
		var err error
		stale, err = meals.MarkStaleForRecipe(ctx, slug, now)
		return err
	})
	if err != nil {
		return 0, err
	}

	a.logger.Info("recipe deleted", zap.String("slug", slug), zap.Int64("stale_meals", stale))
	return stale, nil
}

// GetRecipe returns a live recipe.
func (a *App) GetRecipe(ctx context.Context, slug string) (*recipe.Recipe, error) {
	return a.recipes.GetBySlug(ctx, slug)
}

// ListRecipes returns every live recipe ordered by title.
func (a *App) ListRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipes.List(ctx)
}

// Inspection is the extracted structure of a recipe document, as it would
// appear in a meal snapshot.
type Inspection struct {
	Format      recipe.Format
	Strategy    string
	Ingredients recipe.ComponentMap
	Timeline    timeline.Map
	Warnings    []timeline.Warning
	HTML        string
}

// InspectRecipe runs extraction on a document without storing it.
// Frontmatter is optional.
func InspectRecipe(source string) Inspection {
	body := recipe.Body(source)
	report := timeline.Inspect(body)
	return Inspection{
		Format:      report.Format,
		Strategy:    report.Strategy,
		Ingredients: recipe.ExtractIngredients(body),
		Timeline:    report.Timeline,
		Warnings:    report.Warnings,
		HTML:        markdown.Render(body),
	}
}

// Rerender renders the stored HTML of every live recipe again and saves it
// where it changed. It returns how many recipes were updated.
func (a *App) Rerender(ctx context.Context) (int, error) {
	updated := 0
	err := a.db.InTx(ctx, func(tx *sql.Tx) error {
		recipes := a.recipes.WithTx(tx)
		all, err := recipes.List(ctx)
		if err != nil {
			return err
		}

		for _, rec := range all {
			content := markdown.Render(rec.Body)
			if content == rec.Content {
				continue
			}
			if err := recipes.UpdateContent(ctx, rec.ID, content); err != nil {
				return err
			}
			a.logger.Debug("re-rendered recipe", zap.String("slug", rec.Slug))
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to re-render recipes: %w", err)
	}

	a.logger.Info("re-rendered recipes", zap.Int("updated", updated))
	return updated, nil
}
