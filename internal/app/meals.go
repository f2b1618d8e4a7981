package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mise/internal/meal"
	"mise/internal/recipe"
	"mise/internal/snapshot"
)

// CreateMeal validates in, generates the snapshot of its recipes and
// stores the meal, all in one transaction. A missing recipe aborts the
// whole operation with a *snapshot.RecipeNotFoundError.
func (a *App) CreateMeal(ctx context.Context, in meal.Input) (*meal.Meal, error) {
	in = normalizeInput(in)
	if err := in.Validate(a.cfg.MaxMealRecipes); err != nil {
		return nil, err
	}

	start := a.now()
	var (
		created *meal.Meal
		res     *snapshot.Result
	)
	err := a.db.InTx(ctx, func(tx *sql.Tx) error {
		meals := a.meals.WithTx(tx)

		var err error
		res, err = a.generator.Generate(ctx, a.recipes.WithTx(tx), in.Recipes)
		if err != nil {
			return fmt.Errorf("failed to generate meal snapshot: %w", err)
		}

		slug, err := meal.UniqueSlug(in.Title, func(s string) (bool, error) {
			return meals.SlugExists(ctx, s)
		})
		if err != nil {
			return err
		}

		now := a.timestamp()
		m := meal.Meal{
			ID:          a.newID(),
			Slug:        slug,
			Title:       in.Title,
			Description: in.Description,
			Snapshot:    *res.Snapshot,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := meals.Insert(ctx, m); err != nil {
			return err
		}
		created = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.recordGeneration(ctx, created.Slug, "create", res, a.now().Sub(start))
	a.logger.Info("meal created",
		zap.String("slug", created.Slug),
		zap.Int("recipes", len(created.Snapshot.Recipes)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return created, nil
}

// UpdateMeal applies a partial update. A new recipe list regenerates the
// snapshot and clears the stale flag; otherwise the snapshot is kept.
func (a *App) UpdateMeal(ctx context.Context, slug string, patch meal.Patch) (*meal.Meal, error) {
	patch = normalizePatch(patch)
	if err := patch.Validate(a.cfg.MaxMealRecipes); err != nil {
		return nil, err
	}

	start := a.now()
	var (
		updated *meal.Meal
		res     *snapshot.Result
	)
	err := a.db.InTx(ctx, func(tx *sql.Tx) error {
		meals := a.meals.WithTx(tx)
		m, err := meals.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		in := patch.Apply(meal.Input{Title: m.Title, Description: m.Description, Recipes: m.Snapshot.Slugs()})
		m.Title = in.Title
		m.Description = in.Description

		if patch.Recipes != nil {
			res, err = a.generator.Generate(ctx, a.recipes.WithTx(tx), in.Recipes)
			if err != nil {
				return fmt.Errorf("failed to generate meal snapshot: %w", err)
			}
			m.Snapshot = *res.Snapshot
			m.IsStale = false
		}

		m.UpdatedAt = a.timestamp()
		if err := meals.Update(ctx, *m); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res != nil {
		a.recordGeneration(ctx, slug, "update", res, a.now().Sub(start))
	}
	a.logger.Info("meal updated", zap.String("slug", slug), zap.Bool("regenerated", res != nil))
	return updated, nil
}

// RefreshMeal regenerates a meal's snapshot from the current versions of
// its recipes. Recipes that no longer exist are dropped from the meal and
// returned.
func (a *App) RefreshMeal(ctx context.Context, slug string) (*meal.Meal, []string, error) {
	start := a.now()
	var (
		refreshed *meal.Meal
		dropped   []string
		res       *snapshot.Result
	)
	err := a.db.InTx(ctx, func(tx *sql.Tx) error {
		meals := a.meals.WithTx(tx)
		recipes := a.recipes.WithTx(tx)

		m, err := meals.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		var live []string
		for _, s := range m.Snapshot.Slugs() {
			_, err := recipes.GetBySlug(ctx, s)
			switch {
			case errors.Is(err, recipe.ErrNotFound):
				dropped = append(dropped, s)
			case err != nil:
				return err
			default:
				live = append(live, s)
			}
		}

		res, err = a.generator.Generate(ctx, recipes, live)
		if err != nil {
			return fmt.Errorf("failed to generate meal snapshot: %w", err)
		}

		m.Snapshot = *res.Snapshot
		m.IsStale = false
		m.UpdatedAt = a.timestamp()
		if err := meals.Update(ctx, *m); err != nil {
			return err
		}
		refreshed = m
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	a.recordGeneration(ctx, slug, "refresh", res, a.now().Sub(start))
	if len(dropped) > 0 {
		a.logger.Warn("dropped deleted recipes from meal", zap.String("slug", slug), zap.Strings("recipes", dropped))
	}
	a.logger.Info("meal refreshed", zap.String("slug", slug), zap.Int("recipes", len(refreshed.Snapshot.Recipes)))
	return refreshed, dropped, nil
}

// GetMeal returns a live meal with its snapshot.
func (a *App) GetMeal(ctx context.Context, slug string) (*meal.Meal, error) {
	return a.meals.GetBySlug(ctx, slug)
}

// ListMeals returns summaries of every live meal, newest first.
func (a *App) ListMeals(ctx context.Context) ([]meal.Summary, error) {
	return a.meals.List(ctx)
}

// DeleteMeal soft-deletes a meal.
func (a *App) DeleteMeal(ctx context.Context, slug string) error {
	if err := a.meals.SoftDelete(ctx, slug, a.timestamp()); err != nil {
		return err
	}
	a.logger.Info("meal deleted", zap.String("slug", slug))
	return nil
}

// ExportMeal writes the meal's current snapshot to the export directory,
// replacing older exports of the same meal. It reports the file path and
// whether anything was written.
func (a *App) ExportMeal(ctx context.Context, slug string) (string, bool, error) {
	m, err := a.meals.GetBySlug(ctx, slug)
	if err != nil {
		return "", false, err
	}

	path, written, err := a.exports.Export(m)
	if err != nil {
		return "", false, fmt.Errorf("failed to export meal %s: %w", slug, err)
	}
	if m.IsStale {
		a.logger.Warn("exported a stale meal snapshot", zap.String("slug", slug))
	}
	a.logger.Debug("meal export", zap.String("path", path), zap.Bool("written", written))
	return path, written, nil
}

func normalizeInput(in meal.Input) meal.Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Recipes = trimAll(in.Recipes)
	return in
}

func normalizePatch(p meal.Patch) meal.Patch {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
	}
	if p.Description != nil {
		d := strings.TrimSpace(*p.Description)
		p.Description = &d
	}
	if p.Recipes != nil {
		p.Recipes = trimAll(p.Recipes)
	}
	return p
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
