package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mise/internal/recipe"
)

const defaultConcurrency = 4

// RecipeSource resolves recipe identifiers to live recipes. GetBySlug
// returns recipe.ErrNotFound for unknown or deleted recipes.
type RecipeSource interface {
	GetBySlug(ctx context.Context, slug string) (*recipe.Recipe, error)
}

// Result is a generated snapshot together with the extraction warnings of
// its member recipes.
type Result struct {
	Snapshot *MealSnapshot
	Warnings []Warning
}

// Generator fetches member recipes and assembles meal snapshots.
type Generator struct {
	logger      *zap.Logger
	now         func() time.Time
	concurrency int
}

// NewGenerator returns a Generator that logs extraction warnings to logger.
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{
		logger:      logger,
		now:         time.Now,
		concurrency: defaultConcurrency,
	}
}

// Generate builds the snapshot of slugs, in the given course order. If any
// slug does not resolve, it returns a *RecipeNotFoundError and no snapshot.
func (g *Generator) Generate(ctx context.Context, src RecipeSource, slugs []string) (*Result, error) {
	recipes, err := g.fetch(ctx, src, slugs)
	if err != nil {
		return nil, err
	}

	snap, warnings := Assemble(recipes, g.now())
	for _, w := range warnings {
		g.logger.Warn("timeline marker fell back to service",
			zap.String("recipe", w.Slug),
			zap.String("heading", w.Heading),
		)
	}
	g.logger.Debug("generated meal snapshot",
		zap.Int("recipes", len(snap.Recipes)),
		zap.Int("markers", len(snap.TimelineMarkers)),
		zap.Int("ingredients", len(snap.AggregatedIngredients)),
	)

	return &Result{Snapshot: snap, Warnings: warnings}, nil
}

func (g *Generator) fetch(ctx context.Context, src RecipeSource, slugs []string) ([]*recipe.Recipe, error) {
	recipes := make([]*recipe.Recipe, len(slugs))
	errs := make([]error, len(slugs))

	// Lookups share the caller's context only, so a failure never cancels
	// an earlier slug and the first missing slug in course order wins.
	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, slug := range slugs {
		eg.Go(func() error {
			rec, err := src.GetBySlug(ctx, slug)
			switch {
			case errors.Is(err, recipe.ErrNotFound):
				errs[i] = &RecipeNotFoundError{Slug: slug}
			case err != nil:
				errs[i] = fmt.Errorf("failed to fetch recipe %s: %w", slug, err)
			default:
				recipes[i] = rec
			}
			return errs[i]
		})
	}

	if err := eg.Wait(); err != nil {
		for _, e := range errs {
			if errors.Is(e, ErrRecipeNotFound) {
				return nil, e
			}
		}
		return nil, err
	}
	return recipes, nil
}
