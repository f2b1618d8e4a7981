package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"mise/internal/app"
	"mise/internal/meal"
	"mise/internal/recipe"
	"mise/internal/snapshot"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app.App, args []string) error
}

var commandOrder = []string{
	"recipe-add", "recipe-update", "recipe-delete", "recipe-show", "recipe-list", "inspect",
	"meal-create", "meal-update", "meal-refresh", "meal-show", "meal-list", "meal-delete", "meal-export",
	"rerender", "metrics-usage", "metrics-cleanup", "stats",
}

var commands = map[string]command{
	"recipe-add":      {"Add a recipe from a markdown file", recipeAdd},
	"recipe-update":   {"Replace a recipe's markdown: <slug> <file>", recipeUpdate},
	"recipe-delete":   {"Delete a recipe: <slug>", recipeDelete},
	"recipe-show":     {"Print a stored recipe as JSON: <slug>", recipeShow},
	"recipe-list":     {"List recipes", recipeList},
	"inspect":         {"Show what extraction finds in a markdown file", inspect},
	"meal-create":     {"Create a meal: -title -description -recipes a,b", mealCreate},
	"meal-update":     {"Update a meal: <slug> [-title] [-description] [-recipes]", mealUpdate},
	"meal-refresh":    {"Regenerate a meal's snapshot: <slug>", mealRefresh},
	"meal-show":       {"Print a meal and its snapshot as JSON: <slug>", mealShow},
	"meal-list":       {"List meals", mealList},
	"meal-delete":     {"Delete a meal: <slug>", mealDelete},
	"meal-export":     {"Export a meal snapshot to the export directory: <slug>", mealExport},
	"rerender":        {"Re-render the stored HTML of every recipe", rerender},
	"metrics-usage":   {"Show daily snapshot generation totals", metricsUsage},
	"metrics-cleanup": {"Remove old metric records", metricsCleanup},
	"stats":           {"Show stored data counts and process health", stats},
}

func positional(args []string, n int, names string) error {
	if len(args) != n {
		return fmt.Errorf("expected arguments: %s", names)
	}
	return nil
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func splitSlugs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

func recipeAdd(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<file>"); err != nil {
		return err
	}
	source, err := readFile(args[0])
	if err != nil {
		return err
	}
	rec, err := a.AddRecipe(ctx, source)
	if err != nil {
		return err
	}
	fmt.Printf("Added recipe %q as %s.\n", rec.Title, rec.Slug)
	return nil
}

func recipeUpdate(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 2, "<slug> <file>"); err != nil {
		return err
	}
	source, err := readFile(args[1])
	if err != nil {
		return err
	}
	rec, stale, err := a.UpdateRecipe(ctx, args[0], source)
	if err != nil {
		return err
	}
	fmt.Printf("Updated recipe %s. %s marked stale.\n", rec.Slug, plural(stale, "meal"))
	return nil
}

func recipeDelete(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	stale, err := a.DeleteRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Deleted recipe %s. %s marked stale.\n", args[0], plural(stale, "meal"))
	return nil
}

func recipeShow(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	rec, err := a.GetRecipe(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(rec)
}

func recipeList(ctx context.Context, a *app.App, _ []string) error {
	recipes, err := a.ListRecipes(ctx)
	if err != nil {
		return err
	}
	for _, r := range recipes {
		fmt.Printf("%-40s %-30s %-8s %s, updated %s\n", r.Slug, r.Title, r.Category, r.Difficulty, humanize.Time(r.UpdatedAt))
	}
	fmt.Printf("%s.\n", plural(int64(len(recipes)), "recipe"))
	return nil
}

func inspect(_ context.Context, _ *app.App, args []string) error {
	if err := positional(args, 1, "<file>"); err != nil {
		return err
	}
	source, err := readFile(args[0])
	if err != nil {
		return err
	}

	in := app.InspectRecipe(source)
	strategy := in.Strategy
	if strategy == "" {
		strategy = "none"
	}
	fmt.Printf("Format:   %s\nStrategy: %s\n", in.Format, strategy)

	fmt.Println("\nIngredients:")
	in.Ingredients.Each(func(component string, items []string) {
		fmt.Printf("  %s\n", component)
		for _, item := range items {
			fmt.Printf("    - %s\n", item)
		}
	})

	fmt.Println("\nTimeline:")
	for _, marker := range in.Timeline.Markers() {
		fmt.Printf("  %s\n", marker)
		in.Timeline.Get(marker).Each(func(component string, steps []string) {
			fmt.Printf("    %s\n", component)
			for i, step := range steps {
				fmt.Printf("      %d. %s\n", i+1, step)
			}
		})
	}

	for _, w := range in.Warnings {
		fmt.Printf("\nWarning: %s\n", w)
	}
	return nil
}

func mealCreate(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("meal-create", flag.ExitOnError)
	title := fs.String("title", "", "Meal title")
	description := fs.String("description", "", "Meal description")
	recipes := fs.String("recipes", "", "Comma-separated recipe slugs in course order")
	fs.Parse(args)

	m, err := a.CreateMeal(ctx, meal.Input{
		Title:       *title,
		Description: *description,
		Recipes:     splitSlugs(*recipes),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created meal %q as %s with %s.\n", m.Title, m.Slug, plural(int64(len(m.Snapshot.Recipes)), "recipe"))
	return nil
}

func mealUpdate(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("expected arguments: <slug> [-title] [-description] [-recipes]")
	}
	slug := args[0]

	fs := flag.NewFlagSet("meal-update", flag.ExitOnError)
	title := fs.String("title", "", "New meal title")
	description := fs.String("description", "", "New meal description")
	recipes := fs.String("recipes", "", "New comma-separated recipe slugs")
	fs.Parse(args[1:])

	var patch meal.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "description":
			patch.Description = description
		case "recipes":
			patch.Recipes = splitSlugs(*recipes)
		}
	})

	m, err := a.UpdateMeal(ctx, slug, patch)
	if err != nil {
		return err
	}
	fmt.Printf("Updated meal %s.\n", m.Slug)
	return nil
}

func mealRefresh(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	m, dropped, err := a.RefreshMeal(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Refreshed meal %s: %s, %s.\n", m.Slug,
		plural(int64(len(m.Snapshot.Recipes)), "recipe"), m.Snapshot.TimelineSpan())
	if len(dropped) > 0 {
		fmt.Printf("Dropped deleted recipes: %s\n", strings.Join(dropped, ", "))
	}
	return nil
}

func mealShow(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	m, err := a.GetMeal(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(m)
}

func mealList(ctx context.Context, a *app.App, _ []string) error {
	meals, err := a.ListMeals(ctx)
	if err != nil {
		return err
	}
	for _, m := range meals {
		stale := ""
		if m.IsStale {
			stale = " (stale)"
		}
		fmt.Printf("%-40s %-30s %2d recipes  %-16s created %s%s\n",
			m.Slug, m.Title, m.RecipeCount, m.TimelineSpan, humanize.Time(m.CreatedAt), stale)
	}
	fmt.Printf("%s.\n", plural(int64(len(meals)), "meal"))
	return nil
}

func mealDelete(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	if err := a.DeleteMeal(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted meal %s.\n", args[0])
	return nil
}

func mealExport(ctx context.Context, a *app.App, args []string) error {
	if err := positional(args, 1, "<slug>"); err != nil {
		return err
	}
	path, written, err := a.ExportMeal(ctx, args[0])
	if err != nil {
		return err
	}
	if written {
		fmt.Printf("Exported meal %s to %s.\n", args[0], path)
	} else {
		fmt.Printf("Export of meal %s is up to date at %s.\n", args[0], path)
	}
	return nil
}

func rerender(ctx context.Context, a *app.App, _ []string) error {
	n, err := a.Rerender(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Re-rendered %s.\n", plural(int64(n), "recipe"))
	return nil
}

func metricsUsage(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-usage", flag.ExitOnError)
	days := fs.Int("days", 7, "Show the last N days")
	fs.Parse(args)

	usage, err := a.Usage(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("%-10s %11s %8s %8s %12s\n", "Day", "Generations", "Recipes", "Warnings", "Avg latency")
	for _, u := range usage {
		fmt.Printf("%-10s %11s %8s %8s %12s\n", u.Date,
			humanize.Comma(int64(u.Generations)),
			humanize.Comma(int64(u.TotalRecipes)),
			humanize.Comma(int64(u.TotalWarnings)),
			u.AvgLatency)
	}
	return nil
}

func metricsCleanup(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := fs.Int("days", 0, "Keep records for the last N days (default: configured retention)")
	fs.Parse(args)

	affected, err := a.CleanupMetrics(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}

func stats(ctx context.Context, a *app.App, _ []string) error {
	s, err := a.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Recipes:     %s\n", humanize.Comma(int64(s.Recipes)))
	fmt.Printf("Meals:       %s (%s stale)\n", humanize.Comma(int64(s.Meals)), humanize.Comma(int64(s.StaleMeals)))
	fmt.Printf("Memory:      %s allocated, %s from system, %d GCs\n", s.Health.Alloc, s.Health.Sys, s.Health.NumGC)
	fmt.Printf("Goroutines:  %d\n", s.Health.Goroutines)

	paths := make([]string, 0, len(s.Health.DiskUsage))
	for p := range s.Health.DiskUsage {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Printf("Disk:        %s %s\n", p, s.Health.DiskUsage[p])
	}
	return nil
}

func plural(n int64, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(n) + " " + noun + "s"
}

func reportError(name string, err error) {
	var verrs validation.Errors
	var missing *snapshot.RecipeNotFoundError
	switch {
	case errors.As(err, &verrs):
		fmt.Fprintf(os.Stderr, "%s: invalid input\n", name)
		fields := make([]string, 0, len(verrs))
		for field := range verrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", field, verrs[field])
		}
	case errors.As(err, &missing):
		fmt.Fprintf(os.Stderr, "%s: recipe not found: %s\n", name, missing.Slug)
	case errors.Is(err, recipe.ErrNotFound), errors.Is(err, meal.ErrNotFound):
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
	default:
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", name, err)
	}
}
