package timeline

import (
	"encoding/json"
	"reflect"
	"testing"

	"mise/internal/recipe"
)

const kombuCod = `## INGREDIENTS
- 200g butter

## METHOD BY TIMELINE

### T – 24 HOURS
**1. Cure the cod** Rub the cod with the miso cure.
**2. Make the dashi** Soak kombu overnight.

### DAY OF
#### Kombu Dashi
1. Soak the kombu.
2. Heat gently to 60°C.

#### Cod
- Rinse the *cure* off.

### TIMELINE SUMMARY
- T-24h cure

### SERVICE
- Plate and serve.

## NOTES
Keep it cold.
`

const sectionBased = `## Component 1 — Tofu Custard

### Ingredients
| Ingredient | Amount | Notes |
|---|---|---|
| silken tofu | 150g | Drained |

### Method (T – 2 h)
1. Blend the tofu.
2. Set in the fridge.

## Component 2 – Glaze

### Method (T-30m)
1. Whisk the glaze.

## Plating

### Assembly
1. Spoon custard into bowls.
2. Brush with glaze.

### Prep (day of)
- Warm the bowls.
`

func TestExtract(t *testing.T) {
	t.Run("KombuCod", func(t *testing.T) {
		r := Inspect(kombuCod)
		if r.Format != recipe.KombuCod || r.Strategy != "kombu-cod" {
			t.Fatalf("Expected kombu-cod strategy, got %s/%q", r.Format, r.Strategy)
		}

		tl := r.Timeline
		if !reflect.DeepEqual(tl.Markers(), []string{"T-24h", "Day-of", "Service"}) {
			t.Fatalf("unexpected markers %v", tl.Markers())
		}
		assertSteps(t, tl, "T-24h", "Main", "Cure the cod", "Make the dashi")
		assertSteps(t, tl, "Day-of", "Kombu Dashi", "Soak the kombu.", "Heat gently to 60°C.")
		assertSteps(t, tl, "Day-of", "Cod", "Rinse the cure off.")
		assertSteps(t, tl, "Service", "Main", "Plate and serve.")
		if len(r.Warnings) != 0 {
			t.Errorf("Expected no warnings, got %v", r.Warnings)
		}
	})

	t.Run("SectionBased", func(t *testing.T) {
		r := Inspect(sectionBased)
		if r.Strategy != "section-based" {
			t.Fatalf("Expected section-based strategy, got %q", r.Strategy)
		}

		tl := r.Timeline
		if !reflect.DeepEqual(tl.Markers(), []string{"T-2h", "T-30m", "Service", "Day-of"}) {
			t.Fatalf("unexpected markers %v", tl.Markers())
		}
		assertSteps(t, tl, "T-2h", "Tofu Custard", "Blend the tofu.", "Set in the fridge.")
		assertSteps(t, tl, "T-30m", "Glaze", "Whisk the glaze.")
		assertSteps(t, tl, "Service", "Assembly", "Spoon custard into bowls.", "Brush with glaze.")
		assertSteps(t, tl, "Day-of", "Plating Prep", "Warm the bowls.")
	})

	t.Run("Generic", func(t *testing.T) {
		doc := "## Ingredients\n- egg\n\n## Method\n\n### T-6h\n1. Brine the chicken.\n\n### Day of\n1. Dry the skin.\n\n### Plating\n1. Carve.\n"
		r := Inspect(doc)
		if r.Strategy != "generic" {
			t.Fatalf("Expected generic strategy, got %q", r.Strategy)
		}
		assertSteps(t, r.Timeline, "T-6h", "Main", "Brine the chicken.")
		assertSteps(t, r.Timeline, "Day-of", "Main", "Dry the skin.")
		assertSteps(t, r.Timeline, "Service", "Main", "Carve.")
	})

	t.Run("Inline", func(t *testing.T) {
		doc := "## Sauce\n\n### Method (T – 45 min)\n1. Reduce the stock.\n2. Mount with butter.\n\n## Garnish\n\n### Method (T-2h or earlier)\n1. Pickle the shallots.\n"
		r := Inspect(doc)
		if r.Strategy != "inline" {
			t.Fatalf("Expected inline strategy, got %q", r.Strategy)
		}
		if !reflect.DeepEqual(r.Timeline.Markers(), []string{"T-45m", "T-2h"}) {
			t.Fatalf("unexpected markers %v", r.Timeline.Markers())
		}
		assertSteps(t, r.Timeline, "T-45m", "Main", "Reduce the stock.", "Mount with butter.")
		assertSteps(t, r.Timeline, "T-2h", "Main", "Pickle the shallots.")
	})

	t.Run("DefaultMethod", func(t *testing.T) {
		doc := "## Ingredients\n- bread\n\n## Method\n\nA short intro.\n\n1. Toast the bread.\n2. Spread the **butter**.\n\n## Notes\nEat warm.\n"
		r := Inspect(doc)
		if r.Strategy != "default" {
			t.Fatalf("Expected default strategy, got %q", r.Strategy)
		}
		if !reflect.DeepEqual(r.Timeline.Markers(), []string{"T-1h"}) {
			t.Fatalf("unexpected markers %v", r.Timeline.Markers())
		}
		assertSteps(t, r.Timeline, "T-1h", "Main", "Toast the bread.", "Spread the butter.")
	})

	t.Run("Nothing", func(t *testing.T) {
		r := Inspect("# Title\n\nJust prose.")
		if r.Strategy != "" || r.Timeline.Len() != 0 {
			t.Errorf("Expected empty result, got %q with %v", r.Strategy, r.Timeline.Markers())
		}
	})

	t.Run("UnrecognizedMarkerWarns", func(t *testing.T) {
		doc := "### Method (sometime soon)\n1. Do it.\n"
		r := Inspect(doc)
		assertSteps(t, r.Timeline, "Service", "Main", "Do it.")
		want := []Warning{{Heading: "sometime soon", Marker: "Service"}}
		if !reflect.DeepEqual(r.Warnings, want) {
			t.Errorf("Expected warnings %v, got %v", want, r.Warnings)
		}
	})

	t.Run("EscapesSteps", func(t *testing.T) {
		doc := "## Method\n1. Heat to <b>180</b> & rest.\n"
		assertSteps(t, Extract(doc), "T-1h", "Main", "Heat to &lt;b&gt;180&lt;/b&gt; &amp; rest.")
	})

	t.Run("KeysAreCanonical", func(t *testing.T) {
		for _, doc := range []string{kombuCod, sectionBased} {
			for _, marker := range Extract(doc).Markers() {
				if Normalize(marker) != marker {
					t.Errorf("marker %q is not canonical", marker)
				}
			}
		}
	})
}

func TestCleanStepText(t *testing.T) {
	tests := map[string]string{
		"**1. Cure** the *cod*  now\n\n## Notes\nignore": "Cure the cod now",
		"3. Rest   for\n10 minutes":                     "Rest for 10 minutes",
		"stray * star":                                  "stray star",
		"":                                              "",
	}
	for in, want := range tests {
		if got := CleanStepText(in); got != want {
			t.Errorf("CleanStepText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapJSON(t *testing.T) {
	tl := Extract(kombuCod)
	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatal(err)
	}

	var back Map
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(back.Markers(), tl.Markers()) {
		t.Errorf("marker order lost: %v vs %v", back.Markers(), tl.Markers())
	}
	if !reflect.DeepEqual(back.Get("Day-of").Names(), []string{"Kombu Dashi", "Cod"}) {
		t.Errorf("component order lost: %v", back.Get("Day-of").Names())
	}

	var empty Map
	if err := json.Unmarshal([]byte(`[]`), &empty); err != nil || empty.Len() != 0 {
		t.Errorf("Expected [] to decode as empty timeline, got %v", err)
	}
}

func assertSteps(t *testing.T, tl Map, marker, component string, want ...string) {
	t.Helper()
	if got := tl.Get(marker).Get(component); !reflect.DeepEqual(got, want) {
		t.Errorf("%s/%s: Expected %q, got %q", marker, component, want, got)
	}
}
