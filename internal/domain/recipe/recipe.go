// Package recipe contains the recipe value types consumed by the planning
// engine. Recipes arrive from an external candidate supplier and are treated
// as immutable snapshots: the engine never mutates a recipe in place, it works
// on copies (for example to reorder tags for display).
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MealType identifies a meal slot in a plan.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnacks    MealType = "snacks"
)

// AllMealTypes lists the meal slots in plan order.
var AllMealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnacks}

// IsValid reports whether the meal type is one of the known slots.
func (m MealType) IsValid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnacks:
		return true
	}
	return false
}

// Ingredient is a single ingredient line of a recipe.
type Ingredient struct {
	Name        string `json:"name"`
	Measurement string `json:"measurement,omitempty"`
}

// Recipe is an immutable candidate recipe record.
//
// The first tag, when present, is the canonical meal type of the recipe.
type Recipe struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	PrepTime      time.Duration `json:"prep_time"`
	CookTime      time.Duration `json:"cook_time"`
	Servings      int           `json:"servings"`
	Ingredients   []Ingredient  `json:"ingredients"`
	Instructions  []string      `json:"instructions"`
	Tags          []string      `json:"tags"`
	Cuisines      []string      `json:"cuisines,omitempty"`
	EstimatedCost float64       `json:"estimated_cost"`
	Source        string        `json:"source,omitempty"`
	Popularity    int           `json:"popularity,omitempty"`
}

// Validate checks the structural invariants of a recipe record. Scorers treat
// an invalid recipe as unscorable rather than failing the whole request.
func (r Recipe) Validate() error {
	if r.ID == uuid.Nil {
		return ErrMissingID
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrMissingName
	}
	if r.Servings <= 0 {
		return ErrInvalidServings
	}
	if r.EstimatedCost < 0 {
		return ErrNegativeCost
	}
	if r.PrepTime < 0 || r.CookTime < 0 {
		return ErrNegativeTime
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	return nil
}

// TotalTime is the combined preparation and cooking time.
func (r Recipe) TotalTime() time.Duration {
	return r.PrepTime + r.CookTime
}

// PrimaryTag returns the canonical meal-type tag, or "" when untagged.
func (r Recipe) PrimaryTag() string {
	if len(r.Tags) == 0 {
		return ""
	}
	return NormalizeTag(r.Tags[0])
}

// HasTag reports whether any tag matches the given tag after normalization.
func (r Recipe) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range r.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// IngredientNames returns the ingredient names in recipe order.
func (r Recipe) IngredientNames() []string {
	names := make([]string, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// MainIngredient returns the first listed ingredient name, normalized, or ""
// for an ingredient-less record. The composite scorer uses it to penalize
// same-main-ingredient repetition inside one plan.
func (r Recipe) MainIngredient() string {
	if len(r.Ingredients) == 0 {
		return ""
	}
	return NormalizeTag(r.Ingredients[0].Name)
}

// WithPrimaryTag returns a copy of the recipe with the given tag moved (or
// added) to the front of the tag list. The receiver is left untouched.
func (r Recipe) WithPrimaryTag(tag string) Recipe {
	want := NormalizeTag(tag)
	out := r
	out.Tags = make([]string, 0, len(r.Tags)+1)
	out.Tags = append(out.Tags, want)
	for _, t := range r.Tags {
		if NormalizeTag(t) != want {
			out.Tags = append(out.Tags, t)
		}
	}
	return out
}

// NormalizeTag lowercases a tag and collapses separators so that "Gluten Free",
// "gluten-free" and "gluten_free" compare equal.
func NormalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.ReplaceAll(tag, "_", "-")
	tag = strings.ReplaceAll(tag, " ", "-")
	return tag
}
