// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	recipe recipe.Recipe
}

// NewRecipeBuilder creates a new recipe builder with usable defaults
func NewRecipeBuilder() *RecipeBuilder {
	return &RecipeBuilder{
		recipe: recipe.Recipe{
			ID:       uuid.New(),
			Name:     "test recipe",
			PrepTime: 10 * time.Minute,
			CookTime: 20 * time.Minute,
			Servings: 2,
			Ingredients: []recipe.Ingredient{
				{Name: "flour", Measurement: "1 cup"},
			},
			Tags: []string{"dinner"},
		},
	}
}

// WithName sets the recipe name
func (b *RecipeBuilder) WithName(name string) *RecipeBuilder {
	b.recipe.Name = name
	return b
}

// WithTags replaces the tag list
func (b *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	b.recipe.Tags = tags
	return b
}

// WithCuisines replaces the cuisine list
func (b *RecipeBuilder) WithCuisines(cuisines ...string) *RecipeBuilder {
	b.recipe.Cuisines = cuisines
	return b
}

// WithIngredients replaces the ingredient list with bare names
func (b *RecipeBuilder) WithIngredients(names ...string) *RecipeBuilder {
	b.recipe.Ingredients = make([]recipe.Ingredient, 0, len(names))
	for _, name := range names {
		b.recipe.Ingredients = append(b.recipe.Ingredients, recipe.Ingredient{
			Name:        name,
			Measurement: "1 unit",
		})
	}
	return b
}

// WithCookTime sets the cooking time
func (b *RecipeBuilder) WithCookTime(d time.Duration) *RecipeBuilder {
	b.recipe.CookTime = d
	return b
}

// WithCost sets the estimated cost
func (b *RecipeBuilder) WithCost(cost float64) *RecipeBuilder {
	b.recipe.EstimatedCost = cost
	return b
}

// Build returns the assembled recipe
func (b *RecipeBuilder) Build() recipe.Recipe {
	return b.recipe
}

// CatalogFactory generates random but reproducible domain objects
type CatalogFactory struct {
	faker *gofakeit.Faker
}

// NewCatalogFactory creates a factory with a seeded faker
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{faker: gofakeit.New(seed)}
}

// Recipe generates a random valid recipe for the given meal type
func (f *CatalogFactory) Recipe(mealType recipe.MealType) recipe.Recipe {
	ingredients := make([]recipe.Ingredient, 0, f.faker.Number(2, 6))
	for i := cap(ingredients); i > 0; i-- {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:        f.faker.Vegetable(),
			Measurement: fmt.Sprintf("%d cup", f.faker.Number(1, 3)),
		})
	}

	return recipe.Recipe{
		ID:            uuid.New(),
		Name:          f.faker.Dinner(),
		Description:   f.faker.Sentence(10),
		PrepTime:      time.Duration(f.faker.Number(5, 20)) * time.Minute,
		CookTime:      time.Duration(f.faker.Number(10, 50)) * time.Minute,
		Servings:      f.faker.Number(1, 6),
		Ingredients:   ingredients,
		Instructions:  []string{f.faker.Sentence(8), f.faker.Sentence(8)},
		Tags:          []string{string(mealType)},
		Cuisines:      []string{f.faker.RandomString([]string{"italian", "mexican", "thai", "indian"})},
		EstimatedCost: float64(f.faker.Number(200, 2000)) / 100,
	}
}

// Recipes generates n random recipes cycling through all meal types
func (f *CatalogFactory) Recipes(n int) []recipe.Recipe {
	out := make([]recipe.Recipe, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.Recipe(recipe.AllMealTypes[i%len(recipe.AllMealTypes)]))
	}
	return out
}

// HistoryEntry generates a usage record for the recipe, aged by the offset
func (f *CatalogFactory) HistoryEntry(recipeID uuid.UUID, ago time.Duration) history.Entry {
	return history.Entry{
		RecipeID: recipeID,
		MealType: recipe.MealTypeDinner,
		UsedAt:   time.Now().Add(-ago),
	}
}

// LikedFeedback generates positive feedback for the recipe
func (f *CatalogFactory) LikedFeedback(userID, recipeID uuid.UUID) history.Feedback {
	return history.Feedback{
		RecipeID: recipeID,
		UserID:   userID,
		IsCooked: true,
		IsLiked:  true,
		Rating:   f.faker.Number(4, 5),
		GivenAt:  time.Now().Add(-time.Duration(f.faker.Number(1, 20)) * 24 * time.Hour),
	}
}

// DefaultPreferences returns an unconstrained preference bundle
func DefaultPreferences() preferences.Bundle {
	b := preferences.Bundle{}
	_ = b.Validate()
	return b
}

// VeganPreferences returns a bundle with the vegan hard constraint set
func VeganPreferences() preferences.Bundle {
	b := preferences.Bundle{}
	b.Dietary.Vegan = true
	_ = b.Validate()
	return b
}
