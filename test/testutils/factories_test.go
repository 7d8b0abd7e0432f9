package testutils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v1/internal/domain/recipe"
)

func TestRecipeBuilder(t *testing.T) {
	r := NewRecipeBuilder().
		WithName("lentil soup").
		WithTags("dinner", "vegan").
		WithIngredients("lentils", "carrot", "onion").
		WithCookTime(45 * time.Minute).
		WithCost(6.5).
		Build()

	require.NoError(t, r.Validate())
	assert.Equal(t, "lentil soup", r.Name)
	assert.Equal(t, "dinner", r.PrimaryTag())
	assert.Len(t, r.Ingredients, 3)
	assert.Equal(t, 6.5, r.EstimatedCost)
}

func TestCatalogFactoryProducesValidRecipes(t *testing.T) {
	factory := NewCatalogFactory(42)

	recipes := factory.Recipes(12)
	require.Len(t, recipes, 12)

	seenTypes := map[string]bool{}
	for _, r := range recipes {
		require.NoError(t, r.Validate())
		seenTypes[r.PrimaryTag()] = true
	}
	assert.Len(t, seenTypes, len(recipe.AllMealTypes))
}

func TestFactorySignals(t *testing.T) {
	factory := NewCatalogFactory(1)
	userID := uuid.New()
	recipeID := uuid.New()

	entry := factory.HistoryEntry(recipeID, 48*time.Hour)
	assert.Equal(t, recipeID, entry.RecipeID)
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), entry.UsedAt, time.Minute)

	fb := factory.LikedFeedback(userID, recipeID)
	assert.True(t, fb.IsLiked)
	assert.False(t, fb.IsNegative())
	assert.GreaterOrEqual(t, fb.Rating, 4)

	vegan := VeganPreferences()
	assert.True(t, vegan.Dietary.Vegan)
	assert.NotEmpty(t, vegan.Cooking.AcceptedMealTypes)
}
