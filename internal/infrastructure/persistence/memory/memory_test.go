package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogRecipe(name string, tags ...string) recipe.Recipe {
	return recipe.Recipe{
		ID:       uuid.New(),
		Name:     name,
		Servings: 2,
		Tags:     tags,
		Ingredients: []recipe.Ingredient{
			{Name: "flour", Measurement: "1 cup"},
		},
	}
}

func TestRecipeCatalog(t *testing.T) {
	ctx := context.Background()
	a := catalogRecipe("granola", "breakfast")
	b := catalogRecipe("roast", "dinner")
	catalog := NewRecipeCatalog(a, b)

	t.Run("find all is deterministic", func(t *testing.T) {
		first, err := catalog.FindAll(ctx)
		require.NoError(t, err)
		second, err := catalog.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Len(t, first, 2)
	})

	t.Run("find by id", func(t *testing.T) {
		got, err := catalog.FindByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Name, got.Name)

		_, err = catalog.FindByID(ctx, uuid.New())
		assert.Error(t, err)
	})

	t.Run("find by ids fails on unknown id", func(t *testing.T) {
		_, err := catalog.FindByIDs(ctx, []uuid.UUID{a.ID, uuid.New()})
		assert.Error(t, err)
	})

	t.Run("save rejects invalid recipes", func(t *testing.T) {
		broken := catalogRecipe("broken")
		broken.Servings = 0
		assert.Error(t, catalog.Save(ctx, broken))
	})
}

func TestHistoryRepositoryCap(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository()
	userID := uuid.New()

	for i := 0; i < history.MaxEntries+10; i++ {
		err := repo.Record(ctx, userID, history.Entry{
			RecipeID: uuid.New(),
			UsedAt:   time.Now().Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	entries, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, entries, history.MaxEntries)

	// Newest first: each record call prepends.
	assert.True(t, entries[0].UsedAt.After(entries[1].UsedAt))
}

func TestFeedbackRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewFeedbackRepository()
	userID, recipeID := uuid.New(), uuid.New()

	require.NoError(t, repo.Upsert(ctx, history.Feedback{
		UserID: userID, RecipeID: recipeID, IsLiked: true, Rating: 5,
	}))
	require.NoError(t, repo.Upsert(ctx, history.Feedback{
		UserID: userID, RecipeID: recipeID, IsDisliked: true, Rating: 1,
	}))

	all, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1, "second upsert must replace the first")
	assert.True(t, all[0].IsDisliked)

	got, err := repo.FindByUserAndRecipe(ctx, userID, recipeID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Rating)

	missing, err := repo.FindByUserAndRecipe(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPantryRepositoryReplace(t *testing.T) {
	ctx := context.Background()
	repo := NewPantryRepository()
	userID := uuid.New()

	require.NoError(t, repo.Replace(ctx, userID, []string{"rice", "eggs"}))
	require.NoError(t, repo.Replace(ctx, userID, []string{"pasta"}))

	items, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pasta"}, items)
}

func TestCatalogConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	catalog := NewRecipeCatalog()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_ = catalog.Save(ctx, catalogRecipe(fmt.Sprintf("recipe %d", i), "dinner"))
		}
	}()
	for i := 0; i < 50; i++ {
		_, _ = catalog.FindAll(ctx)
	}
	<-done
}

func TestSeedRecipesDeterministic(t *testing.T) {
	first := SeedRecipes(20, 42)
	second := SeedRecipes(20, 42)

	require.Len(t, first, 20)
	assert.Equal(t, first, second)

	for _, r := range first {
		assert.NoError(t, r.Validate())
		require.Len(t, r.Tags, 1)
		assert.True(t, recipe.MealType(r.Tags[0]).IsValid())
	}

	other := SeedRecipes(20, 7)
	assert.NotEqual(t, first[0].ID, other[0].ID)
}
