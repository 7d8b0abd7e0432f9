package planner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareCandidates(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	primary := testRecipe("granola", []string{"oats", "honey"}, "breakfast", "vegetarian")
	secondary := testRecipe("frittata", []string{"eggs", "spinach"}, "vegetarian", "breakfast")
	synonym := testRecipe("pancakes", []string{"flour", "milk"}, "brunch")
	unrelated := testRecipe("roast", []string{"beef"}, "dinner")
	pool := []recipe.Recipe{primary, secondary, synonym, unrelated}

	t.Run("strict levels keep tag matches only", func(t *testing.T) {
		got := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, strictLevel(), nil)
		require.Len(t, got, 2)
		for _, sr := range got {
			assert.Equal(t, "breakfast", sr.Recipe.PrimaryTag())
		}
	})

	t.Run("flexible match retags a copy, not the original", func(t *testing.T) {
		got := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, strictLevel(), nil)
		for _, sr := range got {
			if sr.Recipe.ID == secondary.ID {
				assert.Equal(t, "breakfast", sr.Recipe.PrimaryTag())
			}
		}
		assert.Equal(t, "vegetarian", secondary.PrimaryTag(), "input recipe must stay untouched")
	})

	t.Run("synonyms join once the factor passes one half", func(t *testing.T) {
		relaxed := RelaxationLevel{Name: "dietary-only", Factor: 1.0, Relaxed: allSoftConstraints}
		got := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, relaxed, nil)
		require.Len(t, got, 3)

		ids := make(map[uuid.UUID]bool)
		for _, sr := range got {
			ids[sr.Recipe.ID] = true
		}
		assert.True(t, ids[synonym.ID])
		assert.False(t, ids[unrelated.ID])
	})

	t.Run("excluded recipes never reappear", func(t *testing.T) {
		exclude := map[uuid.UUID]struct{}{primary.ID: {}}
		got := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, strictLevel(), exclude)
		require.Len(t, got, 1)
		assert.Equal(t, secondary.ID, got[0].Recipe.ID)
	})

	t.Run("ordering is deterministic", func(t *testing.T) {
		first := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, strictLevel(), nil)
		second := s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, strictLevel(), nil)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].Recipe.ID, second[i].Recipe.ID)
			assert.Equal(t, first[i].Score, second[i].Score)
		}
	})
}

func TestPrepareCandidatesHonorsAcceptedMealTypes(t *testing.T) {
	s := newTestScorer(t, nil)
	bundle := preferences.Bundle{
		Cooking: preferences.Cooking{
			AcceptedMealTypes: []recipe.MealType{recipe.MealTypeDinner},
		},
	}
	require.NoError(t, bundle.Validate())
	ctx := s.NewContext(nil, bundle, nil, nil, nil, time.Now())

	pool := []recipe.Recipe{
		testRecipe("granola", []string{"oats"}, "breakfast"),
		testRecipe("roast", []string{"beef"}, "dinner"),
	}

	extreme := DefaultLadder()[len(DefaultLadder())-1]
	assert.Empty(t, s.PrepareCandidates(pool, recipe.MealTypeBreakfast, ctx, extreme, nil),
		"meal types outside the accepted set yield nothing at any level")
	assert.NotEmpty(t, s.PrepareCandidates(pool, recipe.MealTypeDinner, ctx, extreme, nil))
}

func TestPrepareCrossMealCandidates(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	breakfast := testRecipe("granola", []string{"oats"}, "breakfast")
	dinner := testRecipe("roast", []string{"beef"}, "dinner")
	pool := []recipe.Recipe{breakfast, dinner}

	extreme := DefaultLadder()[len(DefaultLadder())-1]
	accepted := []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeDinner}
	got := s.PrepareCrossMealCandidates(pool, accepted, ctx, extreme, nil)
	assert.Len(t, got, 2)
}
