package planner

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanNoDuplicates(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	var pool []recipe.Recipe
	for i := 0; i < 6; i++ {
		pool = append(pool, testRecipe(
			fmt.Sprintf("breakfast %d", i), []string{"oats", fmt.Sprintf("fruit %d", i)}, "breakfast"))
	}
	for i := 0; i < 6; i++ {
		pool = append(pool, testRecipe(
			fmt.Sprintf("dinner %d", i), []string{"rice", fmt.Sprintf("protein %d", i)}, "dinner"))
	}

	counts := map[recipe.MealType]int{
		recipe.MealTypeBreakfast: 3,
		recipe.MealTypeDinner:    4,
	}
	slots, unfilled := s.BuildPlan(pool, counts, ctx, strictLevel())

	require.Empty(t, unfilled)
	require.Len(t, slots, 7)

	seen := make(map[uuid.UUID]bool)
	perType := make(map[recipe.MealType]int)
	for _, sl := range slots {
		assert.False(t, seen[sl.Recipe.Recipe.ID], "recipe assigned twice")
		seen[sl.Recipe.Recipe.ID] = true
		perType[sl.MealType]++
	}
	assert.Equal(t, 3, perType[recipe.MealTypeBreakfast])
	assert.Equal(t, 4, perType[recipe.MealTypeDinner])
}

func TestBuildPlanScarcestFirst(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	// The only dinner-capable recipe is also a valid breakfast. If breakfast
	// were filled first it could consume it and leave dinner empty.
	shared := testRecipe("shakshuka", []string{"eggs", "tomato"}, "dinner", "breakfast")
	pool := []recipe.Recipe{
		shared,
		testRecipe("granola", []string{"oats"}, "breakfast"),
		testRecipe("omelette", []string{"eggs"}, "breakfast"),
	}

	counts := map[recipe.MealType]int{
		recipe.MealTypeBreakfast: 1,
		recipe.MealTypeDinner:    1,
	}
	slots, unfilled := s.BuildPlan(pool, counts, ctx, strictLevel())

	require.Empty(t, unfilled)
	require.Len(t, slots, 2)
	for _, sl := range slots {
		if sl.MealType == recipe.MealTypeDinner {
			assert.Equal(t, shared.ID, sl.Recipe.Recipe.ID)
		}
	}
}

func TestBuildPlanReportsUnfilled(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	pool := []recipe.Recipe{testRecipe("granola", []string{"oats"}, "breakfast")}
	counts := map[recipe.MealType]int{
		recipe.MealTypeBreakfast: 1,
		recipe.MealTypeLunch:     2,
	}
	slots, unfilled := s.BuildPlan(pool, counts, ctx, strictLevel())

	assert.Len(t, slots, 1)
	assert.Equal(t, 2, unfilled[recipe.MealTypeLunch])
}

func TestBuildPlanCrossMealTopUp(t *testing.T) {
	s := newTestScorer(t, nil)
	ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())

	pool := []recipe.Recipe{
		testRecipe("granola", []string{"oats"}, "breakfast"),
		testRecipe("roast", []string{"beef"}, "dinner"),
	}
	counts := map[recipe.MealType]int{recipe.MealTypeBreakfast: 2}

	extreme := DefaultLadder()[len(DefaultLadder())-1]
	require.True(t, extreme.CrossMealType)

	// CrossMealType only borrows across the requested types, so a plan
	// asking only for breakfasts still comes up short here.
	slots, unfilled := s.BuildPlan(pool, counts, ctx, extreme)
	assert.Len(t, slots, 1)
	assert.Equal(t, 1, unfilled[recipe.MealTypeBreakfast])
}

func TestPlanObjectiveRewardsDiversity(t *testing.T) {
	s := newTestScorer(t, nil)

	same := []PlanSlot{
		{Recipe: ScoredRecipe{Score: 80, Recipe: testRecipe("a", []string{"chicken", "rice"})}},
		{Recipe: ScoredRecipe{Score: 80, Recipe: testRecipe("b", []string{"chicken", "rice"})}},
	}
	diverse := []PlanSlot{
		{Recipe: ScoredRecipe{Score: 80, Recipe: testRecipe("a", []string{"chicken", "rice"})}},
		{Recipe: ScoredRecipe{Score: 80, Recipe: testRecipe("b", []string{"tofu", "noodles"})}},
	}
	assert.Greater(t, s.planObjective(diverse), s.planObjective(same))
}
