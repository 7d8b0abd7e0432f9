package planner

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRand struct{ v float64 }

func (s stubRand) Float64() float64 { return s.v }

func newTestScorer(t *testing.T, rng Rand) *Scorer {
	t.Helper()
	if rng == nil {
		rng = stubRand{v: 1} // never trigger exploration
	}
	return NewScorer(DefaultConfig(), rng, zap.NewNop())
}

func testRecipe(name string, ingredients []string, tags ...string) recipe.Recipe {
	r := recipe.Recipe{
		ID:       uuid.New(),
		Name:     name,
		Servings: 2,
		Tags:     tags,
		CookTime: 20 * time.Minute,
	}
	for _, ing := range ingredients {
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: ing, Measurement: "1 unit"})
	}
	return r
}

func TestLockedRand(t *testing.T) {
	t.Run("same seed as a plain source", func(t *testing.T) {
		locked := NewLockedRand(42)
		plain := rand.New(rand.NewSource(42))
		for i := 0; i < 10; i++ {
			assert.Equal(t, plain.Float64(), locked.Float64())
		}
	})

	// Exercised from many goroutines so the race detector can vouch for the
	// locking.
	t.Run("concurrent draws", func(t *testing.T) {
		locked := NewLockedRand(1)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 1000; j++ {
					v := locked.Float64()
					assert.GreaterOrEqual(t, v, 0.0)
					assert.Less(t, v, 1.0)
				}
			}()
		}
		wg.Wait()
	})
}

func TestDietaryAllowed(t *testing.T) {
	s := newTestScorer(t, nil)

	t.Run("vegan requires tag", func(t *testing.T) {
		r := testRecipe("tofu bowl", []string{"tofu", "rice"}, "dinner")
		assert.False(t, s.DietaryAllowed(r, preferences.Dietary{Vegan: true}, false))

		r.Tags = append(r.Tags, "vegan")
		assert.True(t, s.DietaryAllowed(r, preferences.Dietary{Vegan: true}, false))
	})

	t.Run("vegan tag satisfies vegetarian", func(t *testing.T) {
		r := testRecipe("tofu bowl", []string{"tofu"}, "dinner", "vegan")
		assert.True(t, s.DietaryAllowed(r, preferences.Dietary{Vegetarian: true}, false))
	})

	t.Run("allergy matches ingredient substring", func(t *testing.T) {
		r := testRecipe("satay", []string{"chicken", "peanut sauce"}, "dinner")
		d := preferences.Dietary{Allergies: []string{"peanut"}}
		assert.False(t, s.DietaryAllowed(r, d, false))
		// Allergies survive even full relaxation.
		assert.False(t, s.DietaryAllowed(r, d, true))
	})

	t.Run("secondary flags relax", func(t *testing.T) {
		r := testRecipe("toast", []string{"bread"}, "breakfast")
		d := preferences.Dietary{GlutenFree: true}
		assert.False(t, s.DietaryAllowed(r, d, false))
		assert.True(t, s.DietaryAllowed(r, d, true))
	})
}

func TestFoodPreferenceScore(t *testing.T) {
	s := newTestScorer(t, nil)

	t.Run("favorites raise and dislikes lower", func(t *testing.T) {
		r := testRecipe("stir fry", []string{"chicken", "broccoli", "rice", "soy sauce"})

		high := s.FoodPreferenceScore(r, preferences.Food{FavoriteIngredients: []string{"chicken", "broccoli"}})
		assert.InDelta(t, 50, high, 0.001)

		low := s.FoodPreferenceScore(r, preferences.Food{DislikedIngredients: []string{"broccoli"}})
		assert.InDelta(t, 0, low, 0.001)
	})

	t.Run("no ingredients is neutral", func(t *testing.T) {
		r := testRecipe("mystery", nil)
		assert.Equal(t, 50.0, s.FoodPreferenceScore(r, preferences.Food{}))
	})

	t.Run("near match earns similarity bonus", func(t *testing.T) {
		r := testRecipe("salad", []string{"red bell pepper strips"})
		got := s.FoodPreferenceScore(r, preferences.Food{FavoriteIngredients: []string{"red pepper strips"}})
		// Jaccard 3/4 over the token sets, scaled by ten.
		assert.InDelta(t, 7.5, got, 0.001)
	})
}

func TestCookingHabitScore(t *testing.T) {
	s := newTestScorer(t, nil)

	t.Run("quick cook prefers short recipes", func(t *testing.T) {
		quick := testRecipe("omelette", []string{"eggs"}, "breakfast")
		quick.CookTime = 10 * time.Minute
		quick.PrepTime = 5 * time.Minute

		slow := testRecipe("roast", []string{"beef"}, "dinner")
		slow.CookTime = 2 * time.Hour

		cooking := preferences.Cooking{
			PreferredDuration: preferences.DurationQuick,
			Skill:             preferences.SkillBeginner,
			AcceptedMealTypes: []recipe.MealType{recipe.MealTypeBreakfast, recipe.MealTypeDinner},
			HouseholdSize:     2,
		}
		assert.Greater(t, s.CookingHabitScore(quick, cooking), s.CookingHabitScore(slow, cooking))
	})

	t.Run("synonym tag earns partial meal type credit", func(t *testing.T) {
		r := testRecipe("pancakes", []string{"flour"}, "brunch")
		accepted := []recipe.MealType{recipe.MealTypeBreakfast}
		assert.Equal(t, 60.0, s.mealTypeFitScore(r, accepted))

		r.Tags = []string{"breakfast"}
		assert.Equal(t, 100.0, s.mealTypeFitScore(r, accepted))

		r.Tags = []string{"dessert"}
		assert.Equal(t, 0.0, s.mealTypeFitScore(r, accepted))
	})

	t.Run("complexity scales with steps and keywords", func(t *testing.T) {
		simple := testRecipe("toast", []string{"bread"})
		simple.Instructions = []string{"Toast the bread."}

		hard := testRecipe("souffle", []string{"eggs", "cheese", "flour", "butter", "milk"})
		hard.Instructions = []string{
			"Temper the eggs.", "Fold in the whites.", "Make a roux.",
			"Bake in a water bath.", "Serve immediately.",
		}
		assert.Greater(t, s.ComplexityScore(hard), s.ComplexityScore(simple))
	})
}

func TestBudgetScore(t *testing.T) {
	s := newTestScorer(t, nil)

	t.Run("weekly budget of 70 maps to 36.8 for a 20 cost meal", func(t *testing.T) {
		b := preferences.Bundle{
			Budget: preferences.Budget{Amount: 70, Period: preferences.BudgetWeekly},
		}
		require.InDelta(t, 10, b.MaxCostPerMeal(), 0.001)

		r := testRecipe("steak", []string{"beef"})
		r.EstimatedCost = 20
		assert.InDelta(t, 36.8, s.BudgetScore(r, b.MaxCostPerMeal()), 0.1)
	})

	t.Run("within budget is full score", func(t *testing.T) {
		r := testRecipe("beans", []string{"beans"})
		r.EstimatedCost = 3
		assert.Equal(t, 100.0, s.BudgetScore(r, 10))
	})

	t.Run("no budget means no constraint", func(t *testing.T) {
		r := testRecipe("lobster", []string{"lobster"})
		r.EstimatedCost = 80
		assert.Equal(t, 100.0, s.BudgetScore(r, 0))
	})
}

func TestVarietyScore(t *testing.T) {
	s := newTestScorer(t, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := testRecipe("curry", []string{"chicken"})

	t.Run("unused recipe scores full", func(t *testing.T) {
		assert.Equal(t, 100.0, s.VarietyScore(r, nil, now))
	})

	t.Run("recent single use is heavily penalized", func(t *testing.T) {
		hist := []history.Entry{{RecipeID: r.ID, UsedAt: now.AddDate(0, 0, -2)}}
		// 100 - (30-2) - 10 = 62
		assert.InDelta(t, 62, s.VarietyScore(r, hist, now), 0.001)
	})

	t.Run("old use only carries the frequency penalty", func(t *testing.T) {
		hist := []history.Entry{{RecipeID: r.ID, UsedAt: now.AddDate(0, 0, -45)}}
		assert.InDelta(t, 90, s.VarietyScore(r, hist, now), 0.001)
	})
}

func TestOverlapScore(t *testing.T) {
	s := newTestScorer(t, nil)

	t.Run("empty plan is neutral", func(t *testing.T) {
		r := testRecipe("pasta", []string{"pasta", "tomato"})
		assert.Equal(t, 50.0, s.OverlapScore(r, nil))
	})

	t.Run("shared ingredients raise the score", func(t *testing.T) {
		selected := []recipe.Recipe{testRecipe("marinara", []string{"tomato", "garlic", "basil"})}
		full := testRecipe("bruschetta", []string{"tomato", "garlic"})
		none := testRecipe("porridge", []string{"oats", "milk"})

		assert.InDelta(t, 100, s.OverlapScore(full, selected), 0.001)
		assert.InDelta(t, 0, s.OverlapScore(none, selected), 0.001)
	})
}

func TestCuisineScore(t *testing.T) {
	s := newTestScorer(t, nil)

	italian := testRecipe("carbonara", []string{"pasta", "egg", "pancetta"}, "dinner")
	italian.Cuisines = []string{"Italian"}

	t.Run("preferred cuisine adds 30", func(t *testing.T) {
		prefs := preferences.Bundle{Food: preferences.Food{PreferredCuisines: []string{"italian"}}}
		ctx := s.NewContext(nil, prefs, nil, nil, nil, time.Now())
		assert.Equal(t, 80.0, s.CuisineScore(italian, ctx))
	})

	t.Run("repeatedly liked cuisine adds 20", func(t *testing.T) {
		other := testRecipe("lasagna", []string{"pasta"}, "dinner")
		other.Cuisines = []string{"Italian"}
		pool := []recipe.Recipe{italian, other}
		fb := []history.Feedback{
			{RecipeID: italian.ID, IsLiked: true, Rating: 5},
			{RecipeID: other.ID, IsLiked: true, Rating: 4},
		}
		ctx := s.NewContext(pool, preferences.Bundle{}, nil, fb, nil, time.Now())
		assert.Equal(t, 70.0, s.CuisineScore(italian, ctx))
	})

	t.Run("unknown cuisine is neutral", func(t *testing.T) {
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, time.Now())
		assert.Equal(t, 50.0, s.CuisineScore(italian, ctx))
	})
}

func TestPantryScore(t *testing.T) {
	s := newTestScorer(t, nil)
	r := testRecipe("fried rice", []string{"rice", "egg", "soy sauce", "scallion"})

	t.Run("empty pantry scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, s.PantryScore(r, nil))
	})

	t.Run("full pantry scores full", func(t *testing.T) {
		pantry := []string{"rice", "egg", "soy sauce", "scallion"}
		assert.InDelta(t, 100, s.PantryScore(r, pantry), 0.001)
	})

	t.Run("partial coverage uses diminishing curve", func(t *testing.T) {
		pantry := []string{"rice", "egg"}
		want := math.Pow(0.5, 0.8) * 100
		assert.InDelta(t, want, s.PantryScore(r, pantry), 0.001)
	})
}

func TestFeedbackScore(t *testing.T) {
	s := newTestScorer(t, nil)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := testRecipe("tacos", []string{"tortilla", "beef"})

	t.Run("no feedback is neutral", func(t *testing.T) {
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, now)
		assert.Equal(t, 0.0, s.FeedbackScore(r, ctx))
	})

	t.Run("liked adds twenty", func(t *testing.T) {
		fb := []history.Feedback{{RecipeID: r.ID, IsLiked: true, Rating: 4, GivenAt: now.AddDate(0, 0, -40)}}
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, fb, nil, now)
		assert.Equal(t, 20.0, s.FeedbackScore(r, ctx))
	})

	t.Run("recent dislike stacks the cooldown penalty", func(t *testing.T) {
		fb := []history.Feedback{{RecipeID: r.ID, IsDisliked: true, GivenAt: now.AddDate(0, 0, -15)}}
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, fb, nil, now)
		// -30 for the dislike, -20*(1-15/30) = -10 cooldown.
		assert.InDelta(t, -40, s.FeedbackScore(r, ctx), 0.001)
	})

	t.Run("dislike past cooldown keeps only the flat penalty", func(t *testing.T) {
		fb := []history.Feedback{{RecipeID: r.ID, IsDisliked: true, GivenAt: now.AddDate(0, 0, -31)}}
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, fb, nil, now)
		assert.InDelta(t, -30, s.FeedbackScore(r, ctx), 0.001)
	})
}

func TestExplorationBonus(t *testing.T) {
	now := time.Now()

	t.Run("no bonus when the roll misses", func(t *testing.T) {
		s := newTestScorer(t, stubRand{v: 0.9})
		r := testRecipe("pho", []string{"noodles", "broth"})
		ctx := s.NewContext(nil, preferences.Bundle{}, nil, nil, nil, now)
		assert.Equal(t, 0.0, s.ExplorationBonus(r, ctx))
	})

	t.Run("novel recipe earns the novelty bonus", func(t *testing.T) {
		s := newTestScorer(t, stubRand{v: 0.1})
		used := testRecipe("carbonara", []string{"pasta", "egg", "pancetta"})
		novel := testRecipe("pho", []string{"noodles", "broth", "ginger"})
		pool := []recipe.Recipe{used, novel}
		hist := []history.Entry{{RecipeID: used.ID, UsedAt: now.AddDate(0, 0, -3)}}

		ctx := s.NewContext(pool, preferences.Bundle{}, hist, nil, nil, now)
		assert.Equal(t, s.cfg.NoveltyBonus, s.ExplorationBonus(novel, ctx))
	})

	t.Run("unseen cuisine wins over plain novelty", func(t *testing.T) {
		s := newTestScorer(t, stubRand{v: 0.1})
		used := testRecipe("carbonara", []string{"pasta", "egg"})
		used.Cuisines = []string{"Italian"}
		novel := testRecipe("pho", []string{"noodles", "broth"})
		novel.Cuisines = []string{"Vietnamese"}
		pool := []recipe.Recipe{used, novel}
		hist := []history.Entry{{RecipeID: used.ID, UsedAt: now.AddDate(0, 0, -3)}}

		ctx := s.NewContext(pool, preferences.Bundle{}, hist, nil, nil, now)
		assert.Equal(t, s.cfg.UnseenCuisineBonus, s.ExplorationBonus(novel, ctx))
	})
}
