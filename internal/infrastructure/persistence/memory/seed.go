package memory

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/mealsmith/v1/internal/domain/recipe"
)

var seedCuisines = []string{
	"italian", "mexican", "chinese", "indian", "japanese",
	"thai", "french", "greek", "spanish", "american",
}

// SeedRecipes generates a deterministic fake recipe catalog. The same seed
// always yields the same catalog, which keeps demo runs reproducible.
func SeedRecipes(count int, seed int64) []recipe.Recipe {
	f := gofakeit.New(seed)

	out := make([]recipe.Recipe, 0, count)
	for i := 0; i < count; i++ {
		mealType := recipe.AllMealTypes[i%len(recipe.AllMealTypes)]

		ingredients := make([]recipe.Ingredient, 0, 4+f.Number(0, 4))
		for j := cap(ingredients); j > 0; j-- {
			ingredients = append(ingredients, recipe.Ingredient{
				Name:        f.Vegetable(),
				Measurement: fmt.Sprintf("%d %s", f.Number(1, 4), f.RandomString([]string{"cup", "tbsp", "oz", "piece"})),
			})
		}

		steps := make([]string, 0, 3+f.Number(0, 5))
		for j := cap(steps); j > 0; j-- {
			steps = append(steps, f.Sentence(8))
		}

		out = append(out, recipe.Recipe{
			ID:            uuid.MustParse(f.UUID()),
			Name:          seedDishName(f, mealType),
			Description:   f.Sentence(12),
			PrepTime:      time.Duration(f.Number(5, 25)) * time.Minute,
			CookTime:      time.Duration(f.Number(10, 60)) * time.Minute,
			Servings:      f.Number(1, 6),
			Ingredients:   ingredients,
			Instructions:  steps,
			Tags:          []string{string(mealType)},
			Cuisines:      []string{f.RandomString(seedCuisines)},
			EstimatedCost: float64(f.Number(300, 2500)) / 100,
			Source:        "seed",
		})
	}
	return out
}

func seedDishName(f *gofakeit.Faker, mealType recipe.MealType) string {
	switch mealType {
	case recipe.MealTypeBreakfast:
		return f.Breakfast()
	case recipe.MealTypeLunch:
		return f.Lunch()
	case recipe.MealTypeSnacks:
		return f.Snack()
	default:
		return f.Dinner()
	}
}
