package planner

import (
	"math"
	"sort"

	"github.com/mealsmith/v1/internal/domain/recipe"
	"go.uber.org/zap"
)

// Breakdown records every sub-score that fed a composite score, before
// relaxation blending. Useful in responses and logs when a plan needs
// explaining.
type Breakdown struct {
	FoodPreference float64 `json:"food_preference"`
	CookingHabit   float64 `json:"cooking_habit"`
	Budget         float64 `json:"budget"`
	Variety        float64 `json:"variety"`
	Overlap        float64 `json:"ingredient_overlap"`
	Cuisine        float64 `json:"cuisine"`
	Pantry         float64 `json:"pantry"`
	Feedback       float64 `json:"feedback"`
	Exploration    float64 `json:"exploration"`
}

// ScoredRecipe pairs a candidate with its composite score.
type ScoredRecipe struct {
	Recipe    recipe.Recipe `json:"recipe"`
	Score     float64       `json:"score"`
	Breakdown Breakdown     `json:"breakdown"`
}

// Score computes the composite [0,100] score of a candidate under the given
// relaxation level. The second return value is false when the recipe fails
// the dietary hard filter, which no relaxation level other than the
// secondary-flag escape hatch may soften. Relaxed soft constraints are
// blended toward a perfect sub-score by the level factor, so a fully relaxed
// constraint stops discriminating between candidates.
func (s *Scorer) Score(r recipe.Recipe, ctx *Context, level RelaxationLevel) (ScoredRecipe, bool) {
	if err := r.Validate(); err != nil {
		s.logger.Warn("skipping invalid recipe",
			zap.String("recipe_id", r.ID.String()),
			zap.String("recipe_name", r.Name),
			zap.Error(err))
		return ScoredRecipe{Recipe: r}, false
	}
	if !s.DietaryAllowed(r, ctx.Preferences.Dietary, level.RelaxSecondaryDietary) {
		return ScoredRecipe{Recipe: r}, false
	}

	bd := Breakdown{
		FoodPreference: s.FoodPreferenceScore(r, ctx.Preferences.Food),
		CookingHabit:   s.CookingHabitScore(r, ctx.Preferences.Cooking),
		Budget:         s.BudgetScore(r, ctx.Preferences.MaxCostPerMeal()),
		Variety:        s.VarietyScore(r, ctx.History, ctx.Now),
		Overlap:        s.OverlapScore(r, ctx.Selected),
		Cuisine:        s.CuisineScore(r, ctx),
		Pantry:         s.PantryScore(r, ctx.Pantry),
		Feedback:       s.FeedbackScore(r, ctx),
		Exploration:    s.ExplorationBonus(r, ctx),
	}

	w := s.cfg.Weights
	score := w.Food*s.relaxed(bd.FoodPreference, ConstraintFood, level) +
		w.Cooking*s.relaxed(bd.CookingHabit, ConstraintCooking, level) +
		w.Budget*s.relaxed(bd.Budget, ConstraintBudget, level) +
		w.Variety*s.relaxed(bd.Variety, ConstraintVariety, level) +
		w.Overlap*s.relaxed(bd.Overlap, ConstraintOverlap, level) +
		w.Cuisine*s.relaxed(bd.Cuisine, ConstraintCuisine, level) +
		w.Pantry*s.relaxed(bd.Pantry, ConstraintPantry, level) +
		w.Feedback*s.relaxed(bd.Feedback, ConstraintFeedback, level)
	if sum := w.sum(); sum > 0 {
		score /= sum
	}

	score += bd.Exploration
	score -= s.repetitionPenalty(r, ctx.Selected)

	return ScoredRecipe{
		Recipe:    r,
		Score:     math.Round(clamp(score, 0, 100)*100) / 100,
		Breakdown: bd,
	}, true
}

// relaxed blends a raw sub-score toward 100 when the level relaxes its
// constraint: the higher the factor, the less the constraint discriminates.
func (s *Scorer) relaxed(raw float64, c Constraint, level RelaxationLevel) float64 {
	if !level.Relaxes(c) || level.Factor <= 0 {
		return raw
	}
	return raw*(1-level.Factor) + 100*level.Factor
}

// repetitionPenalty charges a flat penalty for every already-selected plan
// recipe built around the same main ingredient, to keep one dominant protein
// from filling the week.
func (s *Scorer) repetitionPenalty(r recipe.Recipe, selected []recipe.Recipe) float64 {
	main := s.matcher.Normalize(r.MainIngredient())
	if main == "" {
		return 0
	}
	penalty := 0.0
	for _, sel := range selected {
		if s.matcher.Normalize(sel.MainIngredient()) == main {
			penalty += s.cfg.RepetitionPenalty
		}
	}
	return penalty
}

// ScoreAll scores every candidate under the level, drops hard-filter
// rejections, and returns the survivors ordered by score descending with
// recipe ID as the deterministic tie-break.
func (s *Scorer) ScoreAll(candidates []recipe.Recipe, ctx *Context, level RelaxationLevel) []ScoredRecipe {
	scored := make([]ScoredRecipe, 0, len(candidates))
	for _, r := range candidates {
		if sr, ok := s.Score(r, ctx, level); ok {
			scored = append(scored, sr)
		}
	}
	SortScored(scored)
	return scored
}

// SortScored orders scored recipes by score descending, breaking ties by
// recipe ID so equal scores never reshuffle between runs.
func SortScored(scored []ScoredRecipe) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Recipe.ID.String() < scored[j].Recipe.ID.String()
	})
}
