package planner

import (
	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/recipe"
)

// PrepareCandidates assembles the scored candidate list for one meal-type
// slot. Matching widens in tiers: recipes whose primary tag is the meal type
// come first, then recipes carrying the meal type anywhere in their tags
// (retagged so the slot's meal type becomes primary), and once the level
// factor passes 0.5, recipes tagged with a configured synonym of the meal
// type. Recipes in the exclude set never appear, so a plan cannot select the
// same recipe twice. A meal type outside the user's accepted set yields an
// empty result no matter how far the ladder has relaxed. The result is
// ordered by composite score descending with recipe ID as tie-break; inputs
// are never mutated.
func (s *Scorer) PrepareCandidates(
	pool []recipe.Recipe,
	mealType recipe.MealType,
	ctx *Context,
	level RelaxationLevel,
	exclude map[uuid.UUID]struct{},
) []ScoredRecipe {
	// An empty accepted list means the bundle skipped boundary validation;
	// treat it as unrestricted, matching the validation default.
	if len(ctx.Preferences.Cooking.AcceptedMealTypes) > 0 && !ctx.Preferences.AcceptsMealType(mealType) {
		return nil
	}

	seen := make(map[uuid.UUID]struct{}, len(pool))
	var candidates []recipe.Recipe

	add := func(r recipe.Recipe) {
		if _, dup := seen[r.ID]; dup {
			return
		}
		seen[r.ID] = struct{}{}
		candidates = append(candidates, r)
	}

	tag := string(mealType)
	for _, r := range pool {
		if _, skip := exclude[r.ID]; skip {
			continue
		}
		if r.PrimaryTag() == recipe.NormalizeTag(tag) {
			add(r)
		}
	}
	for _, r := range pool {
		if _, skip := exclude[r.ID]; skip {
			continue
		}
		if r.HasTag(tag) {
			add(r.WithPrimaryTag(tag))
		}
	}
	if level.Factor > 0.5 {
		for _, r := range pool {
			if _, skip := exclude[r.ID]; skip {
				continue
			}
			for _, syn := range s.cfg.MealTypeSynonyms[mealType] {
				if r.HasTag(syn) {
					add(r.WithPrimaryTag(tag))
					break
				}
			}
		}
	}

	return s.ScoreAll(candidates, ctx, level)
}

// PrepareCrossMealCandidates widens a slot to every accepted meal type. The
// terminal relaxation level uses it to fill slots that stayed empty even
// with synonym matching.
func (s *Scorer) PrepareCrossMealCandidates(
	pool []recipe.Recipe,
	accepted []recipe.MealType,
	ctx *Context,
	level RelaxationLevel,
	exclude map[uuid.UUID]struct{},
) []ScoredRecipe {
	seen := make(map[uuid.UUID]struct{}, len(pool))
	var merged []ScoredRecipe
	for _, mt := range accepted {
		for _, sr := range s.PrepareCandidates(pool, mt, ctx, level, exclude) {
			if _, dup := seen[sr.Recipe.ID]; dup {
				continue
			}
			seen[sr.Recipe.ID] = struct{}{}
			merged = append(merged, sr)
		}
	}
	SortScored(merged)
	return merged
}
