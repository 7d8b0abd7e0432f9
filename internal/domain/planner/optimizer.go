package planner

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"go.uber.org/zap"
)

// PlanSlot is one filled position of a plan: the meal type requested and the
// scored recipe assigned to it.
type PlanSlot struct {
	MealType recipe.MealType
	Recipe   ScoredRecipe
}

// BuildPlan fills the requested slots from the pool at the given relaxation
// level and returns the filled slots plus the per-meal-type counts that
// could not be filled.
//
// Assignment is greedy, scarcest meal type first, so a meal type with few
// eligible recipes is not starved by an abundant one picking shared recipes
// earlier. Each pick re-prepares candidates against the selections so far,
// which lets the overlap sub-score and the repetition penalty steer later
// picks. A refinement pass then hill-climbs bounded swap improvements. A
// recipe is never assigned to two slots.
func (s *Scorer) BuildPlan(
	pool []recipe.Recipe,
	counts map[recipe.MealType]int,
	ctx *Context,
	level RelaxationLevel,
) ([]PlanSlot, map[recipe.MealType]int) {
	exclude := make(map[uuid.UUID]struct{})
	unfilled := make(map[recipe.MealType]int)
	var slots []PlanSlot

	for _, mt := range s.byScarcity(pool, counts, ctx, level) {
		for i := 0; i < counts[mt]; i++ {
			cands := s.PrepareCandidates(pool, mt, ctx, level, exclude)
			if len(cands) == 0 {
				unfilled[mt] += counts[mt] - i
				break
			}
			pick := cands[0]
			slots = append(slots, PlanSlot{MealType: mt, Recipe: pick})
			exclude[pick.Recipe.ID] = struct{}{}
			ctx.Selected = append(ctx.Selected, pick.Recipe)
		}
	}

	// Top-up: the terminal level may borrow recipes across meal types for
	// slots that stayed empty.
	if level.CrossMealType && len(unfilled) > 0 {
		accepted := sortedMealTypes(counts)
		for _, mt := range accepted {
			for unfilled[mt] > 0 {
				cands := s.PrepareCrossMealCandidates(pool, accepted, ctx, level, exclude)
				if len(cands) == 0 {
					break
				}
				pick := cands[0]
				slots = append(slots, PlanSlot{MealType: mt, Recipe: pick})
				exclude[pick.Recipe.ID] = struct{}{}
				ctx.Selected = append(ctx.Selected, pick.Recipe)
				unfilled[mt]--
			}
			if unfilled[mt] == 0 {
				delete(unfilled, mt)
			}
		}
	}

	slots = s.refinePlan(pool, slots, ctx, level, exclude)
	return slots, unfilled
}

// byScarcity orders the requested meal types by candidate supply relative to
// demand, tightest first. Ties resolve alphabetically to keep assignment
// deterministic.
func (s *Scorer) byScarcity(
	pool []recipe.Recipe,
	counts map[recipe.MealType]int,
	ctx *Context,
	level RelaxationLevel,
) []recipe.MealType {
	types := sortedMealTypes(counts)
	supply := make(map[recipe.MealType]float64, len(types))
	for _, mt := range types {
		n := len(s.PrepareCandidates(pool, mt, ctx, level, nil))
		supply[mt] = float64(n) / float64(counts[mt])
	}
	sort.SliceStable(types, func(i, j int) bool {
		if supply[types[i]] != supply[types[j]] {
			return supply[types[i]] < supply[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

func sortedMealTypes(counts map[recipe.MealType]int) []recipe.MealType {
	types := make([]recipe.MealType, 0, len(counts))
	for mt, n := range counts {
		if n > 0 {
			types = append(types, mt)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// refinePlan hill-climbs single-recipe swaps for up to MaxRefineIterations
// rounds, accepting a swap only when it raises the plan objective: mean
// composite score plus an ingredient-diversity bonus. It stops early at the
// first round with no improving swap.
func (s *Scorer) refinePlan(
	pool []recipe.Recipe,
	slots []PlanSlot,
	ctx *Context,
	level RelaxationLevel,
	exclude map[uuid.UUID]struct{},
) []PlanSlot {
	if len(slots) < 2 {
		return slots
	}

	best := s.planObjective(slots)
	for iter := 0; iter < s.cfg.MaxRefineIterations; iter++ {
		improved := false
		for i := range slots {
			current := slots[i]

			// Score alternatives against the rest of the plan.
			others := make([]recipe.Recipe, 0, len(slots)-1)
			for j, sl := range slots {
				if j != i {
					others = append(others, sl.Recipe.Recipe)
				}
			}
			ctx.Selected = others

			cands := s.PrepareCandidates(pool, current.MealType, ctx, level, exclude)
			if len(cands) == 0 {
				continue
			}
			alt := cands[0]

			slots[i] = PlanSlot{MealType: current.MealType, Recipe: alt}
			if obj := s.planObjective(slots); obj > best {
				best = obj
				improved = true
				delete(exclude, current.Recipe.Recipe.ID)
				exclude[alt.Recipe.ID] = struct{}{}
			} else {
				slots[i] = current
			}
		}
		if !improved {
			s.logger.Debug("plan refinement converged",
				zap.Int("iterations", iter+1),
				zap.Float64("objective", best))
			break
		}
	}

	selected := make([]recipe.Recipe, len(slots))
	for i, sl := range slots {
		selected[i] = sl.Recipe.Recipe
	}
	ctx.Selected = selected
	return slots
}

// planObjective scores a whole plan: the mean composite score plus up to 20
// points for ingredient diversity, the share of distinct normalized
// ingredients among all ingredient instances in the plan.
func (s *Scorer) planObjective(slots []PlanSlot) float64 {
	if len(slots) == 0 {
		return 0
	}
	total := 0.0
	distinct := make(map[string]struct{})
	instances := 0
	for _, sl := range slots {
		total += sl.Recipe.Score
		for _, name := range sl.Recipe.Recipe.IngredientNames() {
			distinct[s.matcher.Normalize(name)] = struct{}{}
			instances++
		}
	}
	mean := total / float64(len(slots))
	if instances == 0 {
		return mean
	}
	return mean + 20*float64(len(distinct))/float64(instances)
}
