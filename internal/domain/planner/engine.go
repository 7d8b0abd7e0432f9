package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"go.uber.org/zap"
)

// MealCounts maps each requested meal type to the number of recipes wanted.
type MealCounts map[recipe.MealType]int

// Total returns the number of requested slots.
func (c MealCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Validate rejects unknown meal types, negative counts, and requests with no
// slots at all.
func (c MealCounts) Validate() error {
	for mt, n := range c {
		if !mt.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownMealType, mt)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeMealCount, mt)
		}
	}
	if c.Total() == 0 {
		return ErrNoMealsRequested
	}
	return nil
}

// Request is a complete, self-contained planning request. The engine only
// reads it; all data loading happens in the caller.
type Request struct {
	Recipes     []recipe.Recipe
	Preferences preferences.Bundle
	Meals       MealCounts
	History     []history.Entry
	Feedback    []history.Feedback
	Pantry      []string

	// Now anchors variety and feedback-cooldown time math. Zero means the
	// wall clock.
	Now time.Time
}

// Outcome classifies how a plan was produced.
type Outcome string

const (
	// OutcomeFull means every slot was filled under strict preferences.
	OutcomeFull Outcome = "full"
	// OutcomeRelaxed means every slot was filled after loosening one or
	// more soft constraints.
	OutcomeRelaxed Outcome = "relaxed"
	// OutcomeFallback means slot-accurate planning failed and the result is
	// a flat list of the best dietary-safe suggestions.
	OutcomeFallback Outcome = "fallback"
	// OutcomeEmpty means not even the fallback found a dietary-safe recipe.
	OutcomeEmpty Outcome = "empty"
)

// Result is a finished plan. Recipes holds every pick in assignment order;
// ByMealType groups the same picks per requested meal type. For fallback
// outcomes a pick appears under a meal type only when its tags justify it.
type Result struct {
	Recipes            []ScoredRecipe                     `json:"recipes"`
	ByMealType         map[recipe.MealType][]ScoredRecipe `json:"by_meal_type"`
	Level              string                             `json:"level"`
	ConstraintsRelaxed []string                           `json:"constraints_relaxed,omitempty"`
	Outcome            Outcome                            `json:"outcome"`
	Message            string                             `json:"message,omitempty"`
}

// AlternativeRequest asks for a single replacement recipe for one slot of an
// existing plan.
type AlternativeRequest struct {
	Recipes     []recipe.Recipe
	Preferences preferences.Bundle
	Plan        []recipe.Recipe
	Replace     uuid.UUID
	MealType    recipe.MealType
	History     []history.Entry
	Feedback    []history.Feedback
	Pantry      []string
	Now         time.Time
}

// Engine is the meal-plan recommendation engine. It is stateless across
// requests; concurrency safety only requires the injected Rand to be safe
// for concurrent use.
type Engine struct {
	scorer *Scorer
	ladder []RelaxationLevel
	logger *zap.Logger
}

// NewEngine builds an engine with the default relaxation ladder.
func NewEngine(cfg Config, rng Rand, logger *zap.Logger) *Engine {
	return &Engine{
		scorer: NewScorer(cfg, rng, logger),
		ladder: DefaultLadder(),
		logger: logger.Named("planner-engine"),
	}
}

// GenerateMealPlan produces a plan for the request. It walks the relaxation
// ladder strictest level first and returns at the FIRST level that fills
// every requested slot; later levels are never consulted once one succeeds.
// When no level can fill the plan it degrades to a fallback suggestion list,
// and to an explicit empty result when even that finds nothing. Errors are
// reserved for invalid requests.
func (e *Engine) GenerateMealPlan(req Request) (Result, error) {
	if len(req.Recipes) == 0 {
		return Result{}, ErrNoRecipes
	}
	if err := req.Meals.Validate(); err != nil {
		return Result{}, err
	}
	if err := req.Preferences.Validate(); err != nil {
		return Result{}, err
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	total := req.Meals.Total()
	for _, level := range e.ladder {
		ctx := e.scorer.NewContext(req.Recipes, req.Preferences, req.History, req.Feedback, req.Pantry, now)
		slots, unfilled := e.scorer.BuildPlan(req.Recipes, req.Meals, ctx, level)
		if len(unfilled) > 0 {
			e.logger.Debug("relaxation level could not fill plan",
				zap.String("level", level.Name),
				zap.Int("filled", len(slots)),
				zap.Int("requested", total))
			continue
		}
		return e.planResult(slots, level), nil
	}

	return e.fallbackResult(req, now), nil
}

func (e *Engine) planResult(slots []PlanSlot, level RelaxationLevel) Result {
	res := Result{
		Recipes:    make([]ScoredRecipe, 0, len(slots)),
		ByMealType: make(map[recipe.MealType][]ScoredRecipe),
		Level:      level.Name,
		Outcome:    OutcomeFull,
	}
	for _, sl := range slots {
		res.Recipes = append(res.Recipes, sl.Recipe)
		res.ByMealType[sl.MealType] = append(res.ByMealType[sl.MealType], sl.Recipe)
	}
	if relaxed := level.relaxedNames(); len(relaxed) > 0 {
		res.Outcome = OutcomeRelaxed
		res.ConstraintsRelaxed = relaxed
		res.Message = fmt.Sprintf("Plan required relaxing: %v", relaxed)
	}
	e.logger.Info("meal plan generated",
		zap.String("level", level.Name),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("recipes", len(res.Recipes)))
	return res
}

// fallbackResult ranks every dietary-safe recipe with all soft constraints
// fully relaxed and returns the best few as untyped suggestions. A
// suggestion is grouped under a requested meal type only when one of its
// tags names that meal type or a configured synonym.
func (e *Engine) fallbackResult(req Request, now time.Time) Result {
	level := fallbackLevel()
	ctx := e.scorer.NewContext(req.Recipes, req.Preferences, req.History, req.Feedback, req.Pantry, now)
	scored := e.scorer.ScoreAll(req.Recipes, ctx, level)

	if len(scored) == 0 {
		e.logger.Warn("no dietary-safe recipes available",
			zap.Int("pool", len(req.Recipes)))
		return Result{
			ByMealType: map[recipe.MealType][]ScoredRecipe{},
			Level:      level.Name,
			Outcome:    OutcomeEmpty,
			Message:    "No recipes satisfy the dietary restrictions.",
		}
	}

	limit := req.Meals.Total()
	if limit < 3 {
		limit = 3
	}
	if limit > len(scored) {
		limit = len(scored)
	}
	scored = scored[:limit]

	byType := make(map[recipe.MealType][]ScoredRecipe)
	for mt := range req.Meals {
		for _, sr := range scored {
			if sr.Recipe.HasTag(string(mt)) || e.hasSynonymTag(sr.Recipe, mt) {
				byType[mt] = append(byType[mt], sr)
			}
		}
	}

	return Result{
		Recipes:            scored,
		ByMealType:         byType,
		Level:              level.Name,
		ConstraintsRelaxed: level.relaxedNames(),
		Outcome:            OutcomeFallback,
		Message:            "Could not assemble a full plan; returning best available suggestions.",
	}
}

func (e *Engine) hasSynonymTag(r recipe.Recipe, mt recipe.MealType) bool {
	for _, syn := range e.scorer.cfg.MealTypeSynonyms[mt] {
		if r.HasTag(syn) {
			return true
		}
	}
	return false
}

// fallbackLevel is past the end of the ladder: every soft constraint fully
// relaxed, secondary dietary flags waived, meal typing ignored by the
// caller.
func fallbackLevel() RelaxationLevel {
	return RelaxationLevel{
		Name:                  "fallback",
		Factor:                1.0,
		Relaxed:               allSoftConstraints,
		CrossMealType:         true,
		RelaxSecondaryDietary: true,
	}
}

// relaxedNames lists what a level loosened, for response bookkeeping.
func (l RelaxationLevel) relaxedNames() []string {
	names := make([]string, 0, len(l.Relaxed)+2)
	for _, c := range l.Relaxed {
		names = append(names, string(c))
	}
	if l.CrossMealType {
		names = append(names, "meal-type")
	}
	if l.RelaxSecondaryDietary {
		names = append(names, "secondary-dietary")
	}
	sort.Strings(names)
	return names
}

// FindAlternative proposes a replacement for one recipe of an existing plan.
// Remaining plan recipes stay in the scoring context so overlap and
// repetition steer the pick, and every plan recipe (including the one being
// replaced) is excluded from candidacy. The relaxation ladder applies the
// same way as in plan generation: the strictest level with any candidate
// wins.
func (e *Engine) FindAlternative(req AlternativeRequest) (ScoredRecipe, error) {
	if len(req.Recipes) == 0 {
		return ScoredRecipe{}, ErrNoRecipes
	}
	if !req.MealType.IsValid() {
		return ScoredRecipe{}, fmt.Errorf("%w: %q", ErrUnknownMealType, req.MealType)
	}
	if err := req.Preferences.Validate(); err != nil {
		return ScoredRecipe{}, err
	}

	exclude := make(map[uuid.UUID]struct{}, len(req.Plan))
	remaining := make([]recipe.Recipe, 0, len(req.Plan))
	found := false
	for _, r := range req.Plan {
		exclude[r.ID] = struct{}{}
		if r.ID == req.Replace {
			found = true
			continue
		}
		remaining = append(remaining, r)
	}
	if !found {
		return ScoredRecipe{}, fmt.Errorf("%w: %s", ErrRecipeNotInPlan, req.Replace)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	for _, level := range e.ladder {
		ctx := e.scorer.NewContext(req.Recipes, req.Preferences, req.History, req.Feedback, req.Pantry, now)
		ctx.Selected = remaining
		cands := e.scorer.PrepareCandidates(req.Recipes, req.MealType, ctx, level, exclude)
		if len(cands) == 0 {
			continue
		}
		e.logger.Info("alternative found",
			zap.String("level", level.Name),
			zap.String("recipe_id", cands[0].Recipe.ID.String()))
		return cands[0], nil
	}
	return ScoredRecipe{}, ErrNoAlternative
}
