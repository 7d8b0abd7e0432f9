package planner

import "errors"

// Engine error taxonomy. Constraint-unsatisfiable and insufficient-candidate
// situations are terminal states of the plan result, not Go errors; these
// sentinels cover caller mistakes detected before planning starts.

var (
	ErrNoRecipes         = errors.New("candidate recipe pool is empty")
	ErrNegativeMealCount = errors.New("meal counts must not be negative")
	ErrNoMealsRequested  = errors.New("at least one meal slot must be requested")
	ErrUnknownMealType   = errors.New("unknown meal type in meal counts")
	ErrRecipeNotInPlan   = errors.New("recipe to replace is not part of the current plan")
	ErrNoAlternative     = errors.New("no eligible alternative recipe at any relaxation level")
)
