// Package planner implements the meal-plan recommendation engine: ingredient
// matching, multi-criteria recipe scoring, per-meal-type candidate
// preparation, global slot assignment and the relaxation ladder that degrades
// gracefully when strict preferences cannot be satisfied.
//
// The engine is pure, synchronous and CPU-bound. It consumes read-only
// snapshots of recipes, preferences, history, feedback and pantry items and
// never performs I/O; hosts may run independent requests concurrently.
package planner

import (
	"time"

	"github.com/mealsmith/v1/internal/domain/recipe"
)

// TimePenaltyCurve selects how the time-fit sub-score falls off as a recipe's
// total time drifts from the preferred duration bucket.
type TimePenaltyCurve string

const (
	CurveLinear      TimePenaltyCurve = "linear"
	CurveExponential TimePenaltyCurve = "exponential"
	CurveStepped     TimePenaltyCurve = "stepped"
)

// Weights are the relative weights of the soft sub-scores. They are
// normalized to sum 1 when combined, so any positive scale works.
type Weights struct {
	Food     float64 `mapstructure:"food"`
	Cooking  float64 `mapstructure:"cooking"`
	Budget   float64 `mapstructure:"budget"`
	Variety  float64 `mapstructure:"variety"`
	Overlap  float64 `mapstructure:"overlap"`
	Cuisine  float64 `mapstructure:"cuisine"`
	Pantry   float64 `mapstructure:"pantry"`
	Feedback float64 `mapstructure:"feedback"`
}

// DefaultWeights is the canonical weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		Food:     0.20,
		Cooking:  0.20,
		Budget:   0.15,
		Variety:  0.15,
		Overlap:  0.10,
		Cuisine:  0.10,
		Pantry:   0.05,
		Feedback: 0.05,
	}
}

func (w Weights) sum() float64 {
	return w.Food + w.Cooking + w.Budget + w.Variety + w.Overlap + w.Cuisine + w.Pantry + w.Feedback
}

// Config carries every tunable of the engine. It is plain immutable data
// passed in at construction time so tests and deployments can substitute
// alternate weightings without touching package state.
type Config struct {
	Weights          Weights
	TimePenaltyCurve TimePenaltyCurve

	// Exploration bonus: applied with ExplorationChance probability, worth
	// NoveltyBonus for recipes dissimilar to recent history and
	// UnseenCuisineBonus for recipes introducing an unseen cuisine.
	ExplorationChance  float64
	NoveltyBonus       float64
	UnseenCuisineBonus float64

	// RepetitionPenalty is subtracted per already-selected plan recipe that
	// shares the candidate's main (first listed) ingredient.
	RepetitionPenalty float64

	// FeedbackCooldown is the window after a dislike or low rating during
	// which a decaying extra penalty applies.
	FeedbackCooldown time.Duration

	// MaxRefineIterations bounds the hill-climbing plan refinement.
	MaxRefineIterations int

	StopWords         []string
	EquipmentKeywords []string
	TechniqueKeywords []string
	MealTypeSynonyms  map[recipe.MealType][]string
}

// DefaultConfig returns the canonical engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights:             DefaultWeights(),
		TimePenaltyCurve:    CurveLinear,
		ExplorationChance:   0.25,
		NoveltyBonus:        20,
		UnseenCuisineBonus:  25,
		RepetitionPenalty:   5,
		FeedbackCooldown:    30 * 24 * time.Hour,
		MaxRefineIterations: 10,
		StopWords: []string{
			"a", "an", "the", "of", "and", "or", "with", "to",
			"fresh", "dried", "ground", "chopped", "diced", "minced",
			"sliced", "grated", "large", "small", "medium", "cup",
			"cups", "tbsp", "tsp", "oz", "g", "kg", "ml", "lb",
		},
		EquipmentKeywords: []string{
			"blender", "food processor", "stand mixer", "mandoline",
			"thermometer", "sous vide", "torch", "pressure cooker",
		},
		TechniqueKeywords: []string{
			"julienne", "braise", "temper", "emulsify", "deglaze",
			"caramelize", "reduce", "proof", "flambe", "sous vide",
		},
		MealTypeSynonyms: map[recipe.MealType][]string{
			recipe.MealTypeBreakfast: {"morning", "brunch"},
			recipe.MealTypeLunch:     {"midday", "light-meal"},
			recipe.MealTypeDinner:    {"supper", "evening", "main-course"},
			recipe.MealTypeSnacks:    {"snack", "appetizer", "treat"},
		},
	}
}

// Constraint names a soft scoring criterion for relaxation bookkeeping.
type Constraint string

const (
	ConstraintVariety  Constraint = "variety"
	ConstraintCooking  Constraint = "cooking"
	ConstraintFood     Constraint = "food"
	ConstraintBudget   Constraint = "budget"
	ConstraintCuisine  Constraint = "cuisine"
	ConstraintPantry   Constraint = "pantry"
	ConstraintFeedback Constraint = "feedback"
	ConstraintOverlap  Constraint = "overlap"
)

// RelaxationLevel is one rung of the constraint ladder. Factor blends the
// relaxed sub-scores toward a neutral 100; CrossMealType additionally lets
// slots be filled from any accepted meal type. Allergy, vegan and vegetarian
// filters are never relaxed at any level; the secondary dietary flags
// (gluten-free, dairy-free, nut-free, low-carb) relax only when
// RelaxSecondaryDietary is set.
type RelaxationLevel struct {
	Name                  string
	Factor                float64
	Relaxed               []Constraint
	CrossMealType         bool
	RelaxSecondaryDietary bool
}

// Relaxes reports whether the level loosens the given constraint.
func (l RelaxationLevel) Relaxes(c Constraint) bool {
	for _, r := range l.Relaxed {
		if r == c {
			return true
		}
	}
	return false
}

var allSoftConstraints = []Constraint{
	ConstraintVariety, ConstraintCooking, ConstraintFood, ConstraintBudget,
	ConstraintCuisine, ConstraintPantry, ConstraintFeedback, ConstraintOverlap,
}

// DefaultLadder returns the ordered relaxation levels, strictest first.
// Factors increase monotonically; the terminal level relaxes everything
// except the allergy/vegan/vegetarian hard filters.
func DefaultLadder() []RelaxationLevel {
	return []RelaxationLevel{
		{Name: "strict", Factor: 0},
		{Name: "relax-variety", Factor: 0.3, Relaxed: []Constraint{ConstraintVariety}},
		{Name: "relax-cooking", Factor: 0.6, Relaxed: []Constraint{ConstraintVariety, ConstraintCooking}},
		{Name: "relax-food", Factor: 0.8, Relaxed: []Constraint{ConstraintVariety, ConstraintCooking, ConstraintFood}},
		{Name: "dietary-only", Factor: 1.0, Relaxed: allSoftConstraints},
		{
			Name:                  "extreme",
			Factor:                1.0,
			Relaxed:               allSoftConstraints,
			CrossMealType:         true,
			RelaxSecondaryDietary: true,
		},
	}
}
