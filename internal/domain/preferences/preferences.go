// Package preferences models the user preference bundle the planner scores
// against. Dietary flags are hard constraints; everything else is soft and
// subject to relaxation. The bundle is validated once at the boundary, not
// inside every scorer.
package preferences

import (
	"errors"

	"github.com/mealsmith/v1/internal/domain/recipe"
)

// SkillLevel buckets the user's cooking ability.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// DurationBucket is the user's preferred total cooking time.
type DurationBucket string

const (
	DurationQuick     DurationBucket = "quick"     // under ~15 minutes
	DurationStandard  DurationBucket = "standard"  // ~30-40 minutes
	DurationExtended  DurationBucket = "extended"  // about an hour
	DurationUnlimited DurationBucket = "unlimited" // no time preference
)

// BudgetPeriod says which period the budget amount covers.
type BudgetPeriod string

const (
	BudgetDaily   BudgetPeriod = "daily"
	BudgetWeekly  BudgetPeriod = "weekly"
	BudgetMonthly BudgetPeriod = "monthly"
)

// Dietary holds the hard dietary constraints.
type Dietary struct {
	Vegetarian   bool     `json:"vegetarian"`
	Vegan        bool     `json:"vegan"`
	GlutenFree   bool     `json:"gluten_free"`
	DairyFree    bool     `json:"dairy_free"`
	NutFree      bool     `json:"nut_free"`
	LowCarb      bool     `json:"low_carb"`
	Allergies    []string `json:"allergies,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
}

// Food holds ingredient and cuisine tastes.
type Food struct {
	FavoriteIngredients []string `json:"favorite_ingredients,omitempty"`
	DislikedIngredients []string `json:"disliked_ingredients,omitempty"`
	PreferredCuisines   []string `json:"preferred_cuisines,omitempty"`
}

// Cooking holds habits around time, skill and meal structure.
type Cooking struct {
	Frequency         string            `json:"frequency,omitempty"`
	PreferredDuration DurationBucket    `json:"preferred_duration"`
	Skill             SkillLevel        `json:"skill"`
	AcceptedMealTypes []recipe.MealType `json:"accepted_meal_types"`
	HouseholdSize     int               `json:"household_size,omitempty"`
}

// Budget holds the spending constraint.
type Budget struct {
	Amount float64      `json:"amount"`
	Period BudgetPeriod `json:"period"`
}

// Bundle is the full preference snapshot for one planning request.
type Bundle struct {
	Dietary Dietary `json:"dietary"`
	Food    Food    `json:"food"`
	Cooking Cooking `json:"cooking"`
	Budget  Budget  `json:"budget"`
}

var (
	ErrNegativeBudget      = errors.New("budget amount cannot be negative")
	ErrUnknownBudgetPeriod = errors.New("unknown budget period")
	ErrUnknownSkill        = errors.New("unknown skill level")
	ErrUnknownDuration     = errors.New("unknown duration bucket")
	ErrInvalidMealType     = errors.New("invalid accepted meal type")
)

// Validate checks the bundle once at the boundary. Zero values are filled
// with sensible defaults first, so a mostly-empty bundle is still usable.
func (b *Bundle) Validate() error {
	b.applyDefaults()

	if b.Budget.Amount < 0 {
		return ErrNegativeBudget
	}
	switch b.Budget.Period {
	case BudgetDaily, BudgetWeekly, BudgetMonthly:
	default:
		return ErrUnknownBudgetPeriod
	}
	switch b.Cooking.Skill {
	case SkillBeginner, SkillIntermediate, SkillAdvanced:
	default:
		return ErrUnknownSkill
	}
	switch b.Cooking.PreferredDuration {
	case DurationQuick, DurationStandard, DurationExtended, DurationUnlimited:
	default:
		return ErrUnknownDuration
	}
	for _, mt := range b.Cooking.AcceptedMealTypes {
		if !mt.IsValid() {
			return ErrInvalidMealType
		}
	}
	return nil
}

func (b *Bundle) applyDefaults() {
	if b.Budget.Period == "" {
		b.Budget.Period = BudgetWeekly
	}
	if b.Cooking.Skill == "" {
		b.Cooking.Skill = SkillIntermediate
	}
	if b.Cooking.PreferredDuration == "" {
		b.Cooking.PreferredDuration = DurationUnlimited
	}
	if len(b.Cooking.AcceptedMealTypes) == 0 {
		b.Cooking.AcceptedMealTypes = append([]recipe.MealType(nil), recipe.AllMealTypes...)
	}
}

// AcceptsMealType reports whether the user plans meals of the given type.
func (b Bundle) AcceptsMealType(mt recipe.MealType) bool {
	for _, accepted := range b.Cooking.AcceptedMealTypes {
		if accepted == mt {
			return true
		}
	}
	return false
}

// MaxCostPerMeal normalizes the budget to a per-meal ceiling, planning one
// main meal per day of the budget period. Zero means no budget constraint.
func (b Bundle) MaxCostPerMeal() float64 {
	if b.Budget.Amount <= 0 {
		return 0
	}
	switch b.Budget.Period {
	case BudgetDaily:
		return b.Budget.Amount
	case BudgetMonthly:
		return b.Budget.Amount / 30
	default:
		return b.Budget.Amount / 7
	}
}
