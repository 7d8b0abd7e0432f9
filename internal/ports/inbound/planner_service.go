// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/planner"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
)

// PlannerService defines the meal-planning use cases
// This is the primary port that HTTP handlers and other driving adapters will use
type PlannerService interface {
	// Plan generation
	GenerateMealPlan(ctx context.Context, cmd GenerateMealPlanCommand) (*MealPlanDTO, error)
	FindAlternative(ctx context.Context, cmd FindAlternativeCommand) (*ScoredRecipeDTO, error)

	// Signals that feed future plans
	RecordUsage(ctx context.Context, cmd RecordUsageCommand) error
	RecordFeedback(ctx context.Context, cmd RecordFeedbackCommand) error
}

// Command objects for operations

// GenerateMealPlanCommand contains everything needed to assemble a plan
type GenerateMealPlanCommand struct {
	UserID      uuid.UUID
	Preferences preferences.Bundle
	Meals       map[recipe.MealType]int

	// Recipes optionally narrows the candidate pool; empty means the full
	// catalog known to the service.
	Recipes []recipe.Recipe
}

// FindAlternativeCommand asks for a replacement for one plan slot
type FindAlternativeCommand struct {
	UserID      uuid.UUID
	Preferences preferences.Bundle
	PlanRecipes []uuid.UUID
	Replace     uuid.UUID
	MealType    recipe.MealType
}

// RecordUsageCommand marks a recipe as used in a plan
type RecordUsageCommand struct {
	UserID   uuid.UUID
	RecipeID uuid.UUID
	MealType recipe.MealType
}

// RecordFeedbackCommand stores a user's reaction to a recipe
type RecordFeedbackCommand struct {
	UserID     uuid.UUID
	RecipeID   uuid.UUID
	IsCooked   bool
	IsLiked    bool
	IsDisliked bool
	Rating     int // 0 means unrated, otherwise 1-5
	MealType   recipe.MealType
}

// Response DTOs

// MealPlanDTO is the data transfer object for a generated plan
type MealPlanDTO struct {
	Recipes            []ScoredRecipeDTO                      `json:"recipes"`
	ByMealType         map[recipe.MealType][]ScoredRecipeDTO `json:"by_meal_type"`
	Level              string                                `json:"relaxation_level"`
	ConstraintsRelaxed []string                              `json:"constraints_relaxed,omitempty"`
	Outcome            string                                `json:"outcome"`
	Message            string                                `json:"message,omitempty"`
}

// ScoredRecipeDTO is one recommended recipe with its score breakdown
type ScoredRecipeDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Ingredients   []IngredientDTO   `json:"ingredients"`
	Instructions  []string          `json:"instructions,omitempty"`
	Tags          []string          `json:"tags"`
	Cuisines      []string          `json:"cuisines,omitempty"`
	PrepTime      int               `json:"prep_time"`
	CookTime      int               `json:"cook_time"`
	TotalTime     int               `json:"total_time"`
	Servings      int               `json:"servings"`
	EstimatedCost float64           `json:"estimated_cost"`
	Score         float64           `json:"score"`
	Breakdown     planner.Breakdown `json:"breakdown"`
}

// IngredientDTO for ingredient data
type IngredientDTO struct {
	Name        string `json:"name"`
	Measurement string `json:"measurement"`
}
