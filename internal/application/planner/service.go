// Package planner provides the application layer for meal planning
// This implements the use cases defined in the inbound ports
package planner

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/planner"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/mealsmith/v1/internal/ports/inbound"
	"github.com/mealsmith/v1/internal/ports/outbound"
	"github.com/mealsmith/v1/pkg/errors"
	"go.uber.org/zap"
)

// Metrics receives planning observations. The monitoring adapter implements
// it; NopMetrics satisfies it for tests.
type Metrics interface {
	ObservePlan(outcome, level string, duration time.Duration)
	ObserveAlternative(found bool)
}

// NopMetrics discards all observations.
type NopMetrics struct{}

func (NopMetrics) ObservePlan(string, string, time.Duration) {}
func (NopMetrics) ObserveAlternative(bool)                   {}

// PlannerService implements the meal-planning use cases
type PlannerService struct {
	candidates outbound.CandidateSource
	histRepo   outbound.HistoryRepository
	fbRepo     outbound.FeedbackRepository
	pantryRepo outbound.PantryRepository
	engine     *planner.Engine
	metrics    Metrics
	logger     *zap.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	candidates outbound.CandidateSource,
	histRepo outbound.HistoryRepository,
	fbRepo outbound.FeedbackRepository,
	pantryRepo outbound.PantryRepository,
	engine *planner.Engine,
	metrics Metrics,
	logger *zap.Logger,
) inbound.PlannerService {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &PlannerService{
		candidates: candidates,
		histRepo:   histRepo,
		fbRepo:     fbRepo,
		pantryRepo: pantryRepo,
		engine:     engine,
		metrics:    metrics,
		logger:     logger.Named("planner-service"),
	}
}

// GenerateMealPlan assembles a plan for the user from the candidate pool
// and the user's stored history, feedback and pantry
func (s *PlannerService) GenerateMealPlan(ctx context.Context, cmd inbound.GenerateMealPlanCommand) (*inbound.MealPlanDTO, error) {
	started := time.Now()
	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("requested_meals", totalMeals(cmd.Meals)),
	)

	pool := cmd.Recipes
	if len(pool) == 0 {
		var err error
		pool, err = s.candidates.FindAll(ctx)
		if err != nil {
			return nil, errors.NewStorageError("load recipe catalog", err)
		}
	}
	if len(pool) == 0 {
		return nil, errors.NewEmptyRecipePoolError()
	}

	hist, fb, pantry, err := s.loadUserSignals(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.GenerateMealPlan(planner.Request{
		Recipes:     pool,
		Preferences: cmd.Preferences,
		Meals:       planner.MealCounts(cmd.Meals),
		History:     hist,
		Feedback:    fb,
		Pantry:      pantry,
	})
	if err != nil {
		return nil, errors.NewInvalidMealPlanError(err.Error())
	}

	s.metrics.ObservePlan(string(result.Outcome), result.Level, time.Since(started))
	s.logger.Info("Meal plan generated",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("outcome", string(result.Outcome)),
		zap.String("level", result.Level),
		zap.Int("recipes", len(result.Recipes)),
	)

	return planToDTO(result), nil
}

// FindAlternative proposes a replacement for one recipe of a submitted plan
func (s *PlannerService) FindAlternative(ctx context.Context, cmd inbound.FindAlternativeCommand) (*inbound.ScoredRecipeDTO, error) {
	s.logger.Info("Finding alternative recipe",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("replace", cmd.Replace.String()),
		zap.String("meal_type", string(cmd.MealType)),
	)

	pool, err := s.candidates.FindAll(ctx)
	if err != nil {
		return nil, errors.NewStorageError("load recipe catalog", err)
	}
	plan, err := s.candidates.FindByIDs(ctx, cmd.PlanRecipes)
	if err != nil {
		return nil, errors.NewStorageError("load plan recipes", err)
	}

	hist, fb, pantry, err := s.loadUserSignals(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	alt, err := s.engine.FindAlternative(planner.AlternativeRequest{
		Recipes:     pool,
		Preferences: cmd.Preferences,
		Plan:        plan,
		Replace:     cmd.Replace,
		MealType:    cmd.MealType,
		History:     hist,
		Feedback:    fb,
		Pantry:      pantry,
	})
	if err != nil {
		s.metrics.ObserveAlternative(false)
		switch {
		case stderrors.Is(err, planner.ErrNoAlternative):
			return nil, errors.NewNoAlternativeError(string(cmd.MealType))
		case stderrors.Is(err, planner.ErrRecipeNotInPlan):
			return nil, errors.NewRecipeNotInPlanError(cmd.Replace.String())
		default:
			return nil, errors.NewInvalidMealPlanError(err.Error())
		}
	}

	s.metrics.ObserveAlternative(true)
	dto := scoredToDTO(alt)
	return &dto, nil
}

// RecordUsage marks a recipe as used so future variety scoring can see it
func (s *PlannerService) RecordUsage(ctx context.Context, cmd inbound.RecordUsageCommand) error {
	if _, err := s.candidates.FindByID(ctx, cmd.RecipeID); err != nil {
		return errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	entry := history.Entry{
		RecipeID: cmd.RecipeID,
		MealType: cmd.MealType,
		UsedAt:   time.Now(),
	}
	if err := s.histRepo.Record(ctx, cmd.UserID, entry); err != nil {
		return errors.NewStorageError("record recipe usage", err)
	}

	s.logger.Debug("Recipe usage recorded",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("recipe_id", cmd.RecipeID.String()),
	)
	return nil
}

// RecordFeedback stores a user's reaction, replacing any previous feedback
// for the same recipe
func (s *PlannerService) RecordFeedback(ctx context.Context, cmd inbound.RecordFeedbackCommand) error {
	if cmd.Rating < 0 || cmd.Rating > 5 {
		return errors.NewValidationError(fmt.Sprintf("rating must be between 0 and 5, got %d", cmd.Rating))
	}
	if cmd.IsLiked && cmd.IsDisliked {
		return errors.NewValidationError("feedback cannot be both liked and disliked")
	}
	if _, err := s.candidates.FindByID(ctx, cmd.RecipeID); err != nil {
		return errors.NewRecipeNotFoundError(cmd.RecipeID.String())
	}

	fb := history.Feedback{
		RecipeID:   cmd.RecipeID,
		UserID:     cmd.UserID,
		IsCooked:   cmd.IsCooked,
		IsLiked:    cmd.IsLiked,
		IsDisliked: cmd.IsDisliked,
		Rating:     cmd.Rating,
		MealType:   cmd.MealType,
		GivenAt:    time.Now(),
	}
	if err := s.fbRepo.Upsert(ctx, fb); err != nil {
		return errors.NewStorageError("record feedback", err)
	}

	s.logger.Debug("Feedback recorded",
		zap.String("user_id", cmd.UserID.String()),
		zap.String("recipe_id", cmd.RecipeID.String()),
		zap.Int("rating", cmd.Rating),
	)
	return nil
}

// loadUserSignals fetches the stored history, feedback and pantry for a
// user. Missing data is treated as empty, never as an error: a brand new
// user must still get a plan.
func (s *PlannerService) loadUserSignals(ctx context.Context, userID uuid.UUID) ([]history.Entry, []history.Feedback, []string, error) {
	hist, err := s.histRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, errors.NewStorageError("load usage history", err)
	}
	fb, err := s.fbRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, errors.NewStorageError("load feedback", err)
	}
	pantry, err := s.pantryRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, errors.NewStorageError("load pantry", err)
	}
	return hist, fb, pantry, nil
}

// DTO mapping

func planToDTO(result planner.Result) *inbound.MealPlanDTO {
	dto := &inbound.MealPlanDTO{
		Recipes:            make([]inbound.ScoredRecipeDTO, 0, len(result.Recipes)),
		ByMealType:         make(map[recipe.MealType][]inbound.ScoredRecipeDTO, len(result.ByMealType)),
		Level:              result.Level,
		ConstraintsRelaxed: result.ConstraintsRelaxed,
		Outcome:            string(result.Outcome),
		Message:            result.Message,
	}
	for _, sr := range result.Recipes {
		dto.Recipes = append(dto.Recipes, scoredToDTO(sr))
	}
	for mt, recipes := range result.ByMealType {
		for _, sr := range recipes {
			dto.ByMealType[mt] = append(dto.ByMealType[mt], scoredToDTO(sr))
		}
	}
	return dto
}

func scoredToDTO(sr planner.ScoredRecipe) inbound.ScoredRecipeDTO {
	r := sr.Recipe
	dto := inbound.ScoredRecipeDTO{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Ingredients:   make([]inbound.IngredientDTO, 0, len(r.Ingredients)),
		Instructions:  r.Instructions,
		Tags:          r.Tags,
		Cuisines:      r.Cuisines,
		PrepTime:      int(r.PrepTime.Minutes()),
		CookTime:      int(r.CookTime.Minutes()),
		TotalTime:     int(r.TotalTime().Minutes()),
		Servings:      r.Servings,
		EstimatedCost: r.EstimatedCost,
		Score:         sr.Score,
		Breakdown:     sr.Breakdown,
	}
	for _, ing := range r.Ingredients {
		dto.Ingredients = append(dto.Ingredients, inbound.IngredientDTO{
			Name:        ing.Name,
			Measurement: ing.Measurement,
		})
	}
	return dto
}

func totalMeals(meals map[recipe.MealType]int) int {
	total := 0
	for _, n := range meals {
		total += n
	}
	return total
}
