// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/mealsmith/v1/internal/ports/inbound"
	"github.com/mealsmith/v1/pkg/errors"
)

// PlannerHandlers handles the meal-planning REST API requests
type PlannerHandlers struct {
	service  inbound.PlannerService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewPlannerHandlers creates a new planner handlers instance
func NewPlannerHandlers(service inbound.PlannerService, logger *zap.Logger) *PlannerHandlers {
	return &PlannerHandlers{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// MealPlanRequest is the request body for POST /api/v1/mealplan
type MealPlanRequest struct {
	UserID      string             `json:"user_id" validate:"required,uuid"`
	Preferences preferences.Bundle `json:"preferences"`
	Meals       map[string]int     `json:"meals" validate:"required,min=1"`
}

// AlternativeRequest is the request body for POST /api/v1/mealplan/alternative
type AlternativeRequest struct {
	UserID      string             `json:"user_id" validate:"required,uuid"`
	Preferences preferences.Bundle `json:"preferences"`
	PlanRecipes []string           `json:"plan_recipes" validate:"required,min=1,dive,uuid"`
	Replace     string             `json:"replace" validate:"required,uuid"`
	MealType    string             `json:"meal_type" validate:"required"`
}

// UsageRequest is the request body for POST /api/v1/mealplan/usage
type UsageRequest struct {
	UserID   string `json:"user_id" validate:"required,uuid"`
	RecipeID string `json:"recipe_id" validate:"required,uuid"`
	MealType string `json:"meal_type"`
}

// FeedbackRequest is the request body for POST /api/v1/mealplan/feedback
type FeedbackRequest struct {
	UserID     string `json:"user_id" validate:"required,uuid"`
	RecipeID   string `json:"recipe_id" validate:"required,uuid"`
	IsCooked   bool   `json:"is_cooked"`
	IsLiked    bool   `json:"is_liked"`
	IsDisliked bool   `json:"is_disliked"`
	Rating     int    `json:"rating" validate:"min=0,max=5"`
	MealType   string `json:"meal_type"`
}

// GenerateMealPlan handles POST /api/v1/mealplan
func (h *PlannerHandlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req MealPlanRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	meals := make(map[recipe.MealType]int, len(req.Meals))
	for mt, count := range req.Meals {
		meals[recipe.MealType(mt)] = count
	}

	plan, err := h.service.GenerateMealPlan(r.Context(), inbound.GenerateMealPlanCommand{
		UserID:      uuid.MustParse(req.UserID),
		Preferences: req.Preferences,
		Meals:       meals,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, plan)
}

// FindAlternative handles POST /api/v1/mealplan/alternative
func (h *PlannerHandlers) FindAlternative(w http.ResponseWriter, r *http.Request) {
	var req AlternativeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	planIDs := make([]uuid.UUID, 0, len(req.PlanRecipes))
	for _, raw := range req.PlanRecipes {
		planIDs = append(planIDs, uuid.MustParse(raw))
	}

	alt, err := h.service.FindAlternative(r.Context(), inbound.FindAlternativeCommand{
		UserID:      uuid.MustParse(req.UserID),
		Preferences: req.Preferences,
		PlanRecipes: planIDs,
		Replace:     uuid.MustParse(req.Replace),
		MealType:    recipe.MealType(req.MealType),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, alt)
}

// RecordUsage handles POST /api/v1/mealplan/usage
func (h *PlannerHandlers) RecordUsage(w http.ResponseWriter, r *http.Request) {
	var req UsageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.RecordUsage(r.Context(), inbound.RecordUsageCommand{
		UserID:   uuid.MustParse(req.UserID),
		RecipeID: uuid.MustParse(req.RecipeID),
		MealType: recipe.MealType(req.MealType),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// RecordFeedback handles POST /api/v1/mealplan/feedback
func (h *PlannerHandlers) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.RecordFeedback(r.Context(), inbound.RecordFeedbackCommand{
		UserID:     uuid.MustParse(req.UserID),
		RecipeID:   uuid.MustParse(req.RecipeID),
		IsCooked:   req.IsCooked,
		IsLiked:    req.IsLiked,
		IsDisliked: req.IsDisliked,
		Rating:     req.Rating,
		MealType:   recipe.MealType(req.MealType),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation, writing the error response itself on failure.
func (h *PlannerHandlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("invalid JSON body: "+err.Error()))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var fields []errors.ValidationError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, errors.ValidationError{
					Field:   ve.Field(),
					Value:   ve.Value(),
					Tag:     ve.Tag(),
					Message: ve.Field() + " failed validation rule " + ve.Tag(),
				})
			}
		}
		h.writeError(w, r, errors.NewValidationErrors(fields))
		return false
	}

	return true
}

func (h *PlannerHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.NewInternalError(err.Error())
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(appErr),
		)
	} else {
		h.logger.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
		)
	}

	h.writeJSON(w, status, errors.ToErrorResponse(appErr, middleware.GetReqID(r.Context())))
}

// writeJSON writes a JSON response
func (h *PlannerHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}
