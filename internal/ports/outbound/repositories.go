// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/recipe"
)

// CandidateSource supplies the recipe pool that planning draws from
// This follows the Repository pattern for data access abstraction
type CandidateSource interface {
	// FindAll returns the full catalog of plannable recipes
	FindAll(ctx context.Context) ([]recipe.Recipe, error)
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error)

	// Catalog maintenance
	Save(ctx context.Context, r recipe.Recipe) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// HistoryRepository stores per-user recipe usage, newest first, capped at
// history.MaxEntries per user
type HistoryRepository interface {
	Record(ctx context.Context, userID uuid.UUID, entry history.Entry) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Entry, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// FeedbackRepository stores one feedback record per user and recipe;
// recording again for the same pair replaces the previous record
type FeedbackRepository interface {
	Upsert(ctx context.Context, fb history.Feedback) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Feedback, error)
	FindByUserAndRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*history.Feedback, error)
}

// PantryRepository stores the ingredient names a user has on hand
type PantryRepository interface {
	Replace(ctx context.Context, userID uuid.UUID, items []string) error
	FindByUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}
