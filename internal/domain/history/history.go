// Package history holds the usage and feedback records that drive the
// variety and feedback-bias scorers. Both are read-only snapshots inside a
// planning request; the host appends to them after a plan is accepted.
package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/recipe"
)

// MaxEntries caps the usage log length kept per user, newest first.
const MaxEntries = 100

// Entry records one use of a recipe.
type Entry struct {
	RecipeID uuid.UUID       `json:"recipe_id"`
	UsedAt   time.Time       `json:"used_at"`
	MealType recipe.MealType `json:"meal_type"`
}

// Feedback is the single feedback record for a (recipe, user) pair.
type Feedback struct {
	RecipeID   uuid.UUID       `json:"recipe_id"`
	UserID     uuid.UUID       `json:"user_id"`
	IsCooked   bool            `json:"is_cooked"`
	IsLiked    bool            `json:"is_liked"`
	IsDisliked bool            `json:"is_disliked"`
	Rating     int             `json:"rating"` // 0 means unrated, otherwise 1-5
	GivenAt    time.Time       `json:"given_at"`
	MealType   recipe.MealType `json:"meal_type,omitempty"`
}

// IsNegative reports whether the feedback should push a recipe away:
// an explicit dislike or a low rating.
func (f Feedback) IsNegative() bool {
	return f.IsDisliked || (f.Rating > 0 && f.Rating < 3)
}

// LastUse returns the most recent entry for the recipe and how many times it
// appears in the log. Entries are expected newest first, but the scan does
// not rely on ordering.
func LastUse(entries []Entry, recipeID uuid.UUID) (last time.Time, count int) {
	for _, e := range entries {
		if e.RecipeID != recipeID {
			continue
		}
		count++
		if e.UsedAt.After(last) {
			last = e.UsedAt
		}
	}
	return last, count
}
