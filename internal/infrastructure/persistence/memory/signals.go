package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/ports/outbound"
)

// HistoryRepository implements in-memory usage history storage. Entries are
// kept newest first and capped at history.MaxEntries per user.
type HistoryRepository struct {
	entries map[uuid.UUID][]history.Entry
	mutex   sync.RWMutex
}

// NewHistoryRepository creates a new in-memory history repository
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{
		entries: make(map[uuid.UUID][]history.Entry),
	}
}

var _ outbound.HistoryRepository = (*HistoryRepository)(nil)

// Record prepends an entry and trims the oldest past the cap
func (r *HistoryRepository) Record(ctx context.Context, userID uuid.UUID, entry history.Entry) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entries := append([]history.Entry{entry}, r.entries[userID]...)
	if len(entries) > history.MaxEntries {
		entries = entries[:history.MaxEntries]
	}
	r.entries[userID] = entries
	return nil
}

// FindByUser returns a copy of the user's entries, newest first
func (r *HistoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Entry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	entries := r.entries[userID]
	out := make([]history.Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Clear drops a user's history
func (r *HistoryRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.entries, userID)
	return nil
}

// FeedbackRepository implements in-memory feedback storage with one record
// per user and recipe
type FeedbackRepository struct {
	feedback map[uuid.UUID]map[uuid.UUID]history.Feedback
	mutex    sync.RWMutex
}

// NewFeedbackRepository creates a new in-memory feedback repository
func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{
		feedback: make(map[uuid.UUID]map[uuid.UUID]history.Feedback),
	}
}

var _ outbound.FeedbackRepository = (*FeedbackRepository)(nil)

// Upsert stores feedback, replacing any previous record for the same user
// and recipe
func (r *FeedbackRepository) Upsert(ctx context.Context, fb history.Feedback) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	byRecipe, exists := r.feedback[fb.UserID]
	if !exists {
		byRecipe = make(map[uuid.UUID]history.Feedback)
		r.feedback[fb.UserID] = byRecipe
	}
	byRecipe[fb.RecipeID] = fb
	return nil
}

// FindByUser returns all feedback a user has given
func (r *FeedbackRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Feedback, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	byRecipe := r.feedback[userID]
	out := make([]history.Feedback, 0, len(byRecipe))
	for _, fb := range byRecipe {
		out = append(out, fb)
	}
	return out, nil
}

// FindByUserAndRecipe returns a single feedback record, or nil when the user
// has not reacted to the recipe
func (r *FeedbackRepository) FindByUserAndRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*history.Feedback, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	fb, exists := r.feedback[userID][recipeID]
	if !exists {
		return nil, nil
	}
	return &fb, nil
}

// PantryRepository implements in-memory pantry storage
type PantryRepository struct {
	items map[uuid.UUID][]string
	mutex sync.RWMutex
}

// NewPantryRepository creates a new in-memory pantry repository
func NewPantryRepository() *PantryRepository {
	return &PantryRepository{
		items: make(map[uuid.UUID][]string),
	}
}

var _ outbound.PantryRepository = (*PantryRepository)(nil)

// Replace overwrites the user's pantry contents
func (r *PantryRepository) Replace(ctx context.Context, userID uuid.UUID, items []string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := make([]string, len(items))
	copy(stored, items)
	r.items[userID] = stored
	return nil
}

// FindByUser returns a copy of the user's pantry
func (r *PantryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := r.items[userID]
	out := make([]string, len(items))
	copy(out, items)
	return out, nil
}
