// Package memory provides in-memory repository implementations
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"github.com/mealsmith/v1/internal/ports/outbound"
	"github.com/mealsmith/v1/pkg/errors"
)

// RecipeCatalog implements an in-memory candidate source
type RecipeCatalog struct {
	recipes map[uuid.UUID]recipe.Recipe
	mutex   sync.RWMutex
}

// NewRecipeCatalog creates a new in-memory recipe catalog, optionally
// preloaded with a seed set
func NewRecipeCatalog(seed ...recipe.Recipe) *RecipeCatalog {
	c := &RecipeCatalog{
		recipes: make(map[uuid.UUID]recipe.Recipe, len(seed)),
	}
	for _, r := range seed {
		c.recipes[r.ID] = r
	}
	return c
}

var _ outbound.CandidateSource = (*RecipeCatalog)(nil)

// FindAll returns every recipe in the catalog, ordered by ID for
// deterministic planning input
func (c *RecipeCatalog) FindAll(ctx context.Context) ([]recipe.Recipe, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]recipe.Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// FindByID returns a single recipe
func (c *RecipeCatalog) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	r, exists := c.recipes[id]
	if !exists {
		return nil, errors.NewRecipeNotFoundError(id.String())
	}
	return &r, nil
}

// FindByIDs returns the recipes for the given IDs. Unknown IDs are an error
// so a stale plan cannot silently shrink
func (c *RecipeCatalog) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]recipe.Recipe, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	out := make([]recipe.Recipe, 0, len(ids))
	for _, id := range ids {
		r, exists := c.recipes[id]
		if !exists {
			return nil, errors.NewRecipeNotFoundError(id.String())
		}
		out = append(out, r)
	}
	return out, nil
}

// Save validates and stores a recipe, replacing any existing version
func (c *RecipeCatalog) Save(ctx context.Context, r recipe.Recipe) error {
	if err := r.Validate(); err != nil {
		return errors.NewValidationError(err.Error())
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.recipes[r.ID] = r
	return nil
}

// Delete removes a recipe from the catalog
func (c *RecipeCatalog) Delete(ctx context.Context, id uuid.UUID) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.recipes[id]; !exists {
		return errors.NewRecipeNotFoundError(id.String())
	}
	delete(c.recipes, id)
	return nil
}
