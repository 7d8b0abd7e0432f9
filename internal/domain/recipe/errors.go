package recipe

import "errors"

// Validation errors for candidate records coming from the external supplier.

var (
	ErrMissingID       = errors.New("recipe id is required")
	ErrMissingName     = errors.New("recipe name is required")
	ErrInvalidServings = errors.New("servings must be greater than 0")
	ErrNegativeCost    = errors.New("estimated cost cannot be negative")
	ErrNegativeTime    = errors.New("prep and cook time cannot be negative")
	ErrNoIngredients   = errors.New("recipe must have at least one ingredient")
)
