package config

import (
	"github.com/mealsmith/v1/internal/domain/planner"
)

// ToPlannerConfig merges the engine section over the engine's built-in
// defaults. Unset (zero) tunables keep their defaults so a partial config
// file stays valid.
func (e EngineConfig) ToPlannerConfig() planner.Config {
	cfg := planner.DefaultConfig()

	sum := e.Weights.Food + e.Weights.Cooking + e.Weights.Budget +
		e.Weights.Variety + e.Weights.Overlap + e.Weights.Cuisine +
		e.Weights.Pantry + e.Weights.Feedback
	if sum > 0 {
		cfg.Weights = planner.Weights{
			Food:     e.Weights.Food,
			Cooking:  e.Weights.Cooking,
			Budget:   e.Weights.Budget,
			Variety:  e.Weights.Variety,
			Overlap:  e.Weights.Overlap,
			Cuisine:  e.Weights.Cuisine,
			Pantry:   e.Weights.Pantry,
			Feedback: e.Weights.Feedback,
		}
	}

	if e.TimePenaltyCurve != "" {
		cfg.TimePenaltyCurve = planner.TimePenaltyCurve(e.TimePenaltyCurve)
	}
	if e.ExplorationChance > 0 {
		cfg.ExplorationChance = e.ExplorationChance
	}
	if e.NoveltyBonus > 0 {
		cfg.NoveltyBonus = e.NoveltyBonus
	}
	if e.UnseenCuisineBonus > 0 {
		cfg.UnseenCuisineBonus = e.UnseenCuisineBonus
	}
	if e.RepetitionPenalty > 0 {
		cfg.RepetitionPenalty = e.RepetitionPenalty
	}
	if e.FeedbackCooldown > 0 {
		cfg.FeedbackCooldown = e.FeedbackCooldown
	}
	if e.MaxRefineIterations > 0 {
		cfg.MaxRefineIterations = e.MaxRefineIterations
	}
	return cfg
}
