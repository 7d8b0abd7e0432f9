package planner

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mealsmith/v1/internal/domain/history"
	"github.com/mealsmith/v1/internal/domain/preferences"
	"github.com/mealsmith/v1/internal/domain/recipe"
	"go.uber.org/zap"
)

// Rand is the injected randomness source for the exploration bonus. A seeded
// *math/rand.Rand satisfies it, which keeps the stochastic branch
// reproducible in tests.
type Rand interface {
	Float64() float64
}

// LockedRand is a seeded Rand that is safe for concurrent use. A bare
// *math/rand.Rand is not; hosts that score requests concurrently must
// inject this (or another locked source) instead.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedRand seeds a concurrency-safe randomness source.
func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// Scorer computes all sub-scores and the composite score. Every sub-score is
// a total function returning [0,100] (the feedback bias may be negative,
// clamped to [-100,100]); internal problems degrade to a neutral score and a
// log line, never a panic or error.
type Scorer struct {
	cfg     Config
	matcher *IngredientMatcher
	rng     Rand
	logger  *zap.Logger
}

// NewScorer creates a scorer from an explicit configuration.
func NewScorer(cfg Config, rng Rand, logger *zap.Logger) *Scorer {
	return &Scorer{
		cfg:     cfg,
		matcher: NewIngredientMatcher(cfg.StopWords),
		rng:     rng,
		logger:  logger.Named("scorer"),
	}
}

// Matcher exposes the scorer's ingredient matcher.
func (s *Scorer) Matcher() *IngredientMatcher { return s.matcher }

// Context is the precomputed read-only scoring context for one planning
// request. Selected holds the plan recipes chosen so far and is the only
// field callers update between scoring calls.
type Context struct {
	Preferences preferences.Bundle
	Selected    []recipe.Recipe
	History     []history.Entry
	Feedback    []history.Feedback
	Pantry      []string
	Now         time.Time

	feedbackByRecipe  map[uuid.UUID]history.Feedback
	likedCuisines     map[string]int
	seenCuisines      map[string]struct{}
	recentIngredients []string
}

// NewContext precomputes the lookups shared by all scoring calls of one
// request: per-recipe feedback, cuisines liked with high ratings, cuisines
// already seen in history, and the ingredient union of the last ten uses.
func (s *Scorer) NewContext(
	pool []recipe.Recipe,
	prefs preferences.Bundle,
	hist []history.Entry,
	feedback []history.Feedback,
	pantry []string,
	now time.Time,
) *Context {
	byID := make(map[uuid.UUID]recipe.Recipe, len(pool))
	for _, r := range pool {
		byID[r.ID] = r
	}

	ctx := &Context{
		Preferences:      prefs,
		History:          hist,
		Feedback:         feedback,
		Pantry:           pantry,
		Now:              now,
		feedbackByRecipe: make(map[uuid.UUID]history.Feedback, len(feedback)),
		likedCuisines:    make(map[string]int),
		seenCuisines:     make(map[string]struct{}),
	}

	for _, fb := range feedback {
		ctx.feedbackByRecipe[fb.RecipeID] = fb
		if fb.IsLiked && fb.Rating >= 4 {
			if r, ok := byID[fb.RecipeID]; ok {
				for _, c := range r.Cuisines {
					ctx.likedCuisines[strings.ToLower(c)]++
				}
			}
		}
	}

	recent := hist
	if len(recent) > 10 {
		recent = recent[:10]
	}
	for _, e := range hist {
		if r, ok := byID[e.RecipeID]; ok {
			for _, c := range r.Cuisines {
				ctx.seenCuisines[strings.ToLower(c)] = struct{}{}
			}
		}
	}
	for _, e := range recent {
		if r, ok := byID[e.RecipeID]; ok {
			ctx.recentIngredients = append(ctx.recentIngredients, r.IngredientNames()...)
		}
	}

	return ctx
}

// DietaryAllowed is the hard filter. A recipe is rejected when it fails any
// enabled dietary flag without carrying the matching tag, or when any
// ingredient matches an allergy or free-text restriction. Allergy, vegan and
// vegetarian checks always apply; the secondary flags are skipped only when
// relaxSecondary is set (the terminal relaxation level).
func (s *Scorer) DietaryAllowed(r recipe.Recipe, d preferences.Dietary, relaxSecondary bool) bool {
	if d.Vegan && !r.HasTag("vegan") {
		return false
	}
	if d.Vegetarian && !r.HasTag("vegetarian") && !r.HasTag("vegan") {
		return false
	}
	if !relaxSecondary {
		if d.GlutenFree && !r.HasTag("gluten-free") {
			return false
		}
		if d.DairyFree && !r.HasTag("dairy-free") && !r.HasTag("vegan") {
			return false
		}
		if d.NutFree && !r.HasTag("nut-free") {
			return false
		}
		if d.LowCarb && !r.HasTag("low-carb") {
			return false
		}
	}

	names := r.IngredientNames()
	for _, avoid := range d.Allergies {
		if len(s.matcher.FindMatching(names, []string{avoid})) > 0 {
			return false
		}
	}
	for _, avoid := range d.Restrictions {
		if len(s.matcher.FindMatching(names, []string{avoid})) > 0 {
			return false
		}
	}
	return true
}

// FoodPreferenceScore rewards favorite ingredients, adds a soft-similarity
// bonus for near-matches, and penalizes disliked ingredients.
func (s *Scorer) FoodPreferenceScore(r recipe.Recipe, food preferences.Food) float64 {
	total := len(r.Ingredients)
	if total == 0 {
		return 50
	}
	names := r.IngredientNames()

	favorites := len(s.matcher.FindMatching(names, food.FavoriteIngredients))
	disliked := len(s.matcher.FindMatching(names, food.DislikedIngredients))

	bonus := 0.0
	for _, fav := range food.FavoriteIngredients {
		if len(s.matcher.FindMatching(names, []string{fav})) > 0 {
			continue
		}
		if sim := s.matcher.BestSimilarity(fav, names); sim >= 0.6 {
			bonus += sim * 10
		}
	}

	score := 100*float64(favorites)/float64(total) + bonus - 100*float64(disliked)/float64(total)
	return clamp(score, 0, 100)
}

// CookingHabitScore blends time fit (40%), complexity fit (40%) and
// meal-type match (20%).
func (s *Scorer) CookingHabitScore(r recipe.Recipe, cooking preferences.Cooking) float64 {
	timeFit := s.timeFitScore(r.TotalTime(), cooking.PreferredDuration)
	complexityFit := s.complexityFitScore(s.ComplexityScore(r), cooking.Skill)
	mealFit := s.mealTypeFitScore(r, cooking.AcceptedMealTypes)
	return clamp(0.4*timeFit+0.4*complexityFit+0.2*mealFit, 0, 100)
}

var durationTargets = map[preferences.DurationBucket]float64{
	preferences.DurationQuick:    15,
	preferences.DurationStandard: 35,
	preferences.DurationExtended: 60,
}

func (s *Scorer) timeFitScore(total time.Duration, bucket preferences.DurationBucket) float64 {
	target, ok := durationTargets[bucket]
	if !ok {
		return 100 // unlimited
	}
	diff := math.Abs(total.Minutes() - target)

	switch s.cfg.TimePenaltyCurve {
	case CurveExponential:
		return clamp(100*math.Exp(-diff/20), 0, 100)
	case CurveStepped:
		switch {
		case diff <= 10:
			return 100
		case diff <= 25:
			return 70
		case diff <= 45:
			return 40
		default:
			return 10
		}
	default:
		return clamp(100-2*diff, 0, 100)
	}
}

// ComplexityScore estimates recipe difficulty on a 0-100 scale from step
// count, ingredient count and keyword hits for special equipment or advanced
// techniques.
func (s *Scorer) ComplexityScore(r recipe.Recipe) float64 {
	score := float64(len(r.Instructions))*5 + float64(len(r.Ingredients))*3

	text := strings.ToLower(r.Name + " " + r.Description + " " + strings.Join(r.Instructions, " "))
	for _, kw := range s.cfg.EquipmentKeywords {
		if strings.Contains(text, kw) {
			score += 10
		}
	}
	for _, kw := range s.cfg.TechniqueKeywords {
		if strings.Contains(text, kw) {
			score += 15
		}
	}
	return clamp(score, 0, 100)
}

func (s *Scorer) complexityFitScore(complexity float64, skill preferences.SkillLevel) float64 {
	switch skill {
	case preferences.SkillBeginner:
		if complexity <= 30 {
			return 100
		}
		return clamp(100-(complexity-30)*2, 0, 100)
	case preferences.SkillAdvanced:
		if complexity >= 50 {
			return 100
		}
		return clamp(100-(50-complexity)*2, 0, 100)
	default:
		return clamp(100-math.Abs(complexity-50)*2, 0, 100)
	}
}

func (s *Scorer) mealTypeFitScore(r recipe.Recipe, accepted []recipe.MealType) float64 {
	for _, mt := range accepted {
		if r.HasTag(string(mt)) {
			return 100
		}
	}
	// Partial credit via the synonym map.
	for _, mt := range accepted {
		for _, syn := range s.cfg.MealTypeSynonyms[mt] {
			if r.HasTag(syn) {
				return 60
			}
		}
	}
	return 0
}

// BudgetScore is 100 when the recipe fits the per-meal ceiling and decays
// exponentially beyond it: 100 * e^(1 - cost/maxPerMeal).
func (s *Scorer) BudgetScore(r recipe.Recipe, maxPerMeal float64) float64 {
	if maxPerMeal <= 0 || r.EstimatedCost <= maxPerMeal {
		return 100
	}
	return clamp(100*math.Exp(1-r.EstimatedCost/maxPerMeal), 0, 100)
}

// VarietyScore penalizes recently and frequently used recipes:
// 100 - max(0, 30-daysSinceLastUse) - 10*occurrences.
func (s *Scorer) VarietyScore(r recipe.Recipe, hist []history.Entry, now time.Time) float64 {
	last, count := history.LastUse(hist, r.ID)
	if count == 0 {
		return 100
	}
	days := now.Sub(last).Hours() / 24
	recencyPenalty := math.Max(0, 30-days)
	frequencyPenalty := 10 * float64(count)
	return clamp(100-recencyPenalty-frequencyPenalty, 0, 100)
}

// OverlapScore rewards shopping-list efficiency: the fraction of the
// candidate's ingredients already present in the selected plan recipes.
// With an empty plan there is nothing to overlap with, so it stays neutral.
func (s *Scorer) OverlapScore(r recipe.Recipe, selected []recipe.Recipe) float64 {
	if len(selected) == 0 {
		return 50
	}
	if len(r.Ingredients) == 0 {
		return 0
	}
	var union []string
	for _, sel := range selected {
		union = append(union, sel.IngredientNames()...)
	}
	matched := len(s.matcher.FindMatching(r.IngredientNames(), union))
	return clamp(100*float64(matched)/float64(len(r.Ingredients)), 0, 100)
}

// CuisineScore starts from a neutral 50, adds 30 for an explicitly preferred
// cuisine and 20 for a cuisine the user has repeatedly liked.
func (s *Scorer) CuisineScore(r recipe.Recipe, ctx *Context) float64 {
	score := 50.0
	if cuisineMatchesAny(r.Cuisines, ctx.Preferences.Food.PreferredCuisines) {
		score += 30
	}
	for _, c := range r.Cuisines {
		if ctx.likedCuisines[strings.ToLower(c)] >= 2 {
			score += 20
			break
		}
	}
	return clamp(score, 0, 100)
}

func cuisineMatchesAny(cuisines, preferred []string) bool {
	for _, c := range cuisines {
		for _, p := range preferred {
			if strings.EqualFold(c, p) {
				return true
			}
		}
	}
	return false
}

// PantryScore measures how much of the recipe the user can already cook from
// the pantry, with a diminishing-returns curve so pantry overlap cannot
// dominate the composite: (ratio)^0.8 * 100.
func (s *Scorer) PantryScore(r recipe.Recipe, pantry []string) float64 {
	if len(r.Ingredients) == 0 || len(pantry) == 0 {
		return 0
	}
	matched := 0
	for _, ing := range r.IngredientNames() {
		if len(s.matcher.FindMatching([]string{ing}, pantry)) > 0 {
			matched++
			continue
		}
		if s.matcher.BestSimilarity(ing, pantry) >= 0.8 {
			matched++
		}
	}
	ratio := float64(matched) / float64(len(r.Ingredients))
	return clamp(math.Pow(ratio, 0.8)*100, 0, 100)
}

// FeedbackScore biases toward liked recipes and away from disliked or
// low-rated ones, with an extra decaying penalty inside the cooldown window
// after negative feedback. Range [-100,100].
func (s *Scorer) FeedbackScore(r recipe.Recipe, ctx *Context) float64 {
	fb, ok := ctx.feedbackByRecipe[r.ID]
	if !ok {
		return 0
	}
	score := 0.0
	if fb.IsLiked {
		score += 20
	}
	if fb.IsDisliked {
		score -= 30
	}
	if fb.Rating > 0 && fb.Rating < 3 {
		score -= 20
	}
	if fb.IsNegative() {
		since := ctx.Now.Sub(fb.GivenAt)
		if since >= 0 && since < s.cfg.FeedbackCooldown {
			remaining := 1 - since.Seconds()/s.cfg.FeedbackCooldown.Seconds()
			score -= 20 * remaining
		}
	}
	return clamp(score, -100, 100)
}

// ExplorationBonus is the intentionally stochastic novelty reward: with
// ExplorationChance probability it grants NoveltyBonus for recipes sharing
// little with the last ten used recipes, or UnseenCuisineBonus for a cuisine
// history has never seen, whichever is larger.
func (s *Scorer) ExplorationBonus(r recipe.Recipe, ctx *Context) float64 {
	if s.cfg.ExplorationChance <= 0 || s.rng.Float64() >= s.cfg.ExplorationChance {
		return 0
	}

	bonus := 0.0
	if s.isNovel(r, ctx) {
		bonus = s.cfg.NoveltyBonus
	}
	for _, c := range r.Cuisines {
		if _, seen := ctx.seenCuisines[strings.ToLower(c)]; !seen {
			bonus = math.Max(bonus, s.cfg.UnseenCuisineBonus)
			break
		}
	}
	return bonus
}

func (s *Scorer) isNovel(r recipe.Recipe, ctx *Context) bool {
	if len(ctx.recentIngredients) == 0 {
		return true
	}
	if len(r.Ingredients) == 0 {
		return false
	}
	shared := len(s.matcher.FindMatching(r.IngredientNames(), ctx.recentIngredients))
	return float64(shared)/float64(len(r.Ingredients)) < 0.2
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
