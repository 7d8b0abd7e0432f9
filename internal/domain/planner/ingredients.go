package planner

import (
	"strings"
	"unicode"
)

// IngredientMatcher performs deterministic, case-insensitive ingredient name
// matching. It keeps no hidden state: repeated calls with the same input
// always produce the same result.
type IngredientMatcher struct {
	stopWords map[string]struct{}
}

// NewIngredientMatcher builds a matcher with the given stop-word list.
func NewIngredientMatcher(stopWords []string) *IngredientMatcher {
	m := &IngredientMatcher{stopWords: make(map[string]struct{}, len(stopWords))}
	for _, w := range stopWords {
		m.stopWords[strings.ToLower(w)] = struct{}{}
	}
	return m
}

// Tokens lowercases the input, strips everything but letters and digits, and
// drops stop-words such as units and preparation verbs.
func (m *IngredientMatcher) Tokens(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, skip := m.stopWords[f]; skip {
			continue
		}
		if isNumeric(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// isNumeric reports whether the token is a bare quantity like "2" or "250".
func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// Normalize reduces an ingredient name to its token form joined by single
// spaces, so "Fresh CHOPPED Tomatoes" and "tomatoes" normalize comparably.
func (m *IngredientMatcher) Normalize(s string) string {
	return strings.Join(m.Tokens(s), " ")
}

// Matches reports whether two ingredient names refer to the same item:
// equal normalized forms, or one normalized form containing the other.
func (m *IngredientMatcher) Matches(a, b string) bool {
	na, nb := m.Normalize(a), m.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// FindMatching returns the subset of recipe ingredients that match any
// entry of the target list. Order and duplicates of the recipe list are
// preserved; the inputs are never mutated.
func (m *IngredientMatcher) FindMatching(recipeIngredients, targets []string) []string {
	var matched []string
	for _, ing := range recipeIngredients {
		for _, target := range targets {
			if m.Matches(ing, target) {
				matched = append(matched, ing)
				break
			}
		}
	}
	return matched
}

// Similarity returns a soft [0,1] similarity between two ingredient names:
// the Jaccard overlap of their token sets, with a 0.8 floor when one
// normalized name contains the other.
func (m *IngredientMatcher) Similarity(a, b string) float64 {
	ta, tb := m.Tokens(a), m.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	union := len(set)
	inter := 0
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			inter++
		} else {
			union++
		}
	}

	sim := float64(inter) / float64(union)
	if sim < 0.8 {
		na, nb := strings.Join(ta, " "), strings.Join(tb, " ")
		if strings.Contains(na, nb) || strings.Contains(nb, na) {
			return 0.8
		}
	}
	return sim
}

// BestSimilarity returns the highest similarity between the target and any
// of the given ingredient names.
func (m *IngredientMatcher) BestSimilarity(target string, ingredients []string) float64 {
	best := 0.0
	for _, ing := range ingredients {
		if s := m.Similarity(target, ing); s > best {
			best = s
		}
	}
	return best
}
