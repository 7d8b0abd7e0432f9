package history

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLastUse(t *testing.T) {
	target := uuid.New()
	other := uuid.New()
	now := time.Now()

	entries := []Entry{
		{RecipeID: other, UsedAt: now},
		{RecipeID: target, UsedAt: now.Add(-72 * time.Hour)},
		{RecipeID: target, UsedAt: now.Add(-24 * time.Hour)},
		{RecipeID: target, UsedAt: now.Add(-240 * time.Hour)},
	}

	last, count := LastUse(entries, target)
	assert.Equal(t, 3, count)
	assert.Equal(t, now.Add(-24*time.Hour), last)

	last, count = LastUse(entries, uuid.New())
	assert.Zero(t, count)
	assert.True(t, last.IsZero())
}

func TestFeedbackIsNegative(t *testing.T) {
	assert.True(t, Feedback{IsDisliked: true}.IsNegative())
	assert.True(t, Feedback{Rating: 1}.IsNegative())
	assert.True(t, Feedback{Rating: 2}.IsNegative())
	assert.False(t, Feedback{Rating: 3}.IsNegative())
	assert.False(t, Feedback{IsLiked: true, Rating: 5}.IsNegative())
	assert.False(t, Feedback{}.IsNegative())
}
