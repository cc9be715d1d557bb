package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("food"))
	assert.True(t, ValidCategory("travel"))
	assert.True(t, ValidCategory(DefaultCategory))
	assert.False(t, ValidCategory("not-a-category"))
	assert.False(t, ValidCategory(""))
}

func TestSearchCategories(t *testing.T) {
	got := SearchCategories("food")
	assert.NotEmpty(t, got)
	for _, c := range got {
		assert.NotEmpty(t, c.Value)
	}

	// empty query returns the full registry
	assert.Len(t, SearchCategories(""), len(PredefinedCategories))

	assert.Empty(t, SearchCategories("zzzzzz"))
}

func TestCategoryIconAndLabel(t *testing.T) {
	assert.Equal(t, "🍽️", CategoryIcon("food"))
	assert.Equal(t, "Food", CategoryLabel("food"))

	// unknown values fall back to the pin icon and the raw value
	assert.Equal(t, "📌", CategoryIcon("nope"))
	assert.Equal(t, "nope", CategoryLabel("nope"))
}

func TestPredefinedCategoriesUnique(t *testing.T) {
	seen := make(map[string]bool, len(PredefinedCategories))
	for _, c := range PredefinedCategories {
		assert.False(t, seen[c.Value], "duplicate category value %q", c.Value)
		seen[c.Value] = true
	}
}
