package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insight-engine/internal/domain"
)

func TestCategorize_SubstringMatch(t *testing.T) {
	c := New()

	category, confidence := c.Categorize("Grocery Store")

	assert.Equal(t, domain.CategoryGroceries, category)
	assert.Equal(t, 0.8, confidence)
}

func TestCategorize_ExactMatch(t *testing.T) {
	c := New()

	category, confidence := c.Categorize("Netflix")

	assert.Equal(t, domain.CategoryEntertainment, category)
	assert.Equal(t, 1.0, confidence)
}

func TestCategorize_Fallback(t *testing.T) {
	c := New()

	category, confidence := c.Categorize("Salary Payment")

	assert.Equal(t, domain.CategoryOther, category)
	assert.Equal(t, 0.1, confidence)
}

func TestCategorize_FirstMatchWins(t *testing.T) {
	rules := []Rule{
		{Category: domain.CategoryGroceries, Keywords: []string{"market"}},
		{Category: domain.CategoryShopping, Keywords: []string{"market"}},
	}
	c := NewWithRules(rules, nil)

	category, _ := c.Categorize("Farmers Market")

	assert.Equal(t, domain.CategoryGroceries, category)
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	c := New()

	category, confidence := c.Categorize("  STARBUCKS #1234  ")

	assert.Equal(t, domain.CategoryDining, category)
	assert.Equal(t, 0.8, confidence)
}

func TestIsIncome(t *testing.T) {
	c := New()

	assert.True(t, c.IsIncome("Salary Payment"))
	assert.True(t, c.IsIncome("ACME CORP PAYROLL"))
	assert.True(t, c.IsIncome("Direct Deposit 1234"))
	assert.False(t, c.IsIncome("Grocery Store"))
	assert.False(t, c.IsIncome("Netflix"))
}
