// Package categorizer assigns spending categories to transaction
// descriptions using deterministic keyword matching. No scoring across
// categories: the table is scanned in order and the first hit wins.
package categorizer

import (
	"strings"

	"insight-engine/internal/domain"
)

// Rule maps one category to its lower-cased keyword set
type Rule struct {
	Category domain.Category
	Keywords []string
}

// Categorizer is stateless beyond its constant tables and safe for
// concurrent use
type Categorizer struct {
	rules          []Rule
	incomeKeywords []string
}

// New returns a categorizer with the default rule table
func New() *Categorizer {
	return &Categorizer{
		rules:          defaultRules(),
		incomeKeywords: defaultIncomeKeywords(),
	}
}

// NewWithRules returns a categorizer with a custom table. Rules are matched
// in slice order.
func NewWithRules(rules []Rule, incomeKeywords []string) *Categorizer {
	return &Categorizer{
		rules:          rules,
		incomeKeywords: incomeKeywords,
	}
}

// Categorize returns the first matching category and a confidence score.
// Confidence is 1.0 when the whole description equals the matched keyword,
// 0.8 for a substring match, and 0.1 for the OTHER fallback.
func (c *Categorizer) Categorize(description string) (domain.Category, float64) {
	normalized := strings.ToLower(strings.TrimSpace(description))

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if !strings.Contains(normalized, keyword) {
				continue
			}
			if normalized == keyword {
				return rule.Category, 1.0
			}
			return rule.Category, 0.8
		}
	}

	return domain.CategoryOther, 0.1
}

// IsIncome reports whether the description looks like an income credit.
// Evaluated independently of the category table.
func (c *Categorizer) IsIncome(description string) bool {
	normalized := strings.ToLower(description)
	for _, keyword := range c.incomeKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

func defaultRules() []Rule {
	return []Rule{
		{
			Category: domain.CategoryGroceries,
			Keywords: []string{
				"grocery", "supermarket", "aldi", "lidl", "tesco",
				"sainsbury", "kroger", "walmart", "whole foods", "costco",
			},
		},
		{
			Category: domain.CategoryUtilities,
			Keywords: []string{
				"electricity", "electric bill", "water bill", "gas bill",
				"broadband", "internet", "utility", "phone bill", "council tax",
			},
		},
		{
			Category: domain.CategoryEntertainment,
			Keywords: []string{
				"netflix", "spotify", "cinema", "hulu", "disney",
				"theatre", "steam", "playstation", "xbox",
			},
		},
		{
			Category: domain.CategoryTransport,
			Keywords: []string{
				"uber", "lyft", "taxi", "fuel", "petrol", "gas station",
				"train", "bus fare", "parking", "toll", "transit",
			},
		},
		{
			Category: domain.CategoryDining,
			Keywords: []string{
				"restaurant", "cafe", "coffee", "pizza", "mcdonald",
				"starbucks", "burger", "takeaway", "deliveroo", "doordash",
			},
		},
		{
			Category: domain.CategoryShopping,
			Keywords: []string{
				"amazon", "ebay", "asos", "retail", "department store",
				"mall", "target", "clothing", "ikea",
			},
		},
		{
			Category: domain.CategoryFees,
			Keywords: []string{
				"fee", "overdraft", "charge", "penalty", "nsf",
				"interest charged",
			},
		},
	}
}

func defaultIncomeKeywords() []string {
	return []string{
		"salary", "payroll", "wages", "direct deposit", "dividend",
		"interest earned", "pension", "bonus", "refund", "income",
	}
}
