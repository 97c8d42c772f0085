package services

import (
	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// FilterMissedInbound keeps the inbound calls nobody answered, preserving order.
func FilterMissedInbound(calls []domain.NormalizedCall) []domain.NormalizedCall {
	out := make([]domain.NormalizedCall, 0, len(calls))
	for _, c := range calls {
		if c.IsMissedInbound() {
			out = append(out, c)
		}
	}
	return out
}

// Classifier partitions calls into one subset per configured category.
// Categories are not exclusive: a call lands in every category it matches.
type Classifier struct {
	categories []domain.Category
}

// NewClassifier creates a classifier over the given categories.
func NewClassifier(categories []domain.Category) *Classifier {
	return &Classifier{categories: categories}
}

// Categories returns the configured categories in order.
func (c *Classifier) Categories() []domain.Category {
	return c.categories
}

// Classify returns one subset per category, in configuration order.
// Subsets for categories with no matching calls are present and empty.
func (c *Classifier) Classify(calls []domain.NormalizedCall) []domain.Subset {
	subsets := make([]domain.Subset, len(c.categories))
	for i, cat := range c.categories {
		subsets[i] = domain.Subset{
			Category: cat,
			Calls:    make([]domain.NormalizedCall, 0),
		}
		for _, call := range calls {
			if cat.Matches(call) {
				subsets[i].Calls = append(subsets[i].Calls, call)
			}
		}
	}
	return subsets
}
