package domain

import (
	"fmt"
	"strings"
)

// RuleField names a NormalizedCall field a rule can inspect.
type RuleField string

const (
	FieldLine      RuleField = "line"
	FieldDirection RuleField = "direction"
	FieldTags      RuleField = "tags"
	FieldTo        RuleField = "to"
	FieldFrom      RuleField = "from"
)

// AllRuleFields returns all fields rules may reference.
func AllRuleFields() []RuleField {
	return []RuleField{FieldLine, FieldDirection, FieldTags, FieldTo, FieldFrom}
}

// Operator is a string comparison applied by a rule.
type Operator string

const (
	OpContains    Operator = "contains"
	OpNotContains Operator = "not_contains"
	OpEquals      Operator = "equals"
	OpPrefix      Operator = "prefix"
	OpSuffix      Operator = "suffix"
)

// AllOperators returns all supported operators.
func AllOperators() []Operator {
	return []Operator{OpContains, OpNotContains, OpEquals, OpPrefix, OpSuffix}
}

// Rule is a single declarative predicate over a NormalizedCall field.
type Rule struct {
	// Field is the call field to inspect.
	Field RuleField

	// Operator is the comparison to apply.
	Operator Operator

	// Value is the right-hand side of the comparison.
	Value string

	// IgnoreCase folds both sides to lower case before comparing.
	IgnoreCase bool
}

// Matches evaluates the rule against a call.
// An absent field only satisfies not_contains.
func (r Rule) Matches(c NormalizedCall) bool {
	got, ok := c.Field(r.Field)
	if !ok {
		return r.Operator == OpNotContains
	}

	want := r.Value
	if r.IgnoreCase {
		got = strings.ToLower(got)
		want = strings.ToLower(want)
	}

	switch r.Operator {
	case OpContains:
		return strings.Contains(got, want)
	case OpNotContains:
		return !strings.Contains(got, want)
	case OpEquals:
		return got == want
	case OpPrefix:
		return strings.HasPrefix(got, want)
	case OpSuffix:
		return strings.HasSuffix(got, want)
	default:
		return false
	}
}

// Validate checks that the rule references a known field and operator.
func (r Rule) Validate() error {
	if !knownField(r.Field) {
		return fmt.Errorf("%w: unknown rule field %q", ErrInvalidInput, r.Field)
	}
	if !knownOperator(r.Operator) {
		return fmt.Errorf("%w: unknown rule operator %q", ErrInvalidInput, r.Operator)
	}
	if r.Value == "" {
		return fmt.Errorf("%w: rule on %q has an empty value", ErrInvalidInput, r.Field)
	}
	return nil
}

func (r Rule) String() string {
	s := fmt.Sprintf("%s %s %q", r.Field, r.Operator, r.Value)
	if r.IgnoreCase {
		s += " (ignore case)"
	}
	return s
}

// Category maps a dashboard tab to the rules selecting its rows.
// A call belongs to the category when every rule matches; no rules matches all calls.
type Category struct {
	// Sheet is the tab name inside the dashboard spreadsheet.
	Sheet string

	// Description is shown by the categories command.
	Description string

	// Rules are ANDed together.
	Rules []Rule
}

// Matches reports whether the call belongs to the category.
func (c Category) Matches(call NormalizedCall) bool {
	for _, r := range c.Rules {
		if !r.Matches(call) {
			return false
		}
	}
	return true
}

// Validate checks the sheet name and every rule.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Sheet) == "" {
		return fmt.Errorf("%w: category sheet name is empty", ErrInvalidInput)
	}
	for i, r := range c.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("category %q rule %d: %w", c.Sheet, i, err)
		}
	}
	return nil
}

// ValidateCategories validates each category and rejects duplicate sheet names.
func ValidateCategories(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("%w: no categories configured", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if seen[c.Sheet] {
			return fmt.Errorf("%w: duplicate category sheet %q", ErrInvalidInput, c.Sheet)
		}
		seen[c.Sheet] = true
	}
	return nil
}

// DefaultCategories mirrors the dashboard's original two tabs.
func DefaultCategories() []Category {
	return []Category{
		{
			Sheet:       "missed_all",
			Description: "All missed inbound calls",
		},
		{
			Sheet:       "missed_sales",
			Description: "Missed inbound calls on sales lines",
			Rules: []Rule{
				{Field: FieldLine, Operator: OpContains, Value: "Sales"},
			},
		},
	}
}

func knownField(f RuleField) bool {
	for _, known := range AllRuleFields() {
		if f == known {
			return true
		}
	}
	return false
}

func knownOperator(op Operator) bool {
	for _, known := range AllOperators() {
		if op == known {
			return true
		}
	}
	return false
}
