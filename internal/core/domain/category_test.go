package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRule_Matches(t *testing.T) {
	call := NormalizedCall{Line: "Sales Line", Direction: DirectionInbound, To: "33123456"}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"contains", Rule{Field: FieldLine, Operator: OpContains, Value: "Sales"}, true},
		{"contains miss", Rule{Field: FieldLine, Operator: OpContains, Value: "CS"}, false},
		{"contains is case sensitive", Rule{Field: FieldLine, Operator: OpContains, Value: "sales"}, false},
		{"contains ignore case", Rule{Field: FieldLine, Operator: OpContains, Value: "sales", IgnoreCase: true}, true},
		{"not contains", Rule{Field: FieldLine, Operator: OpNotContains, Value: "Support"}, true},
		{"equals", Rule{Field: FieldDirection, Operator: OpEquals, Value: "inbound"}, true},
		{"equals miss", Rule{Field: FieldDirection, Operator: OpEquals, Value: "outbound"}, false},
		{"prefix", Rule{Field: FieldTo, Operator: OpPrefix, Value: "33"}, true},
		{"suffix", Rule{Field: FieldLine, Operator: OpSuffix, Value: "Line"}, true},
		{"absent tags contains", Rule{Field: FieldTags, Operator: OpContains, Value: "VIP"}, false},
		{"absent tags not contains", Rule{Field: FieldTags, Operator: OpNotContains, Value: "VIP"}, true},
		{"unknown operator", Rule{Field: FieldLine, Operator: Operator("regex"), Value: ".*"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Matches(call))
		})
	}
}

func TestRule_Validate(t *testing.T) {
	t.Run("valid rule", func(t *testing.T) {
		r := Rule{Field: FieldLine, Operator: OpContains, Value: "Sales"}
		assert.NoError(t, r.Validate())
	})

	t.Run("unknown field", func(t *testing.T) {
		r := Rule{Field: "duration", Operator: OpContains, Value: "1"}
		err := r.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Contains(t, err.Error(), "duration")
	})

	t.Run("unknown operator", func(t *testing.T) {
		r := Rule{Field: FieldLine, Operator: "matches", Value: "x"}
		assert.ErrorIs(t, r.Validate(), ErrInvalidInput)
	})

	t.Run("empty value", func(t *testing.T) {
		r := Rule{Field: FieldLine, Operator: OpEquals}
		assert.ErrorIs(t, r.Validate(), ErrInvalidInput)
	})
}

func TestRule_String(t *testing.T) {
	r := Rule{Field: FieldLine, Operator: OpContains, Value: "Sales"}
	assert.Equal(t, `line contains "Sales"`, r.String())

	r.IgnoreCase = true
	assert.Equal(t, `line contains "Sales" (ignore case)`, r.String())
}

func TestCategory_Matches(t *testing.T) {
	salesInbound := Category{
		Sheet: "sales_inbound",
		Rules: []Rule{
			{Field: FieldLine, Operator: OpContains, Value: "Sales"},
			{Field: FieldDirection, Operator: OpEquals, Value: DirectionInbound},
		},
	}

	t.Run("all rules must match", func(t *testing.T) {
		assert.True(t, salesInbound.Matches(NormalizedCall{Line: "Sales", Direction: DirectionInbound}))
		assert.False(t, salesInbound.Matches(NormalizedCall{Line: "Sales", Direction: DirectionOutbound}))
		assert.False(t, salesInbound.Matches(NormalizedCall{Line: "Support", Direction: DirectionInbound}))
	})

	t.Run("no rules matches everything", func(t *testing.T) {
		all := Category{Sheet: "missed_all"}
		assert.True(t, all.Matches(NormalizedCall{}))
	})
}

func TestValidateCategories(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, ValidateCategories(DefaultCategories()))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.ErrorIs(t, ValidateCategories(nil), ErrInvalidInput)
	})

	t.Run("blank sheet name", func(t *testing.T) {
		err := ValidateCategories([]Category{{Sheet: "  "}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("duplicate sheet", func(t *testing.T) {
		err := ValidateCategories([]Category{{Sheet: "a"}, {Sheet: "a"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("bad rule names category", func(t *testing.T) {
		err := ValidateCategories([]Category{{
			Sheet: "missed_cs",
			Rules: []Rule{{Field: FieldLine, Operator: "like", Value: "CS"}},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missed_cs")
	})
}

func TestDefaultCategories(t *testing.T) {
	cats := DefaultCategories()

	require.Len(t, cats, 2)
	assert.Equal(t, "missed_all", cats[0].Sheet)
	assert.Empty(t, cats[0].Rules)
	assert.Equal(t, "missed_sales", cats[1].Sheet)
	assert.True(t, cats[1].Matches(NormalizedCall{Line: "Sales Line"}))
	assert.False(t, cats[1].Matches(NormalizedCall{Line: "Support Line"}))
}
