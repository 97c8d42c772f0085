package domain

import "time"

// Call directions reported by the provider.
const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// NormalizedCall is the tabular form of a call published to the dashboard.
// Missed is true iff AnsweredTime is nil.
type NormalizedCall struct {
	ID           int64
	StartTime    time.Time
	AnsweredTime *time.Time
	Missed       bool
	To           string
	From         string
	Line         string
	Duration     int64
	Tags         *string
	Direction    string
}

// IsMissedInbound reports whether the call is an inbound call nobody answered.
func (c NormalizedCall) IsMissedInbound() bool {
	return c.Missed && c.Direction == DirectionInbound
}

// Field returns the value of a named field for rule evaluation.
// The second return is false when the field is absent (nil tags).
func (c NormalizedCall) Field(f RuleField) (string, bool) {
	switch f {
	case FieldLine:
		return c.Line, true
	case FieldDirection:
		return c.Direction, true
	case FieldTags:
		if c.Tags == nil {
			return "", false
		}
		return *c.Tags, true
	case FieldTo:
		return c.To, true
	case FieldFrom:
		return c.From, true
	default:
		return "", false
	}
}

// Subset is the slice of calls destined for one dashboard tab.
type Subset struct {
	Category Category
	Calls    []NormalizedCall
}
