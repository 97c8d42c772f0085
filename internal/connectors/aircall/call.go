package aircall

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
)

// Call is a call object as returned by GET /calls.
// Only the fields the dashboard consumes are decoded.
type Call struct {
	ID         *int64          `json:"id"`
	Direction  *string         `json:"direction"`
	Status     string          `json:"status,omitempty"`
	StartedAt  *int64          `json:"started_at"`
	AnsweredAt json.RawMessage `json:"answered_at"`
	EndedAt    *int64          `json:"ended_at,omitempty"`
	Duration   *int64          `json:"duration"`
	RawDigits  *string         `json:"raw_digits"`
	Number     *Number         `json:"number"`
	Tags       []Tag           `json:"tags"`
}

// Number is the Aircall line a call reached.
type Number struct {
	ID     int64   `json:"id,omitempty"`
	Digits *string `json:"digits"`
	Name   *string `json:"name"`
}

// Tag is a label attached to a call.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Meta is the pagination block of a list response.
type Meta struct {
	Count        int    `json:"count"`
	Total        int    `json:"total"`
	CurrentPage  int    `json:"current_page"`
	PerPage      int    `json:"per_page"`
	NextPageLink string `json:"next_page_link"`
	PrevPageLink string `json:"previous_page_link"`
}

// CallsPage is one page of GET /calls.
type CallsPage struct {
	Calls []Call `json:"calls"`
	Meta  Meta   `json:"meta"`
}

// HasNext reports whether another page follows.
func (p *CallsPage) HasNext() bool {
	return p.Meta.NextPageLink != ""
}

// ToRaw converts the API object into the domain's raw record.
// An answered_at that is null, missing or not a number becomes nil.
func (c Call) ToRaw() domain.RawCall {
	raw := domain.RawCall{
		ID:         c.ID,
		Direction:  c.Direction,
		StartedAt:  c.StartedAt,
		AnsweredAt: parseEpoch(c.AnsweredAt),
		RawDigits:  c.RawDigits,
		Duration:   c.Duration,
	}
	if c.Number != nil {
		raw.NumberDigits = c.Number.Digits
		raw.NumberName = c.Number.Name
	}
	for _, t := range c.Tags {
		raw.Tags = append(raw.Tags, t.Name)
	}
	return raw
}

// parseEpoch accepts an integer, a float, or a quoted number of seconds.
func parseEpoch(b json.RawMessage) *int64 {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(bytes.Trim(b, `"`))

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int64(f)
		return &v
	}
	return nil
}
