package domain

// RawCall is a call record as delivered by the telephony provider.
// Pointer fields distinguish a key that is absent from one holding a zero value.
type RawCall struct {
	// ID is the provider's call identifier.
	ID *int64

	// Direction is "inbound" or "outbound".
	Direction *string

	// StartedAt is the epoch second the call started.
	StartedAt *int64

	// AnsweredAt is the epoch second the call was answered.
	// Nil when the call was never answered or the value was unparsable.
	AnsweredAt *int64

	// RawDigits is the caller's number as dialled.
	RawDigits *string

	// NumberDigits is the provider number (line) the call reached.
	NumberDigits *string

	// NumberName is the name of the line the call reached.
	NumberName *string

	// Duration is the call length in seconds.
	Duration *int64

	// Tags are the names of tags attached to the call, in provider order.
	Tags []string
}
