// Package domain defines the core business entities for missedcalls.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawCall: A call record as delivered by the telephony provider
//   - NormalizedCall: The tabular form published to the dashboard
//   - Category: A dashboard tab and the rules selecting its rows
//   - Config: Everything that used to be a hardcoded constant
//   - RunReport: The outcome of one pipeline run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
