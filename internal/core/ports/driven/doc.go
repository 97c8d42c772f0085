// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CallSource: Fetches raw call records from the telephony provider
//   - SheetPublisher: Replaces the contents of a dashboard tab
//
// # Optional Interfaces
//
//   - SpreadsheetResolver: Turns a spreadsheet title into an ID. Only needed
//     when the configuration names the dashboard instead of giving its ID.
//   - SchedulerStore: Task state for watch mode.
//   - TokenProvider: Supplies bearer tokens to HTTP connectors.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
