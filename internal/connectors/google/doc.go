// Package google provides shared infrastructure for the Google API connectors.
//
// This package contains common utilities used by the sheets and drive
// connectors including:
//   - A service-account token source built from the JSON key
//   - Service factories for creating Google API clients
//   - Error handling for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts, err := google.ServiceAccountTokenSource(ctx, creds.GoogleServiceAccount)
//	svc, err := google.NewSheetsService(ctx, ts)
//
// # OAuth2 Scopes
//
// The dashboard uses these scopes:
//   - https://www.googleapis.com/auth/spreadsheets
//   - https://www.googleapis.com/auth/drive
//
// The drive scope is needed to look a spreadsheet up by its title.
// The service account must be granted edit access to the spreadsheet.
package google
