// Package connectors holds the clients for the external systems the pipeline
// talks to. Each subpackage implements one or more driven ports:
//
//   - aircall: CallSource over the Aircall REST API
//   - google/sheets: SheetPublisher over the Sheets API
//   - google/drive: SpreadsheetResolver over the Drive API
//
// The google package itself holds what the Google connectors share:
// service-account token sources, service construction, rate limits and
// googleapi error mapping.
package connectors
