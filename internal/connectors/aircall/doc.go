// Package aircall fetches call records from the Aircall REST API.
//
// The client pages through GET /calls from a start timestamp, one page at a
// time, pausing a fixed delay between pages to stay under the API's rate
// limit. It implements driven.CallSource.
//
// # Authentication
//
// Requests carry the API token as a bearer token:
//
//	Authorization: Bearer <AIR_CALL_API_TOKEN>
//
// # Pagination
//
// Each response carries meta.next_page_link; fetching stops at the first page
// without one. There is no retry: any failed page fails the whole fetch.
package aircall
