// Package sheets publishes classified calls to tabs of a Google Sheets dashboard.
//
// Each publish fully replaces a tab: the tab is cleared, then a header, the
// data rows and two formula columns are written in a single values.batchUpdate
// call. Formulas are entered with USER_ENTERED so Sheets evaluates them:
//
//	K  =TEXT(NOW(), "YY-MM-DD HH:MM:SS")   time of the last refresh
//	L  =K{r}-B{r}                           time since the call was missed
package sheets
