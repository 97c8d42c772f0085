// Package drive resolves dashboard spreadsheets by title through the Google Drive API.
package drive
