// Package validation sanitizes and validates catalog items, BOQ lines,
// projects and categories before they reach storage.
package validation
