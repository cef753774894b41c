package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort direction to ASC or DESC,
// defaulting to DESC for invalid or empty input
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks the sort field against a whitelist of column
// names, falling back to defaultField. Sort fields reach the SQL ORDER BY
// clause verbatim, so only whitelisted columns are accepted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// DocumentSortFields contains allowed sort fields for document lists
var DocumentSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"status":        true,
	"supplier_name": true,
	"customer_name": true,
	"warehouse":     true,
	"submitted_at":  true,
	"approved_at":   true,
	"closed_at":     true,
}
