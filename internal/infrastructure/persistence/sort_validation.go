package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "ASC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"ean":        true,
	"name":       true,
	"category":   true,
	"vat_rate":   true,
	"created_at": true,
	"updated_at": true,
}

// ContactSortFields contains allowed sort fields for contacts
var ContactSortFields = map[string]bool{
	"ico":          true,
	"company_name": true,
	"city":         true,
	"price_group":  true,
	"created_at":   true,
	"updated_at":   true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"number":       true,
	"type":         true,
	"date_issue":   true,
	"date_due":     true,
	"company_name": true,
	"created_at":   true,
}
