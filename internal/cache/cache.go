// Package cache holds short-lived upstream responses and computed results in
// memory. Nothing is written to disk.
package cache

import (
	"strconv"
	"strings"
)

// BuildKey creates semantic cache keys
func BuildKey(parts ...string) string {
	return strings.Join(parts, "|")
}

// CatalogKey identifies one page of catalog cards for a set.
func CatalogKey(catalogSetID string, pageSize int) string {
	return BuildKey("catalog", catalogSetID, strconv.Itoa(pageSize))
}

// ResultKey identifies a computed chase list.
func ResultKey(strategy, uiSetID string, limit int) string {
	return BuildKey("result", strategy, uiSetID, strconv.Itoa(limit))
}
