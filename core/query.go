package core

import (
	"net/url"
	"strings"
)

// SetQuery sets key on values only when value is not blank. Absent filters are omitted, never sent empty.
func SetQuery(values url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		values.Set(key, value)
	}
}
