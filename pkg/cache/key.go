package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached upstream payload.
type Key struct {
	// Endpoint is the provider endpoint path (e.g., "/api/v1/players/669387/gamelog")
	Endpoint string

	// QueryParams are the request query parameters (e.g., {"season": "2024", "page": "2"})
	QueryParams url.Values
}

// String generates a deterministic cache key string.
// Format: milb:endpoint:query1=val1:query2=val2
//
// Example:
//
//	milb:api/v1/players/669387/gamelog:page=2:season=2024
func (k Key) String() string {
	parts := []string{"milb"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	// Query params sorted for determinism
	if len(k.QueryParams) > 0 {
		queryKeys := make([]string, 0, len(k.QueryParams))
		for key := range k.QueryParams {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.QueryParams.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
