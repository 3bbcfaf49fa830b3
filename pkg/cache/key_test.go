package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		expected string
	}{
		{
			name:     "endpoint only",
			key:      Key{Endpoint: "/api/v1/prospects"},
			expected: "milb:api/v1/prospects",
		},
		{
			name: "with query params",
			key: Key{
				Endpoint:    "/api/v1/players/669387/gamelog",
				QueryParams: url.Values{"season": {"2024"}, "page": {"2"}},
			},
			expected: "milb:api/v1/players/669387/gamelog:page=2:season=2024",
		},
		{
			name:     "empty endpoint",
			key:      Key{},
			expected: "milb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.expected {
				t.Errorf("Key.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	// Map iteration order must not leak into the key.
	key := Key{
		Endpoint: "/api/v1/players/669387/gamelog",
		QueryParams: url.Values{
			"season": {"2024"},
			"page":   {"3"},
			"group":  {"pitching"},
		},
	}

	first := key.String()
	for i := 0; i < 50; i++ {
		if got := key.String(); got != first {
			t.Fatalf("Key.String() not deterministic: %q vs %q", got, first)
		}
	}
}

func TestKey_String_DifferentPagesDiffer(t *testing.T) {
	k1 := Key{Endpoint: "/api/v1/players/669387/gamelog", QueryParams: url.Values{"page": {"1"}}}
	k2 := Key{Endpoint: "/api/v1/players/669387/gamelog", QueryParams: url.Values{"page": {"2"}}}

	if k1.String() == k2.String() {
		t.Error("Keys for different pages must differ")
	}
}
