package resolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/taxengine/internal/geo/resolver"
)

func TestNormalizeCounty(t *testing.T) {
	cases := []struct {
		name     string
		county   string
		locality string
		want     string
	}{
		{"strips County suffix", "Kings County", "", "Kings"},
		{"case-insensitive suffix strip", "kings county", "", "kings"},
		{"borough mapping from county", "Manhattan", "", "New York"},
		{"brooklyn maps to kings", "Brooklyn", "", "Kings"},
		{"staten island maps to richmond", "Staten Island", "", "Richmond"},
		{"bronx maps to itself", "Bronx", "", "Bronx"},
		{"empty county falls back to locality", "", "Manhattan", "New York"},
		{"empty county and unknown locality yields empty", "", "Somewhere", ""},
		{"plain county passes through", "Albany", "", "Albany"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := resolver.NormalizeCounty(c.county, c.locality)
			assert.Equal(t, c.want, got)
		})
	}
}
