package resolver

import "strings"

// boroughToCounty maps New York City borough/locality names to their
// corresponding county for rate-lookup purposes.
var boroughToCounty = map[string]string{
	"manhattan":     "New York",
	"brooklyn":      "Kings",
	"staten island": "Richmond",
	"bronx":         "Bronx",
	"queens":        "Queens",
}

// NormalizeCounty strips whitespace and a trailing " County" suffix from
// countyStr, then maps known NYC borough names to their county equivalent.
// When countyStr is empty, the county is instead derived from localityStr
// via the same borough table; an unrecognized locality yields "".
func NormalizeCounty(countyStr, localityStr string) string {
	c := strings.TrimSpace(countyStr)
	if c == "" {
		l := strings.ToLower(strings.TrimSpace(localityStr))
		if county, ok := boroughToCounty[l]; ok {
			return county
		}
		return ""
	}

	c = trimCountySuffix(c)

	if county, ok := boroughToCounty[strings.ToLower(c)]; ok {
		return county
	}

	return c
}

func trimCountySuffix(s string) string {
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, " county") {
		return strings.TrimSpace(s[:len(s)-len(" county")])
	}
	return s
}
