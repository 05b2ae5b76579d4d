// Package address extracts administrative components from geocoder display
// names. It is a heuristic over comma-separated segments, not a formal
// address parser: ambiguous geocoder output yields best-effort components.
package address

import (
	"regexp"
	"strings"
)

// Components holds the administrative parts recovered from a display name.
// Every field is independently optional; an empty string means not found.
type Components struct {
	City   string
	County string
	Zip    string
}

const (
	defaultCity   = "Austin"
	defaultCounty = "Travis"
)

var (
	leadingZipRe    = regexp.MustCompile(`^\d{5}`)
	standaloneZipRe = regexp.MustCompile(`\b(\d{5})\b`)
	twoLetterRe     = regexp.MustCompile(`^[A-Z]{2}$`)
	numericOnlyRe   = regexp.MustCompile(`^\d+$`)
	countySuffixRe  = regexp.MustCompile(`(?i)\s+County$`)
)

// Segments that are state or country literals, never cities.
var skipLiterals = map[string]struct{}{
	"USA":           {},
	"United States": {},
	"Texas":         {},
}

// Extract parses a geocoder display name such as
// "301 West 2nd Street, Austin, Travis County, Texas, 78701, USA" into city,
// county, and zip. Segment zero is always skipped (house number, street, or
// POI name). The rule order below is load-bearing: downstream overrides are
// keyed to this exact behavior.
func Extract(displayName string) Components {
	var out Components
	if strings.TrimSpace(displayName) == "" {
		return out
	}

	segments := strings.Split(displayName, ",")
	for i, raw := range segments {
		if i == 0 {
			continue
		}
		segment := strings.TrimSpace(raw)
		if segment == "" {
			continue
		}

		switch {
		case leadingZipRe.MatchString(segment):
			// First zip-looking segment wins; later ones are ignored.
			if out.Zip == "" {
				out.Zip = leadingZipRe.FindString(segment)
			}
		case strings.Contains(strings.ToLower(segment), "county"):
			out.County = countySuffixRe.ReplaceAllString(segment, "")
		case twoLetterRe.MatchString(segment) || isSkipLiteral(segment):
			// State abbreviation or country literal, never a city.
		default:
			if out.City == "" && !numericOnlyRe.MatchString(segment) &&
				!strings.Contains(strings.ToLower(segment), "district") {
				out.City = segment
			}
		}
	}

	lower := strings.ToLower(displayName)
	if out.City == "" && strings.Contains(lower, "austin") {
		out.City = defaultCity
	}
	if out.County == "" && strings.Contains(lower, "travis") {
		out.County = defaultCounty
	}
	if out.Zip == "" {
		if m := standaloneZipRe.FindStringSubmatch(displayName); m != nil {
			out.Zip = m[1]
		}
	}

	return out
}

func isSkipLiteral(segment string) bool {
	_, ok := skipLiterals[segment]
	return ok
}
