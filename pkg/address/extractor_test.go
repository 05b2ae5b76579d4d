package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	testCases := []struct {
		name        string
		displayName string
		expected    Components
	}{
		{
			name:        "downtown Austin address",
			displayName: "301 West 2nd Street, Austin, Travis County, Texas, 78701, USA",
			expected:    Components{City: "Austin", County: "Travis", Zip: "78701"},
		},
		{
			name:        "Round Rock address",
			displayName: "123 Main Street, Round Rock, Williamson County, Texas, 78664, USA",
			expected:    Components{City: "Round Rock", County: "Williamson", Zip: "78664"},
		},
		{
			name:        "POI result assigns first plausible segment as city",
			displayName: "Foxtrot, 301, West 2nd Street, Warehouse District, Austin, Travis County, Texas, 78701, United States",
			expected:    Components{City: "West 2nd Street", County: "Travis", Zip: "78701"},
		},
		{
			name:        "empty input",
			displayName: "",
			expected:    Components{},
		},
		{
			name:        "first zip wins over later zip-looking segments",
			displayName: "1 Somewhere, Austin, Travis County, Texas, 78701, 78702, USA",
			expected:    Components{City: "Austin", County: "Travis", Zip: "78701"},
		},
		{
			name:        "two-letter state token is not a city",
			displayName: "500 Elm St, TX, Dallas County, Texas, 75201, USA",
			expected:    Components{County: "Dallas", Zip: "75201"},
		},
		{
			name:        "austin default when no city segment survives",
			displayName: "Warehouse District, Austin Convention District, Travis County, Texas, USA, 78701",
			expected:    Components{City: "Austin", County: "Travis", Zip: "78701"},
		},
		{
			name:        "zip recovered by global search when no segment leads with digits",
			displayName: "78746 Plaza, TX, Travis County, Texas, USA",
			expected:    Components{County: "Travis", Zip: "78746"},
		},
		{
			name:        "county suffix stripped case-insensitively",
			displayName: "9 Oak Ln, Pflugerville, TRAVIS COUNTY, Texas, 78660, USA",
			expected:    Components{City: "Pflugerville", County: "TRAVIS", Zip: "78660"},
		},
		{
			name:        "numeric-only segment is never a city",
			displayName: "Foxtrot, 301, Austin, Travis County, Texas, 78701, USA",
			expected:    Components{City: "Austin", County: "Travis", Zip: "78701"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Extract(tc.displayName))
		})
	}
}

func TestExtract_FieldsIndependentlyOptional(t *testing.T) {
	result := Extract("Somewhere, Nowhere Town")
	assert.Equal(t, "Nowhere Town", result.City)
	assert.Empty(t, result.County)
	assert.Empty(t, result.Zip)
}
