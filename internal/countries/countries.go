// Package countries holds the hand-maintained country tables consumed by the
// join stages: override aliases for names the reference files spell
// differently, and the hemisphere membership sets behind the coordinate sign
// fix. They are data, kept apart from the matching logic so they can be
// audited and extended without touching it.
package countries

import "github.com/weatherchart/dataset-tools/internal/resolve"

// ClimateOverrides maps normalized chart regions to the names the
// temperature dataset uses.
func ClimateOverrides() map[string]string {
	return map[string]string{
		"usa":     "United States",
		"uk":      "United Kingdom",
		"uae":     "United Arab Emirates",
		"korea":   "South Korea",
		"vietnam": "Vietnam",
	}
}

// GeographyOverrides extends ClimateOverrides with the formal state names
// the geography file uses.
func GeographyOverrides() map[string]string {
	m := ClimateOverrides()
	m["russia"] = "Russian Federation"
	m["iran"] = "Iran (Islamic Republic of)"
	m["bolivia"] = "Bolivia (Plurinational State of)"
	m["venezuela"] = "Venezuela (Bolivarian Republic of)"
	m["ireland"] = "Republic of Ireland"
	return m
}

func newSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[resolve.Normalize(n)] = true
	}
	return set
}

// The raw geography source stores coordinate magnitudes only. These sets
// list the chart markets whose latitude (southern) or longitude (western)
// must be negative, under both the common and the formal spellings.
var (
	southernHemisphere = newSet(
		"Argentina", "Australia", "Bolivia", "Bolivia (Plurinational State of)",
		"Brazil", "Chile", "Ecuador", "Fiji", "Indonesia", "Lesotho",
		"Madagascar", "Malawi", "Mauritius", "Mozambique", "Namibia",
		"New Zealand", "Papua New Guinea", "Paraguay", "Peru", "Samoa",
		"Solomon Islands", "South Africa", "Eswatini",
		"Tanzania", "United Republic of Tanzania", "Uruguay", "Vanuatu",
		"Zambia", "Zimbabwe",
	)
	westernHemisphere = newSet(
		"Antigua and Barbuda", "Argentina", "Bahamas", "Barbados", "Belize",
		"Bolivia", "Bolivia (Plurinational State of)", "Brazil", "Canada",
		"Chile", "Colombia", "Costa Rica", "Cuba", "Dominica",
		"Dominican Republic", "Ecuador", "El Salvador", "Grenada",
		"Guatemala", "Guyana", "Haiti", "Honduras", "Iceland", "Ireland",
		"Republic of Ireland", "Jamaica", "Mexico", "Nicaragua", "Panama",
		"Paraguay", "Peru", "Portugal", "Saint Kitts and Nevis",
		"Saint Lucia", "Saint Vincent and the Grenadines", "Suriname",
		"Trinidad and Tobago", "United Kingdom", "United States",
		"United States of America", "Uruguay",
		"Venezuela", "Venezuela (Bolivarian Republic of)",
	)
)

// SignCorrector forces the sign of coordinates whose source magnitude lost
// it. The fix is guarded: a value already negative is left alone, so a
// second pass changes nothing.
type SignCorrector struct {
	Southern map[string]bool
	Western  map[string]bool
}

func NewSignCorrector() *SignCorrector {
	return &SignCorrector{Southern: southernHemisphere, Western: westernHemisphere}
}

// Correct returns the corrected latitude and longitude for a country.
// Countries in neither set pass through untouched.
func (c *SignCorrector) Correct(country string, lat, long float64) (float64, float64) {
	key := resolve.Normalize(country)
	if c.Southern[key] && lat > 0 {
		lat = -lat
	}
	if c.Western[key] && long > 0 {
		long = -long
	}
	return lat, long
}
