// Package domain models meteorite landings and terrestrial impact craters.
//
// # Data Sources
//
// Meteorite landings come from the NASA Open Data Portal (Socrata dataset
// gh4g-9sfh), fetched once at startup as a JSON array. Impact craters come from
// a static GeoJSON FeatureCollection derived from the Earth Impact Database.
//
// # Meteorite Conventions
//
// Socrata serialises numeric columns as JSON strings, so mass, year and the
// legacy reclat/reclong fields arrive as "21", "1880-01-01T00:00:00.000" and
// "50.775000". A local dump may carry the same fields as numbers. [Value]
// accepts both and keeps the original text.
//
// Year:
//
//	Only the first four characters are read ("1880-01-01T..." -> 1880).
//	An absent year passes any year filter; a present but unparseable year
//	("abcd") fails every year filter.
//
// Mass:
//
//	Grams. Absent passes any mass filter; present but unparseable fails.
//	Displayed via [FormatMass]: >= 1,000,000 g in tonnes, >= 1,000 g in kg.
//
// Coordinates, first populated form wins:
//
//	geolocation.latitude / geolocation.longitude
//	geolocation.coordinates as [lon, lat]
//	reclat / reclong
//
// # Crater Conventions
//
// GeoJSON property keys follow the source dataset verbatim, including its
// misspelling: "Name", "Age [Myr]", "Crater diamter [km]", "Country",
// "Target", "Crater type". Geometry is a Point in [lon, lat] order.
//
// Age strings are free text in millions of years, parsed by [ParseAge]:
//
//	"65 ± 1"  -> 64..66     uncertainty
//	"35-40"   -> 35..40     range (optional leading "~")
//	"<10"     -> ..10       upper bound
//	">100"    -> 100..      lower bound
//	"66"      -> ..66       bare number, an upper bound like "<66"
//	"~66"     -> 66..66     approximate point
//
// Unresolved bounds default to 0 and 2500 Myr so that a crater with an
// unreadable age is never dropped by an age filter.
package domain
