// Package domain models the city-weather batch pipeline.
//
// # Data Source
//
// All external data comes from OpenWeatherMap (https://openweathermap.org):
// the Geocoding API resolves free-text city names to coordinates, the
// 5 Day / 3 Hour Forecast API provides temperature time series, and the
// Current Weather API provides instantaneous readings. One API key covers
// all three endpoints.
//
// # Input Conventions
//
// User input is one or more city segments separated by semicolons:
//
//	"London,GB;Abuja"  →  two queries: (London, GB) and (Abuja).
//
// A segment is "City" or "City,CC" where CC is an ISO 3166 country code.
// Cities are title-cased and country codes upper-cased before lookup so
// casing matches what the geocoding service indexes.
//
// # Resolution Policy
//
// Geocoding requests pin limit=1 and the first candidate is authoritative.
// There is no scoring or disambiguation; callers that need to choose among
// ambiguous matches would have to widen the limit on [Geocoder].
//
// # Units and Time
//
// Temperatures are degrees Celsius (units=metric on every request).
// Forecast timestamps arrive as "YYYY-MM-DD HH:MM:SS" strings in UTC and
// are parsed into time.Time at the adapter boundary.
package domain
