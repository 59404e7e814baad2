package domain

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyInput signals that the raw input contained no parseable city
// segments. The prompt loop surfaces it to the user; it never starts a batch.
var ErrEmptyInput = errors.New("no city queries in input")

// LocationQuery is one normalized city lookup request.
type LocationQuery struct {
	City        string
	CountryCode string // ISO 3166, upper-cased; empty when not given
}

// String renders the query in the "City,CC" form the geocoding API expects.
func (q LocationQuery) String() string {
	if q.CountryCode == "" {
		return q.City
	}
	return q.City + "," + q.CountryCode
}

var titleCaser = cases.Title(language.English)

// ParseQueries splits raw user input into location queries, one per
// non-empty semicolon-delimited segment, preserving input order. Each
// segment splits on the first comma into city and optional country code;
// the city is title-cased and the country code upper-cased. Returns
// ErrEmptyInput when nothing parseable remains.
func ParseQueries(raw string) ([]LocationQuery, error) {
	segments := strings.Split(raw, ";")

	queries := make([]LocationQuery, 0, len(segments))
	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		city, country, _ := strings.Cut(segment, ",")
		city = strings.TrimSpace(city)
		if city == "" {
			continue
		}

		queries = append(queries, LocationQuery{
			City:        titleCaser.String(strings.ToLower(city)),
			CountryCode: strings.ToUpper(strings.TrimSpace(country)),
		})
	}

	if len(queries) == 0 {
		return nil, ErrEmptyInput
	}
	return queries, nil
}
