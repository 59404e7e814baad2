package domain

// Location is a resolved city with geographic coordinates, mapped from the
// first geocoding candidate. The zero value means "not resolved"; a valid
// Location always carries both latitude and longitude.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Country   string  `json:"country"`
	State     string  `json:"state,omitempty"`
}
