package models

// Station represents an air-quality monitoring station as listed by the station directory.
// Lat and Long are kept as the numeric strings delivered upstream.
type Station struct {
	ID          string `json:"stationID"`
	NameTH      string `json:"nameTH,omitempty"`
	NameEN      string `json:"nameEN,omitempty"`
	AreaTH      string `json:"areaTH,omitempty"`
	AreaEN      string `json:"areaEN,omitempty"`
	StationType string `json:"stationType,omitempty"`
	Lat         string `json:"lat"`
	Long        string `json:"long"`
}

// Coordinate parses the station position
func (s Station) Coordinate() (Coordinate, error) {
	return ParseCoordinate(s.Lat, s.Long)
}

// DisplayName prefers the English name and falls back to the Thai one, then the id
func (s Station) DisplayName() string {
	switch {
	case s.NameEN != "":
		return s.NameEN
	case s.NameTH != "":
		return s.NameTH
	default:
		return s.ID
	}
}

// RankedStation is a station paired with its distance from the query point
type RankedStation struct {
	Station    Station `json:"station"`
	DistanceKm float64 `json:"distanceKm"`
}
