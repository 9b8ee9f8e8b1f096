package static

import (
	"context"

	"airwidget-service/datasource"
	"airwidget-service/models"
	"airwidget-service/resolver"
)

// StaticLocation is a LocationProvider that always answers with a configured coordinate
type StaticLocation struct {
	coordinate models.Coordinate
	set        bool
}

// Ensure StaticLocation implements datasource.LocationProvider
var _ datasource.LocationProvider = (*StaticLocation)(nil)

// NewStaticLocation creates a provider for a fixed coordinate
func NewStaticLocation(latitude, longitude float64) *StaticLocation {
	return &StaticLocation{
		coordinate: models.Coordinate{Latitude: latitude, Longitude: longitude},
		set:        true,
	}
}

// Name returns the name of this provider
func (s *StaticLocation) Name() string {
	return "Static"
}

// Locate returns the configured coordinate
func (s *StaticLocation) Locate(ctx context.Context) (models.Coordinate, error) {
	if s == nil || !s.set {
		return models.Coordinate{}, resolver.NewError(resolver.KindLocationUnavailable, nil, "no static location configured")
	}
	if !s.coordinate.Valid() {
		return models.Coordinate{}, resolver.NewError(resolver.KindLocationUnavailable, nil,
			"static location %s is out of range", s.coordinate)
	}
	return s.coordinate, nil
}
