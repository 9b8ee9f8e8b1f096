package datasource

import (
	"context"

	"airwidget-service/models"
)

// StationDirectory is an interface for services that list monitoring stations
type StationDirectory interface {
	// FetchStations returns every station the service knows about
	FetchStations(ctx context.Context) ([]models.Station, error)

	// Name returns the directory's name
	Name() string
}

// ReadingSource is an interface for services that fetch a station's live reading
type ReadingSource interface {
	// FetchReading returns the latest reading of one station
	FetchReading(ctx context.Context, stationID string) (models.Reading, error)

	// Name returns the source's name
	Name() string
}

// StationProvider is implemented by services that do both
type StationProvider interface {
	StationDirectory
	ReadingSource
}

// LocationProvider supplies the user's current coordinate. Failures are
// reported as resolver errors of kind LocationUnavailable.
type LocationProvider interface {
	Locate(ctx context.Context) (models.Coordinate, error)
	Name() string
}
