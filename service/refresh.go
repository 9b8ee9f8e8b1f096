// Package service runs one user-triggered refresh: locate the user, list the
// stations, pick the nearest ones and fetch a reading from the first with data.
package service

import (
	"context"
	"log"
	"time"

	"airwidget-service/datasource"
	"airwidget-service/models"
	"airwidget-service/resolver"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options tunes a single refresh
type Options struct {
	// Location skips the location provider when set
	Location *models.Coordinate
}

// Result is everything a presentation layer needs to render one refresh
type Result struct {
	RefreshID  string                 `json:"refreshID"`
	Location   models.Coordinate      `json:"location"`
	Candidates []models.RankedStation `json:"candidates"`
	Station    models.RankedStation   `json:"station"`
	Reading    models.Reading         `json:"reading"`
	Attempts   []resolver.Attempt     `json:"attempts,omitempty"`
}

// Service wires the external collaborators to the resolver. It keeps no
// per-refresh state, so concurrent refreshes do not interact.
type Service struct {
	locator      datasource.LocationProvider
	directory    datasource.StationDirectory
	readings     datasource.ReadingSource
	resolver     *resolver.Resolver
	fetchTimeout time.Duration
}

// New creates a refresh service
func New(
	locator datasource.LocationProvider,
	directory datasource.StationDirectory,
	readings datasource.ReadingSource,
	r *resolver.Resolver,
) *Service {
	return &Service{
		locator:      locator,
		directory:    directory,
		readings:     readings,
		resolver:     r,
		fetchTimeout: 10 * time.Second,
	}
}

// SetFetchTimeout changes the timeout for each single-station reading fetch
func (s *Service) SetFetchTimeout(timeout time.Duration) {
	s.fetchTimeout = timeout
}

// Refresh resolves the nearby stations and returns the first available reading
func (s *Service) Refresh(ctx context.Context, opts Options) (Result, error) {
	id := uuid.NewString()

	location, ranked, err := s.nearby(ctx, id, opts)
	if err != nil {
		return Result{RefreshID: id, Location: location}, err
	}

	fallback, err := resolver.FetchWithFallback(ctx, ranked, s.fetchOne)
	for _, a := range fallback.Attempts {
		log.Printf("[%s] No reading from station %s: %v", id, a.StationID, a.Err)
	}

	result := Result{
		RefreshID:  id,
		Location:   location,
		Candidates: ranked,
		Station:    fallback.Station,
		Reading:    fallback.Reading,
		Attempts:   fallback.Attempts,
	}
	if err != nil {
		log.Printf("[%s] Refresh failed: %v", id, err)
		return result, err
	}

	log.Printf("[%s] Reading from %s (%s, %.2f km) after %d failed attempts",
		id, fallback.Station.Station.ID, fallback.Station.Station.DisplayName(),
		fallback.Station.DistanceKm, len(fallback.Attempts))
	return result, nil
}

// Nearby resolves the stations that Refresh would try, without fetching readings
func (s *Service) Nearby(ctx context.Context, opts Options) (models.Coordinate, []models.RankedStation, error) {
	return s.nearby(ctx, uuid.NewString(), opts)
}

func (s *Service) nearby(ctx context.Context, id string, opts Options) (models.Coordinate, []models.RankedStation, error) {
	var (
		location models.Coordinate
		stations []models.Station
	)

	// Location and station list have no ordering dependency.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		location, err = s.locate(gctx, opts)
		return err
	})
	g.Go(func() error {
		var err error
		stations, err = s.directory.FetchStations(gctx)
		if err != nil {
			return resolver.NewError(resolver.KindNoStationsAvailable, err, "station directory %s failed", s.directory.Name())
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("[%s] Refresh inputs unavailable: %v", id, err)
		return location, nil, err
	}

	log.Printf("[%s] Resolving %d stations around %s", id, len(stations), location)

	ranked, err := s.resolver.ResolveNearby(location, stations)
	if err != nil {
		log.Printf("[%s] Resolution failed: %v", id, err)
		return location, nil, err
	}

	return location, ranked, nil
}

func (s *Service) locate(ctx context.Context, opts Options) (models.Coordinate, error) {
	if opts.Location != nil {
		if !opts.Location.Valid() {
			return models.Coordinate{}, resolver.NewError(resolver.KindLocationUnavailable, nil,
				"supplied location %s is out of range", *opts.Location)
		}
		return *opts.Location, nil
	}

	if s.locator == nil {
		return models.Coordinate{}, resolver.NewError(resolver.KindLocationUnavailable, nil, "no location provider configured")
	}

	return s.locator.Locate(ctx)
}

// fetchOne performs a single reading fetch with its own timeout
func (s *Service) fetchOne(ctx context.Context, station models.Station) (models.Reading, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	return s.readings.FetchReading(fetchCtx, station.ID)
}
