package datasource

import (
	"context"
	"fmt"

	"airwidget-service/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider throttles both the station directory and the reading
// fetch of a provider that implements both
type RateLimitedProvider struct {
	directory        StationDirectory
	readings         ReadingSource
	directoryLimiter *rate.Limiter
	readingLimiter   *rate.Limiter
	name             string
}

// NewRateLimitedProvider creates a provider that implements both interfaces with rate limiting
// directoryRPS and readingRPS are the maximum requests per second for the list and single-station calls
func NewRateLimitedProvider(provider StationProvider, directoryRPS, readingRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		directory:        provider,
		readings:         provider,
		directoryLimiter: rate.NewLimiter(rate.Limit(directoryRPS), burst),
		readingLimiter:   rate.NewLimiter(rate.Limit(readingRPS), burst),
		name:             fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// FetchStations implements StationDirectory interface with rate limiting
func (r *RateLimitedProvider) FetchStations(ctx context.Context) ([]models.Station, error) {
	if err := r.directoryLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.directory.FetchStations(ctx)
}

// FetchReading implements ReadingSource interface with rate limiting
func (r *RateLimitedProvider) FetchReading(ctx context.Context, stationID string) (models.Reading, error) {
	if err := r.readingLimiter.Wait(ctx); err != nil {
		return models.Reading{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.readings.FetchReading(ctx, stationID)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

// Verify that our rate limited types implement the required interfaces
var (
	_ StationDirectory = (*RateLimitedProvider)(nil)
	_ ReadingSource    = (*RateLimitedProvider)(nil)
)
