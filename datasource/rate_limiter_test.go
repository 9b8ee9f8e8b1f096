package datasource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"airwidget-service/models"
)

// mockProvider counts calls and answers with canned data
type mockProvider struct {
	mu            sync.Mutex
	stationCalls  int
	readingCalls  int
	readingErr    error
	stationResult []models.Station
}

func (m *mockProvider) FetchStations(ctx context.Context) ([]models.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stationCalls++
	return m.stationResult, nil
}

func (m *mockProvider) FetchReading(ctx context.Context, stationID string) (models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readingCalls++
	if m.readingErr != nil {
		return models.Reading{}, m.readingErr
	}
	return models.Reading{StationID: stationID}, nil
}

func (m *mockProvider) Name() string {
	return "Mock"
}

func TestRateLimitedProviderForwards(t *testing.T) {
	mock := &mockProvider{stationResult: []models.Station{{ID: "02t"}}}
	limited := NewRateLimitedProvider(mock, 100, 100, 5)

	if limited.Name() != "Mock [Rate Limited]" {
		t.Errorf("Name() = %q", limited.Name())
	}

	stations, err := limited.FetchStations(context.Background())
	if err != nil || len(stations) != 1 {
		t.Fatalf("FetchStations = %v, %v", stations, err)
	}

	reading, err := limited.FetchReading(context.Background(), "02t")
	if err != nil || reading.StationID != "02t" {
		t.Fatalf("FetchReading = %+v, %v", reading, err)
	}

	if mock.stationCalls != 1 || mock.readingCalls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", mock.stationCalls, mock.readingCalls)
	}
}

func TestRateLimitedProviderPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	limited := NewRateLimitedProvider(&mockProvider{readingErr: boom}, 100, 100, 5)

	if _, err := limited.FetchReading(context.Background(), "02t"); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestRateLimitedProviderWaitCanceled(t *testing.T) {
	mock := &mockProvider{}
	// One token each, refilled every 100 seconds
	limited := NewRateLimitedProvider(mock, 0.01, 0.01, 1)

	if _, err := limited.FetchReading(context.Background(), "a"); err != nil {
		t.Fatalf("first call should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := limited.FetchReading(ctx, "b"); err == nil {
		t.Fatal("expected rate limit wait to fail")
	}
	if mock.readingCalls != 1 {
		t.Errorf("expected the throttled call not to reach the source, got %d calls", mock.readingCalls)
	}
}

func TestRateLimitedProviderSeparateLimiters(t *testing.T) {
	mock := &mockProvider{}
	// Station list throttled hard, readings effectively unthrottled
	limited := NewRateLimitedProvider(mock, 0.01, 1000, 1)

	if _, err := limited.FetchStations(context.Background()); err != nil {
		t.Fatalf("first list call should use the burst token: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// The spent directory token must not hold back readings
	for i := 0; i < 3; i++ {
		if _, err := limited.FetchReading(ctx, "02t"); err != nil {
			t.Fatalf("reading %d throttled by the directory limiter: %v", i, err)
		}
	}

	if _, err := limited.FetchStations(ctx); err == nil {
		t.Error("expected the second list call to be throttled")
	}
	if mock.stationCalls != 1 || mock.readingCalls != 3 {
		t.Errorf("calls = %d/%d, want 1/3", mock.stationCalls, mock.readingCalls)
	}
}
