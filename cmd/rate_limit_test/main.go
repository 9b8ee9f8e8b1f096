package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"airwidget-service/datasource"
	"airwidget-service/models"

	"golang.org/x/sync/errgroup"
)

// fakeAir4Thai stands in for the station API. It answers after a fixed latency,
// fails every failEvery-th reading call and stamps every call it receives.
type fakeAir4Thai struct {
	latency   time.Duration
	failEvery int
	stations  []models.Station

	mu       sync.Mutex
	listAt   []time.Time
	readAt   []time.Time
	readings int
}

func newFakeAir4Thai(latency time.Duration, stationCount, failEvery int) *fakeAir4Thai {
	stations := make([]models.Station, stationCount)
	for i := range stations {
		stations[i] = models.Station{ID: fmt.Sprintf("%02dt", i+1)}
	}
	return &fakeAir4Thai{latency: latency, failEvery: failEvery, stations: stations}
}

func (f *fakeAir4Thai) wait(ctx context.Context) error {
	select {
	case <-time.After(f.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeAir4Thai) FetchStations(ctx context.Context) ([]models.Station, error) {
	f.mu.Lock()
	f.listAt = append(f.listAt, time.Now())
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.stations, nil
}

func (f *fakeAir4Thai) FetchReading(ctx context.Context, stationID string) (models.Reading, error) {
	f.mu.Lock()
	f.readAt = append(f.readAt, time.Now())
	f.readings++
	n := f.readings
	f.mu.Unlock()

	if err := f.wait(ctx); err != nil {
		return models.Reading{}, err
	}
	if f.failEvery > 0 && n%f.failEvery == 0 {
		return models.Reading{}, fmt.Errorf("station %s: no data", stationID)
	}

	aqi := 42
	return models.Reading{StationID: stationID, AQI: models.Measurement{AQI: &aqi}}, nil
}

func (f *fakeAir4Thai) Name() string {
	return "FakeAir4Thai"
}

// refresh mimics one service refresh: one station list call, then reading
// calls down the list until one succeeds or maxReadings is reached.
func refresh(ctx context.Context, p datasource.StationProvider, maxReadings int) (int, error) {
	stations, err := p.FetchStations(ctx)
	if err != nil {
		return 0, err
	}

	calls := 0
	for _, s := range stations {
		if calls == maxReadings {
			break
		}
		calls++
		if _, err := p.FetchReading(ctx, s.ID); err == nil {
			return calls, nil
		} else if ctx.Err() != nil {
			return calls, err
		}
	}
	return calls, fmt.Errorf("no reading after %d calls", calls)
}

// observedRate is the call rate after the burst has been spent
func observedRate(stamps []time.Time, burst int) float64 {
	if len(stamps) <= burst+1 {
		return 0
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	span := stamps[len(stamps)-1].Sub(stamps[burst]).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(len(stamps)-burst-1) / span
}

func report(label string, stamps []time.Time, limit float64, burst int) {
	rate := observedRate(stamps, burst)
	verdict := "ok"
	if rate > limit*1.2 {
		verdict = "OVER LIMIT"
	}
	fmt.Printf("%-10s calls=%-4d limit=%.2f/s observed=%.2f/s %s\n", label, len(stamps), limit, rate, verdict)
}

func main() {
	refreshes := flag.Int("refreshes", 6, "Number of simulated refreshes")
	parallel := flag.Int("parallel", 3, "Refreshes in flight at once")
	maxReadings := flag.Int("max-readings", 3, "Reading calls allowed per refresh")
	failEvery := flag.Int("fail-every", 2, "Fail every n-th reading call (0 disables failures)")
	directoryRPS := flag.Float64("directory-rps", 0.5, "Station list calls per second")
	readingRPS := flag.Float64("reading-rps", 2, "Reading calls per second")
	burst := flag.Int("burst", 2, "Burst size for both limiters")
	timeout := flag.Duration("timeout", time.Minute, "Overall deadline")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fake := newFakeAir4Thai(100*time.Millisecond, 10, *failEvery)
	limited := datasource.NewRateLimitedProvider(fake, *directoryRPS, *readingRPS, *burst)

	log.Printf("Simulating %d refreshes (%d in flight) against %s", *refreshes, *parallel, limited.Name())
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallel)
	for i := 0; i < *refreshes; i++ {
		i := i
		g.Go(func() error {
			began := time.Now()
			calls, err := refresh(gctx, limited, *maxReadings)
			if err != nil {
				log.Printf("refresh %d: %v after %d reading calls (%v)", i, err, calls, time.Since(began))
				return nil
			}
			log.Printf("refresh %d: reading after %d calls (%v)", i, calls, time.Since(began))
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf("\nFinished in %.2fs\n", time.Since(start).Seconds())

	fake.mu.Lock()
	defer fake.mu.Unlock()
	report("directory", fake.listAt, *directoryRPS, *burst)
	report("readings", fake.readAt, *readingRPS, *burst)
}
