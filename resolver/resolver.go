// Package resolver picks the monitoring stations nearest to a user and fetches
// a live reading from the first of them that has data.
package resolver

import (
	"math"
	"sort"

	"airwidget-service/geo"
	"airwidget-service/models"
)

// Mode selects the shape of ResolveNearby's result
type Mode string

const (
	// ModeRanked returns every in-range station, nearest first
	ModeRanked Mode = "ranked"
	// ModeNearest returns only the nearest in-range station
	ModeNearest Mode = "nearest"
)

const (
	// DefaultExactMatchKm is the distance under which a station counts as the user's own location
	DefaultExactMatchKm = 0.1
	// DefaultMaxDistanceKm is the radius beyond which stations are not considered
	DefaultMaxDistanceKm = 50.0
)

// Config holds the resolver parameters
type Config struct {
	ExactMatchKm  float64 `json:"exactMatchKm"`
	MaxDistanceKm float64 `json:"maxDistanceKm"`
	Mode          Mode    `json:"mode"`
}

// DefaultConfig returns a ranked resolver with a 50 km radius
func DefaultConfig() Config {
	return Config{
		ExactMatchKm:  DefaultExactMatchKm,
		MaxDistanceKm: DefaultMaxDistanceKm,
		Mode:          ModeRanked,
	}
}

// Resolver ranks stations by distance from a query point. It holds no state
// beyond its configuration and is safe for concurrent use.
type Resolver struct {
	cfg Config
}

// New creates a resolver, filling zero fields from DefaultConfig
func New(cfg Config) *Resolver {
	def := DefaultConfig()
	if cfg.ExactMatchKm <= 0 {
		cfg.ExactMatchKm = def.ExactMatchKm
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = def.MaxDistanceKm
	}
	if cfg.Mode == "" {
		cfg.Mode = def.Mode
	}
	return &Resolver{cfg: cfg}
}

// Config returns the effective configuration
func (r *Resolver) Config() Config {
	return r.cfg
}

// Rank computes each station's distance from user and sorts ascending.
// Stations whose coordinates do not parse are left out.
func Rank(user models.Coordinate, stations []models.Station) []models.RankedStation {
	ranked := make([]models.RankedStation, 0, len(stations))
	for _, s := range stations {
		d := math.NaN()
		if c, err := s.Coordinate(); err == nil {
			d = geo.DistanceKm(user, c)
		}
		if math.IsNaN(d) {
			continue
		}
		ranked = append(ranked, models.RankedStation{Station: s, DistanceKm: d})
	}

	// Ties keep directory order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked
}

// ResolveNearby returns the stations to try for user, nearest first.
//
// A station closer than ExactMatchKm is returned alone regardless of the
// distance threshold. Otherwise every station within MaxDistanceKm is
// returned, or only the first one in ModeNearest.
func (r *Resolver) ResolveNearby(user models.Coordinate, stations []models.Station) ([]models.RankedStation, error) {
	if len(stations) == 0 {
		return nil, NewError(KindNoStationsAvailable, nil, "no stations available")
	}

	ranked := Rank(user, stations)
	if len(ranked) == 0 {
		return nil, NewError(KindNoStationsAvailable, nil, "no station has a usable coordinate (%d listed)", len(stations))
	}

	if ranked[0].DistanceKm < r.cfg.ExactMatchKm {
		return ranked[:1], nil
	}

	inRange := ranked[:0]
	for _, rs := range ranked {
		if rs.DistanceKm > r.cfg.MaxDistanceKm {
			// sorted, nothing further can qualify
			break
		}
		inRange = append(inRange, rs)
	}

	if len(inRange) == 0 {
		return nil, NewError(KindNoStationsInRange, nil,
			"no stations within %.1f km (nearest is %.1f km)", r.cfg.MaxDistanceKm, ranked[0].DistanceKm)
	}

	if r.cfg.Mode == ModeNearest {
		return inRange[:1], nil
	}

	return inRange, nil
}

// ResolveNearest returns the single best station for user
func (r *Resolver) ResolveNearest(user models.Coordinate, stations []models.Station) (models.RankedStation, error) {
	ranked, err := r.ResolveNearby(user, stations)
	if err != nil {
		return models.RankedStation{}, err
	}
	return ranked[0], nil
}
