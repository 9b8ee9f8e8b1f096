package resolver

import (
	"context"
	"encoding/json"
	"errors"

	"airwidget-service/models"
)

// FetchFunc fetches the live reading of one station
type FetchFunc func(ctx context.Context, station models.Station) (models.Reading, error)

// errEmptyReading marks an attempt that succeeded without data
var errEmptyReading = errors.New("empty reading")

// Attempt records one fetch that did not yield usable data
type Attempt struct {
	StationID string
	Err       error
}

// Empty reports whether the attempt returned no data rather than an error
func (a Attempt) Empty() bool {
	return errors.Is(a.Err, errEmptyReading)
}

// MarshalJSON renders the error as text
func (a Attempt) MarshalJSON() ([]byte, error) {
	msg := ""
	if a.Err != nil {
		msg = a.Err.Error()
	}
	return json.Marshal(struct {
		StationID string `json:"stationID"`
		Error     string `json:"error"`
		Empty     bool   `json:"empty"`
	}{a.StationID, msg, a.Empty()})
}

// FallbackResult is the outcome of FetchWithFallback
type FallbackResult struct {
	Station  models.RankedStation
	Reading  models.Reading
	Attempts []Attempt // failed attempts in order, excluding the successful one
}

// FetchWithFallback tries each ranked station in order, one attempt each, and
// returns the first non-empty reading. Candidates are never fetched in parallel.
func FetchWithFallback(ctx context.Context, ranked []models.RankedStation, fetch FetchFunc) (FallbackResult, error) {
	var (
		result  FallbackResult
		lastErr error
	)

	for _, candidate := range ranked {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		reading, err := fetch(ctx, candidate.Station)
		switch {
		case err != nil:
			lastErr = err
			result.Attempts = append(result.Attempts, Attempt{StationID: candidate.Station.ID, Err: err})
		case reading.Empty():
			result.Attempts = append(result.Attempts, Attempt{StationID: candidate.Station.ID, Err: errEmptyReading})
		default:
			result.Station = candidate
			result.Reading = reading
			return result, nil
		}
	}

	if len(ranked) == 0 {
		return result, NewError(KindNoReadingAvailable, nil, "no candidate stations to fetch")
	}
	if lastErr != nil {
		return result, NewError(KindNoReadingAvailable, lastErr, "no reading from %d stations", len(ranked))
	}
	return result, NewError(KindNoReadingAvailable, nil, "all %d stations returned empty readings", len(ranked))
}
