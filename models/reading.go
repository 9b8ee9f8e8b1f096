package models

import (
	"time"
)

// Measurement is one value of a reading. Nil fields mean the station did not report it.
type Measurement struct {
	Value   *float64 `json:"value,omitempty"`   // concentration in the pollutant's native unit
	AQI     *int     `json:"aqi,omitempty"`     // sub-index
	ColorID string   `json:"colorId,omitempty"` // upstream color band id
}

// Present reports whether the measurement carries any number
func (m Measurement) Present() bool {
	return m.Value != nil || m.AQI != nil
}

// Reading represents the live measurement payload for one station
type Reading struct {
	Provider      string      `json:"provider"`
	StationID     string      `json:"stationID"`
	Date          string      `json:"date"` // upstream date string, e.g. 2024-01-10
	Time          string      `json:"time"` // upstream time string, e.g. 14:00
	AQI           Measurement `json:"aqi"`
	DominantParam string      `json:"dominantParam,omitempty"`
	PM25          Measurement `json:"pm25"`
	PM10          Measurement `json:"pm10"`
	O3            Measurement `json:"o3"`
	CO            Measurement `json:"co"`
	NO2           Measurement `json:"no2"`
	SO2           Measurement `json:"so2"`
	Timestamp     time.Time   `json:"timestamp"` // when the reading was fetched
}

// Empty reports whether the reading has no usable measurement at all
func (r Reading) Empty() bool {
	if r.AQI.Present() {
		return false
	}
	for _, m := range []Measurement{r.PM25, r.PM10, r.O3, r.CO, r.NO2, r.SO2} {
		if m.Present() {
			return false
		}
	}
	return true
}

// Level is a Thai AQI band
type Level string

const (
	LevelUnknown   Level = "unknown"
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelModerate  Level = "moderate"
	LevelSensitive Level = "unhealthy for sensitive groups"
	LevelUnhealthy Level = "unhealthy"
)

// Level maps the overall AQI onto the Pollution Control Department bands
func (r Reading) Level() Level {
	if r.AQI.AQI == nil {
		return LevelUnknown
	}

	switch aqi := *r.AQI.AQI; {
	case aqi < 0:
		return LevelUnknown
	case aqi <= 25:
		return LevelExcellent
	case aqi <= 50:
		return LevelGood
	case aqi <= 100:
		return LevelModerate
	case aqi <= 200:
		return LevelSensitive
	default:
		return LevelUnhealthy
	}
}
