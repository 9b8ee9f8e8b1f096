package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"airwidget-service/models"
)

// DefaultAir4ThaiBaseURL is the Pollution Control Department endpoint
const DefaultAir4ThaiBaseURL = "http://air4thai.pcd.go.th/services/getNewAQI_JSON.php"

// Air4ThaiProvider implements both StationDirectory and ReadingSource interfaces
type Air4ThaiProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewAir4ThaiProvider creates a new Air4Thai provider
func NewAir4ThaiProvider(baseURL string, timeout time.Duration) *Air4ThaiProvider {
	return NewAir4ThaiProviderWithClient(baseURL, &http.Client{
		Timeout: timeout,
	})
}

// NewAir4ThaiProviderWithClient creates a new Air4Thai provider with a custom HTTP client
func NewAir4ThaiProviderWithClient(baseURL string, httpClient *http.Client) *Air4ThaiProvider {
	if baseURL == "" {
		baseURL = DefaultAir4ThaiBaseURL
	}
	return &Air4ThaiProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Name returns the provider name
func (p *Air4ThaiProvider) Name() string {
	return "Air4Thai"
}

// flexString accepts both JSON strings and numbers; the API mixes them
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type air4thaiValue struct {
	ColorID flexString `json:"color_id"`
	AQI     flexString `json:"aqi"`
	Value   flexString `json:"value"`
	Param   string     `json:"param"`
}

type air4thaiStation struct {
	StationID   string     `json:"stationID"`
	NameTH      string     `json:"nameTH"`
	NameEN      string     `json:"nameEN"`
	AreaTH      string     `json:"areaTH"`
	AreaEN      string     `json:"areaEN"`
	StationType string     `json:"stationType"`
	Lat         flexString `json:"lat"`
	Long        flexString `json:"long"`
	AQILast     *struct {
		Date string        `json:"date"`
		Time string        `json:"time"`
		PM25 air4thaiValue `json:"PM25"`
		PM10 air4thaiValue `json:"PM10"`
		O3   air4thaiValue `json:"O3"`
		CO   air4thaiValue `json:"CO"`
		NO2  air4thaiValue `json:"NO2"`
		SO2  air4thaiValue `json:"SO2"`
		AQI  air4thaiValue `json:"AQI"`
	} `json:"AQILast"`
}

type air4thaiResponse struct {
	Stations []air4thaiStation `json:"stations"`
}

// FetchStations fetches the full station list
func (p *Air4ThaiProvider) FetchStations(ctx context.Context) ([]models.Station, error) {
	body, err := p.get(ctx, url.Values{})
	if err != nil {
		return nil, err
	}

	var response air4thaiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	stations := make([]models.Station, 0, len(response.Stations))
	for _, s := range response.Stations {
		stations = append(stations, s.toStation())
	}

	return stations, nil
}

// FetchReading fetches the latest reading for a single station
func (p *Air4ThaiProvider) FetchReading(ctx context.Context, stationID string) (models.Reading, error) {
	params := url.Values{}
	params.Add("stationID", stationID)

	body, err := p.get(ctx, params)
	if err != nil {
		return models.Reading{}, err
	}

	// The single-station form answers with the station object itself; some
	// deployments wrap it in the list envelope instead.
	var response struct {
		air4thaiStation
		Stations []air4thaiStation `json:"stations"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return models.Reading{}, fmt.Errorf("failed to parse response: %w", err)
	}

	station := response.air4thaiStation
	if len(response.Stations) > 0 {
		found := false
		for _, s := range response.Stations {
			if s.StationID == stationID {
				station = s
				found = true
				break
			}
		}
		if !found {
			return models.Reading{}, fmt.Errorf("station %s not found in response", stationID)
		}
	}

	if station.StationID != "" && station.StationID != stationID {
		return models.Reading{}, fmt.Errorf("response is for station %s, requested %s", station.StationID, stationID)
	}

	reading := station.toReading()
	reading.Provider = p.Name()
	reading.StationID = stationID
	return reading, nil
}

// get performs a GET against the base URL and returns the body of a 200 response
func (p *Air4ThaiProvider) get(ctx context.Context, params url.Values) ([]byte, error) {
	endpoint := p.baseURL
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func (s air4thaiStation) toStation() models.Station {
	return models.Station{
		ID:          s.StationID,
		NameTH:      s.NameTH,
		NameEN:      s.NameEN,
		AreaTH:      s.AreaTH,
		AreaEN:      s.AreaEN,
		StationType: s.StationType,
		Lat:         string(s.Lat),
		Long:        string(s.Long),
	}
}

func (s air4thaiStation) toReading() models.Reading {
	reading := models.Reading{
		StationID: s.StationID,
		Timestamp: time.Now(),
	}
	if s.AQILast == nil {
		return reading
	}

	last := s.AQILast
	reading.Date = last.Date
	reading.Time = last.Time
	reading.AQI = last.AQI.measurement()
	reading.DominantParam = last.AQI.Param
	reading.PM25 = last.PM25.measurement()
	reading.PM10 = last.PM10.measurement()
	reading.O3 = last.O3.measurement()
	reading.CO = last.CO.measurement()
	reading.NO2 = last.NO2.measurement()
	reading.SO2 = last.SO2.measurement()

	return reading
}

func (v air4thaiValue) measurement() models.Measurement {
	m := models.Measurement{}

	if value, ok := parseValue(string(v.Value)); ok {
		m.Value = &value
	}
	if aqi, ok := parseValue(string(v.AQI)); ok {
		i := int(aqi)
		m.AQI = &i
	}
	if m.Present() {
		m.ColorID = string(v.ColorID)
	}

	return m
}

// parseValue parses a reported number. The API marks missing values with
// -1, -999, "N/A" or an empty string.
func parseValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "N/A") || raw == "-" {
		return 0, false
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || value < 0 {
		return 0, false
	}

	return value, true
}

// Verify that the provider implements the required interfaces
var (
	_ StationDirectory = (*Air4ThaiProvider)(nil)
	_ ReadingSource    = (*Air4ThaiProvider)(nil)
)
