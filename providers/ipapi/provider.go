package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"airwidget-service/datasource"
	"airwidget-service/models"
	"airwidget-service/resolver"
)

// DefaultURL is the free ip-api.com JSON endpoint
const DefaultURL = "http://ip-api.com/json"

// IPLocation is a LocationProvider that geolocates the caller's public IP address
type IPLocation struct {
	endpoint string
	client   *http.Client
}

// Ensure IPLocation implements datasource.LocationProvider
var _ datasource.LocationProvider = (*IPLocation)(nil)

// NewIPLocation creates a new ip-api.com location provider
func NewIPLocation(endpoint string) *IPLocation {
	return NewIPLocationWithClient(endpoint, &http.Client{
		Timeout: 5 * time.Second,
	})
}

// NewIPLocationWithClient creates a provider with a custom HTTP client
func NewIPLocationWithClient(endpoint string, client *http.Client) *IPLocation {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	return &IPLocation{
		endpoint: endpoint,
		client:   client,
	}
}

// Name returns the name of this provider
func (p *IPLocation) Name() string {
	return "ip-api"
}

// Response represents the API response structure
type Response struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// Locate geolocates the caller. Every failure is reported as LocationUnavailable.
func (p *IPLocation) Locate(ctx context.Context) (models.Coordinate, error) {
	params := url.Values{}
	params.Add("fields", "status,message,lat,lon,city,country")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return models.Coordinate{}, unavailable(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.Coordinate{}, unavailable(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinate{}, unavailable(fmt.Errorf("API returned non-200 status: %d", resp.StatusCode))
	}

	rawData, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinate{}, unavailable(fmt.Errorf("failed to read response body: %w", err))
	}

	var ipResp Response
	if err := json.Unmarshal(rawData, &ipResp); err != nil {
		return models.Coordinate{}, unavailable(fmt.Errorf("failed to parse API response: %w", err))
	}

	if ipResp.Status != "success" {
		return models.Coordinate{}, unavailable(fmt.Errorf("lookup %s: %s", ipResp.Status, ipResp.Message))
	}

	c := models.Coordinate{Latitude: ipResp.Lat, Longitude: ipResp.Lon}
	if !c.Valid() {
		return models.Coordinate{}, unavailable(fmt.Errorf("coordinate %s out of range", c))
	}

	return c, nil
}

func unavailable(err error) error {
	return resolver.NewError(resolver.KindLocationUnavailable, err, "ip geolocation failed")
}
