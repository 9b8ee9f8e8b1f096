package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("AQI_SERVER_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}

	baseURL := flag.String("server", defaultURL, "Base URL of the air-quality service")
	lat := flag.String("lat", "", "Latitude (optional, server-side location provider otherwise)")
	lon := flag.String("lon", "", "Longitude (optional)")
	nearby := flag.Bool("nearby", false, "List nearby stations instead of fetching a reading")
	flag.Parse()

	fmt.Println("Air Quality Client")
	fmt.Println("==================")

	params := url.Values{}
	if *lat != "" || *lon != "" {
		params.Set("lat", *lat)
		params.Set("lon", *lon)
	}

	path := "/api/aqi/nearest"
	if *nearby {
		path = "/api/stations/nearby"
	}
	endpoint := *baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Get(endpoint)
	if err != nil {
		fmt.Printf("Error calling %s: %v\n", endpoint, err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Printf("Error reading response: %v\n", err)
		os.Exit(1)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		fmt.Printf("Unexpected response (status %d): %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed (%v): %v\n", data["kind"], data["error"])
		fmt.Println("Try again later.")
		os.Exit(1)
	}

	if *nearby {
		printStations(data)
		return
	}
	printReading(data)
}

func printStations(data map[string]interface{}) {
	stations, _ := data["stations"].([]interface{})
	fmt.Printf("%v stations near %v\n\n", data["count"], data["location"])
	for _, s := range stations {
		entry, _ := s.(map[string]interface{})
		station, _ := entry["station"].(map[string]interface{})
		fmt.Printf("  %-6v %-45v %6.2f km\n", station["stationID"], station["nameEN"], entry["distanceKm"])
	}
}

func printReading(data map[string]interface{}) {
	ranked, _ := data["station"].(map[string]interface{})
	station, _ := ranked["station"].(map[string]interface{})
	reading, _ := data["reading"].(map[string]interface{})

	fmt.Printf("Station: %v (%v), %.2f km away\n", station["nameEN"], station["stationID"], ranked["distanceKm"])
	fmt.Printf("Updated: %v %v\n", reading["date"], reading["time"])
	fmt.Printf("Level:   %v\n", data["level"])

	// Pretty print the measurements
	prettyJSON, _ := json.MarshalIndent(reading, "", "  ")
	fmt.Printf("\nReading:\n%s\n", string(prettyJSON))

	if attempts, ok := data["attempts"].([]interface{}); ok && len(attempts) > 0 {
		fmt.Printf("\nFell back past %d station(s) without data\n", len(attempts))
	}
}
