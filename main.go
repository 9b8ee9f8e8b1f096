package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airwidget-service/api"
	"airwidget-service/datasource"
	"airwidget-service/providers/ipapi"
	"airwidget-service/providers/static"
	"airwidget-service/resolver"
	"airwidget-service/service"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	port := flag.Int("port", 8080, "Port to run the server on")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable station API rate limiting")
	flag.Parse()

	// Load configuration
	config, err := datasource.LoadConfig(*configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: %s not found, using default configuration", *configFile)
		config = datasource.DefaultConfig()
	} else if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.ApplyEnv(); err != nil {
		log.Fatalf("Invalid environment configuration: %v", err)
	}

	// Station directory and reading source share one provider
	air4thai := datasource.NewAir4ThaiProvider(config.Air4Thai.BaseURL, config.Timeout())
	var directory datasource.StationDirectory = air4thai
	var readings datasource.ReadingSource = air4thai

	if *enableRateLimiting {
		limited := datasource.NewRateLimitedProvider(air4thai,
			config.Air4Thai.DirectoryRPS, config.Air4Thai.ReadingRPS, config.Air4Thai.Burst)
		directory = limited
		readings = limited
		log.Println("Applied rate limiting to Air4Thai provider")
	}

	var locator datasource.LocationProvider
	switch config.Location.Provider {
	case datasource.LocationStatic:
		locator = static.NewStaticLocation(*config.Location.Latitude, *config.Location.Longitude)
	case datasource.LocationIPAPI:
		locator = ipapi.NewIPLocation(config.Location.IPAPIURL)
	}
	log.Printf("Using %s location provider", locator.Name())

	r := resolver.New(config.Resolver)
	rc := r.Config()
	log.Printf("Resolver: mode=%s maxDistance=%.1fkm exactMatch=%.2fkm", rc.Mode, rc.MaxDistanceKm, rc.ExactMatchKm)

	svc := service.New(locator, directory, readings, r)
	svc.SetFetchTimeout(config.Timeout())

	server := api.NewServer(svc, *port)

	// Set up channel for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdownChan
	log.Printf("Shutting down due to %s signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Shutdown complete")
}
