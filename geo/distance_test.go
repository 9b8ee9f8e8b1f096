package geo

import (
	"math"
	"testing"

	"airwidget-service/models"
)

var (
	bangkok   = models.Coordinate{Latitude: 13.7563, Longitude: 100.5018}
	chiangMai = models.Coordinate{Latitude: 18.7883, Longitude: 98.9853}
)

func TestDistanceKmSamePoint(t *testing.T) {
	points := []models.Coordinate{
		bangkok,
		chiangMai,
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
	}

	for _, p := range points {
		if d := DistanceKm(p, p); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %f, want 0", p, p, d)
		}
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][2]models.Coordinate{
		{bangkok, chiangMai},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: 51.5074, Longitude: -0.1278}},
		{{Latitude: 10, Longitude: 179.9}, {Latitude: 10, Longitude: -179.9}},
	}

	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1])
		ba := DistanceKm(p[1], p[0])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance for %v: %f vs %f", p, ab, ba)
		}
	}
}

func TestDistanceKmBangkokChiangMai(t *testing.T) {
	d := DistanceKm(bangkok, chiangMai)
	if math.Abs(d-583) > 5 {
		t.Errorf("Bangkok-Chiang Mai distance = %.1f km, want 583 ± 5 km", d)
	}
}

func TestDistanceKmAcrossAntimeridian(t *testing.T) {
	a := models.Coordinate{Latitude: 0, Longitude: 179.5}
	b := models.Coordinate{Latitude: 0, Longitude: -179.5}

	// One degree of longitude on the equator is about 111.2 km
	if d := DistanceKm(a, b); math.Abs(d-111.19) > 0.5 {
		t.Errorf("antimeridian distance = %.2f km, want about 111.19 km", d)
	}
}

func TestDistanceKmNaN(t *testing.T) {
	bad := models.Coordinate{Latitude: math.NaN(), Longitude: 100}
	if d := DistanceKm(bangkok, bad); !math.IsNaN(d) {
		t.Errorf("expected NaN distance for NaN input, got %f", d)
	}
}
