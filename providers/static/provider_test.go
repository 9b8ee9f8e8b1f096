package static

import (
	"context"
	"errors"
	"testing"

	"airwidget-service/resolver"
)

func TestStaticLocation(t *testing.T) {
	c, err := NewStaticLocation(13.7563, 100.5018).Locate(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Latitude != 13.7563 || c.Longitude != 100.5018 {
		t.Errorf("unexpected coordinate %v", c)
	}
}

func TestStaticLocationUnset(t *testing.T) {
	var provider *StaticLocation

	_, err := provider.Locate(context.Background())
	if !errors.Is(err, resolver.ErrLocationUnavailable) {
		t.Errorf("expected LocationUnavailable, got %v", err)
	}
}

func TestStaticLocationOutOfRange(t *testing.T) {
	_, err := NewStaticLocation(95, 100).Locate(context.Background())
	if !errors.Is(err, resolver.ErrLocationUnavailable) {
		t.Errorf("expected LocationUnavailable, got %v", err)
	}
}
