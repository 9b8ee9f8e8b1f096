package resolver

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("refresh: %w", NewError(KindLocationUnavailable, cause, "locate user"))

	if !errors.Is(err, ErrLocationUnavailable) {
		t.Error("expected wrapped error to match ErrLocationUnavailable")
	}
	if errors.Is(err, ErrNoReadingAvailable) {
		t.Error("did not expect a match on a different kind")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to stay reachable")
	}
	if KindOf(err) != KindLocationUnavailable {
		t.Errorf("KindOf = %v", KindOf(err))
	}
	if KindOf(cause) != KindUnknown {
		t.Errorf("KindOf(plain error) = %v, want Unknown", KindOf(cause))
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{ErrNoStationsInRange, "NoStationsInRange"},
		{NewError(KindNoStationsAvailable, nil, "no stations available"), "no stations available"},
		{NewError(KindNoReadingAvailable, errors.New("boom"), "no reading from %d stations", 3), "no reading from 3 stations: boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
