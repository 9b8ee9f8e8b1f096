package resolver

import (
	"errors"
	"fmt"
)

// Kind classifies a resolution failure
type Kind int

const (
	KindUnknown Kind = iota
	KindLocationUnavailable
	KindNoStationsAvailable
	KindNoStationsInRange
	KindNoReadingAvailable
)

func (k Kind) String() string {
	switch k {
	case KindLocationUnavailable:
		return "LocationUnavailable"
	case KindNoStationsAvailable:
		return "NoStationsAvailable"
	case KindNoStationsInRange:
		return "NoStationsInRange"
	case KindNoReadingAvailable:
		return "NoReadingAvailable"
	default:
		return "Unknown"
	}
}

// Error is a categorized failure surfaced to the calling layer
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Sentinels for errors.Is; they match any *Error of the same kind
var (
	ErrLocationUnavailable = &Error{Kind: KindLocationUnavailable}
	ErrNoStationsAvailable = &Error{Kind: KindNoStationsAvailable}
	ErrNoStationsInRange   = &Error{Kind: KindNoStationsInRange}
	ErrNoReadingAvailable  = &Error{Kind: KindNoReadingAvailable}
)

// NewError creates an error of the given kind wrapping err (which may be nil)
func NewError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
		Err:  err,
	}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind so callers can branch with errors.Is(err, ErrNoStationsInRange)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}
