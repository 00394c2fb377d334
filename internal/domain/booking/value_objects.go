package booking

import (
	"errors"
	"time"
)

// MaxWindowLength caps a single booking. Longer windows are rejected before
// any duration arithmetic.
const MaxWindowLength = 366 * 24 * time.Hour

var (
	ErrInvalidTimeWindow = errors.New("end time must be after start time")
	ErrWindowTooLong     = errors.New("time window exceeds the maximum booking length")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
)

type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	// Sub saturates for far-apart instants, so compare against an instant instead.
	if end.After(start.Add(MaxWindowLength)) {
		return TimeWindow{}, ErrWindowTooLong
	}
	return TimeWindow{start: start, end: end}, nil
}

func (w TimeWindow) Start() time.Time { return w.start }
func (w TimeWindow) End() time.Time   { return w.end }

func (w TimeWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// BillableHours rounds the window up to whole hours.
func (w TimeWindow) BillableHours() int64 {
	d := w.Duration()
	return int64((d + time.Hour - 1) / time.Hour)
}

// Money is an amount in minor currency units.
type Money struct {
	minor int64
}

func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{minor: minor}, nil
}

func (m Money) Minor() int64 {
	return m.minor
}

func (m Money) Equal(other Money) bool {
	return m.minor == other.minor
}
