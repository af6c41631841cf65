package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a 24-hour wall-clock time of day with minute precision,
// stored and serialised as "HH:MM". The zero value means "not set".
type Clock string

// ParseClock accepts "HH:MM" or "HH:MM:SS"; seconds are dropped.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockOf(t), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", s)
}

// ClockOf returns the wall-clock time of t in t's location.
func ClockOf(t time.Time) Clock {
	return ClockFromMinutes(t.Hour()*60 + t.Minute())
}

// ClockFromMinutes builds a Clock from minutes since midnight.
func ClockFromMinutes(m int) Clock {
	return Clock(fmt.Sprintf("%02d:%02d", m/60, m%60))
}

func (c Clock) IsZero() bool { return c == "" }

// Minutes returns minutes since midnight, or -1 if c is unset or malformed.
func (c Clock) Minutes() int {
	h, m, ok := strings.Cut(string(c), ":")
	if !ok {
		return -1
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return -1
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return -1
	}
	return hh*60 + mm
}

// Before reports whether c is strictly earlier in the day than o.
func (c Clock) Before(o Clock) bool { return c.Minutes() < o.Minutes() }

func (c Clock) String() string { return string(c) }
