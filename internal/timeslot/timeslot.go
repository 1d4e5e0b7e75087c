// Package timeslot holds the time-of-day and calendar-date primitives shared by
// pricing, availability and booking admission.
package timeslot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	MinutesPerDay  = 24 * 60
	minutesPerHour = 60
)

// Clock is a time of day in minutes since midnight, rendered as HH:MM.
type Clock int

// ParseClock parses a 24-hour HH:MM string. Single-digit hours are accepted.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: minute out of range", s)
	}
	return Clock(h*minutesPerHour + m), nil
}

// MustClock is ParseClock for literals known to be valid.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/minutesPerHour, int(c)%minutesPerHour)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("time must be an HH:MM string: %w", err)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Range is a half-open time-of-day interval [Start, End).
type Range struct {
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

func (r Range) Valid() bool {
	return r.Start >= 0 && r.End <= MinutesPerDay && r.Start < r.End
}

// Contains reports whether c falls inside [Start, End).
func (r Range) Contains(c Clock) bool {
	return r.Start <= c && c < r.End
}

// Covers reports whether other lies entirely within r.
func (r Range) Covers(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

func (r Range) Minutes() int {
	return int(r.End - r.Start)
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Ranges that only
// touch at an endpoint do not overlap.
func Overlaps(s1, e1, s2, e2 Clock) bool {
	return s1 < e2 && e1 > s2
}

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC so the
// weekday is the one of the date as written, with no timezone shift.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// DayName returns the English weekday name of a calendar date, e.g. "Monday".
func DayName(date time.Time) string {
	return date.Weekday().String()
}
