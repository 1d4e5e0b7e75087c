// Package availability decides which time windows a bookable item accepts on a
// given calendar date.
package availability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"catalogbooking/internal/apperror"
	"catalogbooking/internal/timeslot"
)

// DefaultWindow applies when an item configures no time slots.
var DefaultWindow = timeslot.Range{Start: 9 * 60, End: 18 * 60}

var weekdays = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Config restricts the days and hours an item can be booked. A nil Days means
// every day; a nil TimeSlots means the default window.
type Config struct {
	Days      []string         `json:"days"`
	TimeSlots []timeslot.Range `json:"time_slots"`
}

// ParseConfig decodes a stored availability configuration. Empty input yields
// a nil config, meaning no restrictions.
func ParseConfig(raw []byte) (*Config, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidConfiguration, err, "malformed availability configuration")
	}
	for _, d := range cfg.Days {
		if !slices.Contains(weekdays, d) {
			return nil, apperror.Newf(apperror.KindInvalidConfiguration, "unknown weekday %q", d)
		}
	}
	for i, w := range cfg.TimeSlots {
		if !w.Valid() {
			return nil, apperror.Newf(apperror.KindInvalidConfiguration, "time slot %d: start must be before end", i)
		}
	}
	return &cfg, nil
}

// OpenOn reports whether the config admits bookings on the weekday of date.
func (c *Config) OpenOn(date time.Time) bool {
	if c == nil || c.Days == nil {
		return true
	}
	return slices.Contains(c.Days, timeslot.DayName(date))
}

// Windows returns the configured windows, or the default window.
func (c *Config) Windows() []timeslot.Range {
	if c == nil || c.TimeSlots == nil {
		return []timeslot.Range{DefaultWindow}
	}
	return slices.Clone(c.TimeSlots)
}

// Day is the availability of an item on one date.
type Day struct {
	Date      time.Time
	Day       string
	Available bool
	Reason    string
	Windows   []timeslot.Range
}

// For computes the allowed windows of date.
func For(cfg *Config, date time.Time) Day {
	day := timeslot.DayName(date)
	if !cfg.OpenOn(date) {
		return Day{
			Date:    date,
			Day:     day,
			Reason:  fmt.Sprintf("Item not available on %s", day),
			Windows: []timeslot.Range{},
		}
	}
	return Day{Date: date, Day: day, Available: true, Windows: cfg.Windows()}
}

// Validate checks a requested range against the day and window rules. Unlike
// For, an item without configured slots accepts any time of day.
func Validate(cfg *Config, date time.Time, requested timeslot.Range) error {
	if cfg == nil {
		return nil
	}
	if !cfg.OpenOn(date) {
		return apperror.Newf(apperror.KindOutsideAvailability, "item not available on %s", timeslot.DayName(date))
	}
	if cfg.TimeSlots == nil {
		return nil
	}
	for _, w := range cfg.TimeSlots {
		if w.Covers(requested) {
			return nil
		}
	}
	return apperror.Newf(apperror.KindOutsideAvailability, "requested time %s is outside available slots", requested)
}
