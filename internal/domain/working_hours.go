package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PetShopService/pkg/types"
)

// TimeInterval represents an open interval of a working day
type TimeInterval struct {
	Start types.TimeString `json:"start"`
	End   types.TimeString `json:"end"`
}

// Contains returns true if [from, to] fits into the interval.
// Both bounds are offsets from local midnight
func (i TimeInterval) Contains(from, to time.Duration) bool {
	return from >= minutesOf(i.Start) && to <= minutesOf(i.End)
}

func minutesOf(t types.TimeString) time.Duration {
	return time.Duration(t.Minutes()) * time.Minute
}

// WorkingHours maps a weekday to its ordered list of open intervals.
// A missing weekday means the shop is closed on that day
type WorkingHours map[time.Weekday][]TimeInterval

// IntervalsFor returns open intervals for the weekday
func (w WorkingHours) IntervalsFor(day time.Weekday) []TimeInterval {
	if w == nil {
		return nil
	}
	return w[day]
}

// Validate checks weekdays, interval count, format and ordering
func (w WorkingHours) Validate() error {
	for day, intervals := range w {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: unknown weekday %d", ErrInvalidWorkingHours, day)
		}
		if len(intervals) < MinIntervalsPerDay || len(intervals) > MaxIntervalsPerDay {
			return fmt.Errorf("%w: %s must have %d-%d intervals, got %d",
				ErrInvalidWorkingHours, day, MinIntervalsPerDay, MaxIntervalsPerDay, len(intervals))
		}

		for idx, interval := range intervals {
			if err := interval.Start.Validate(); err != nil {
				return fmt.Errorf("%w: %s interval %d start: %v", ErrInvalidWorkingHours, day, idx, err)
			}
			if err := interval.End.Validate(); err != nil {
				return fmt.Errorf("%w: %s interval %d end: %v", ErrInvalidWorkingHours, day, idx, err)
			}
			if !interval.Start.IsBefore(interval.End) {
				return fmt.Errorf("%w: %s interval %d start %s is not before end %s",
					ErrInvalidWorkingHours, day, idx, interval.Start, interval.End)
			}
			if idx > 0 && interval.Start.IsBefore(intervals[idx-1].End) {
				return fmt.Errorf("%w: %s intervals must be ordered and disjoint", ErrInvalidWorkingHours, day)
			}
		}
	}
	return nil
}

// Scan реализует sql.Scanner для JSONB колонки
func (w *WorkingHours) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("working hours: unsupported type %T", src)
	}

	parsed := WorkingHours{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("working hours: %w", err)
	}
	*w = parsed
	return nil
}

// Value реализует driver.Valuer, ключи сериализуются как "0".."6"
func (w WorkingHours) Value() (driver.Value, error) {
	if w == nil {
		return nil, nil
	}
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return data, nil
}
