package domain

import "time"

// AvailableSlot represents a start time at which the requested services fit
type AvailableSlot struct {
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
}
