package domain

// Default scheduling values
const (
	DefaultSlotStepMinutes         = 30
	DefaultMinBookingNoticeMinutes = 0
)

// Business validation constants
const (
	MinIntervalsPerDay    = 1
	MaxIntervalsPerDay    = 4
	MaxServicesPerBooking = 10
	MaxAgendaDays         = 31
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы записей, которые занимают время в расписании
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
