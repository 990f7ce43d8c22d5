package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// ValidateWorkingHours проверяет, что запись [start, start+totalMinutes] целиком помещается
// в один из интервалов рабочего дня. start должен быть уже переведен в часовой пояс магазина.
// Конец берется как абсолютный момент start+totalMinutes и сравнивается по местным часам,
// так же как он сохраняется в end_time
func ValidateWorkingHours(start time.Time, totalMinutes int, wh domain.WorkingHours) error {
	if totalMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d minutes", domain.ErrOutsideWorkingHours, totalMinutes)
	}

	day := start.Weekday()
	intervals := wh.IntervalsFor(day)
	if len(intervals) == 0 {
		return fmt.Errorf("%w: closed on %s", domain.ErrOutsideWorkingHours, day)
	}

	end := start.Add(time.Duration(totalMinutes) * time.Minute)
	from := clockOf(start)
	to := clockOf(end) + time.Duration(daysBetween(start, end))*24*time.Hour

	// Запись через полночь не помещается ни в один интервал
	if to > 24*time.Hour {
		return fmt.Errorf("%w: appointment crosses midnight", domain.ErrOutsideWorkingHours)
	}

	for _, interval := range intervals {
		if interval.Contains(from, to) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s %s-%s does not fit any interval",
		domain.ErrOutsideWorkingHours, day, start.Format(domain.TimeFormat), end.Format(domain.TimeFormat))
}

// clockOf возвращает время по настенным часам от полуночи
func clockOf(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// daysBetween количество календарных дней между датами a и b в их локации
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
