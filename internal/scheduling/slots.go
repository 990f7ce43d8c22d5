package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// SlotQuery параметры поиска свободных слотов на один день
type SlotQuery struct {
	PetShopID    uuid.UUID
	Day          time.Time // любая точка дня в часовом поясе магазина
	TotalMinutes int
	StepMinutes  int
	NotBefore    time.Time // слоты раньше этого момента не предлагаются
	WorkingHours domain.WorkingHours
	Existing     []*domain.Appointment
}

// AvailableSlots перебирает начала с шагом StepMinutes внутри каждого рабочего интервала
// и оставляет те, что проходят ValidateWorkingHours и FindConflict
func AvailableSlots(q SlotQuery) []domain.AvailableSlot {
	if q.TotalMinutes <= 0 {
		return nil
	}
	step := q.StepMinutes
	if step <= 0 {
		step = domain.DefaultSlotStepMinutes
	}

	y, mo, d := q.Day.Date()
	loc := q.Day.Location()
	duration := time.Duration(q.TotalMinutes) * time.Minute

	var slots []domain.AvailableSlot
	for _, interval := range q.WorkingHours.IntervalsFor(q.Day.Weekday()) {
		for m := interval.Start.Minutes(); m+q.TotalMinutes <= interval.End.Minutes(); m += step {
			start := time.Date(y, mo, d, m/60, m%60, 0, 0, loc)
			end := start.Add(duration)

			if !q.NotBefore.IsZero() && start.Before(q.NotBefore) {
				continue
			}
			if ValidateWorkingHours(start, q.TotalMinutes, q.WorkingHours) != nil {
				continue
			}
			if FindConflict(q.PetShopID, start, end, q.Existing) != nil {
				continue
			}

			slots = append(slots, domain.AvailableSlot{
				StartTime:       start,
				EndTime:         end,
				DurationMinutes: q.TotalMinutes,
			})
		}
	}
	return slots
}
