package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// FindConflict возвращает первую активную запись магазина petShopID, пересекающуюся
// с полуоткрытым интервалом [start, end), или nil.
// Отмененные записи и записи других магазинов пропускаются
func FindConflict(petShopID uuid.UUID, start, end time.Time, existing []*domain.Appointment) *domain.Appointment {
	for _, appt := range existing {
		if appt == nil || appt.PetShopID != petShopID || !appt.IsActive() {
			continue
		}
		if appt.Overlaps(start, end) {
			return appt
		}
	}
	return nil
}

// ConflictError оборачивает найденный конфликт в ScheduleConflictError
func ConflictError(petShopID uuid.UUID, start, end time.Time, existing []*domain.Appointment) error {
	if conflict := FindConflict(petShopID, start, end, existing); conflict != nil {
		return &domain.ScheduleConflictError{ExistingAppointmentID: conflict.ID}
	}
	return nil
}
