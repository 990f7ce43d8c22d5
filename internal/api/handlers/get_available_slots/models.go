package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-PetShopService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string         `json:"date"` // "2025-07-22"
	PetShopID       uuid.UUID      `json:"petShopId"`
	ServiceIDs      []uuid.UUID    `json:"serviceIds"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
}

// SlotResponse свободный слот
type SlotResponse struct {
	StartTime       string `json:"startTime"` // "10:00", местное время магазина
	EndTime         string `json:"endTime"`
	StartsAt        string `json:"startsAt"` // RFC 3339, передается в POST /appointments
	DurationMinutes int    `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			StartsAt:        s.StartsAt.Format(time.RFC3339),
			DurationMinutes: s.DurationMinutes,
		})
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		PetShopID:       resp.PetShopID,
		ServiceIDs:      resp.ServiceIDs,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}
}
