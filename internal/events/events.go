package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// Routing keys topic exchange
const (
	RKAppointmentConfirmed = "appointment.confirmed"
	RKAppointmentCancelled = "appointment.cancelled"
	RKPaymentSucceeded     = "payment.succeeded"
)

// AppointmentEvent событие об изменении статуса записи
type AppointmentEvent struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PetShopID     uuid.UUID `json:"pet_shop_id"`
	ClientID      uuid.UUID `json:"client_id"`
	PetID         uuid.UUID `json:"pet_id"`
	Status        string    `json:"status"`
	PaymentType   string    `json:"payment_type"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentSucceeded событие внешнего платежного сервиса
type PaymentSucceeded struct {
	AppointmentID uuid.UUID `json:"appointment_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
}

// NewAppointmentEvent собирает событие из записи
func NewAppointmentEvent(appt *domain.Appointment, now time.Time) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID: appt.ID,
		PetShopID:     appt.PetShopID,
		ClientID:      appt.ClientID,
		PetID:         appt.PetID,
		Status:        string(appt.Status),
		PaymentType:   string(appt.PaymentType),
		Start:         appt.StartTime,
		End:           appt.EndTime,
		OccurredAt:    now,
	}
}

// Unmarshal разбирает тело сообщения в событие T
func Unmarshal[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return v, nil
}
