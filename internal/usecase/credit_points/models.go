package credit_points

import "github.com/google/uuid"

// Request событие успешной оплаты
type Request struct {
	AppointmentID uuid.UUID
	PaymentID     uuid.UUID
}

// Response результат начисления
type Response struct {
	Points          int64 // Начислено баллов, 0 если начисления не было
	AlreadyCredited bool  // Повторное событие по той же записи
}
