package create_appointment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options ограничения времени бронирования
type Options struct {
	MinNotice          time.Duration // Минимальный срок до начала записи
	AdvanceBookingDays int           // Горизонт бронирования в днях, 0 - без ограничений
}

// Request модель запроса на создание записи
type Request struct {
	ClientID           uuid.UUID   // ID клиента (из заголовка аутентификации)
	PetShopID          uuid.UUID   // ID зоомагазина
	PetID              uuid.UUID   // ID питомца
	ServiceIDs         []uuid.UUID // Услуги, порядок сохраняется
	StartTime          time.Time   // Момент начала
	PaymentType        string      // MONETARY, SUBSCRIPTION_CREDIT, LOYALTY_CREDIT
	LoyaltyPromotionID *uuid.UUID  // Обязателен для LOYALTY_CREDIT
}

// Response модель ответа с подтвержденной записью
type Response struct {
	ID                 uuid.UUID
	PetShopID          uuid.UUID
	PetID              uuid.UUID
	ClientID           uuid.UUID
	ServiceIDs         []uuid.UUID
	StartTime          time.Time // В часовом поясе магазина
	EndTime            time.Time
	DurationMinutes    int
	Status             string
	PaymentType        string
	LoyaltyPromotionID *uuid.UUID
	TotalPrice         decimal.Decimal // Сумма к оплате для MONETARY, иначе 0
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
