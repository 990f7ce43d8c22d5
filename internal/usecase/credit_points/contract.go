package credit_points

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// PaymentRepository интерфейс чтения платежей
type PaymentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
}

// AppointmentRepository интерфейс чтения записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
}

// LoyaltyPlanRepository интерфейс чтения программы лояльности магазина
type LoyaltyPlanRepository interface {
	GetLoyaltyPlan(ctx context.Context, petShopID uuid.UUID) (*domain.LoyaltyPlan, error)
}

// LoyaltyLedger интерфейс журнала начислений и баланса баллов
type LoyaltyLedger interface {
	// RecordAccrual возвращает false, если начисление по записи уже было
	RecordAccrual(ctx context.Context, appointmentID, paymentID uuid.UUID, points int64) (bool, error)
	CreditPoints(ctx context.Context, clientID, petShopID uuid.UUID, amount int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчик начисленных баллов
type Metrics interface {
	PointsCredited(petShopID string, points int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
