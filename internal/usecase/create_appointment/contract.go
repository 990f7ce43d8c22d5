package create_appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/internal/payment"
)

// AppointmentRepository интерфейс хранилища записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	Save(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	ListByPetShop(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error)
	LockPetShopSchedule(ctx context.Context, petShopID uuid.UUID) error
}

// PetShopRepository интерфейс репозитория зоомагазинов
type PetShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PetShop, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, petShopID uuid.UUID, ids []uuid.UUID) ([]*domain.Service, error)
}

// PaymentProcessor реестр стратегий оплаты
type PaymentProcessor interface {
	Process(ctx context.Context, appt *domain.Appointment, pc payment.Context) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события о записях после коммита
type EventPublisher interface {
	AppointmentConfirmed(ctx context.Context, appt *domain.Appointment) error
}

// Metrics счетчики созданных и отклоненных записей
type Metrics interface {
	AppointmentCreated(paymentType string)
	AppointmentRejected(reason string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
