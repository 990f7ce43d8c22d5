package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID uuid.UUID, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListByPetShop(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error)
	Save(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
}

// PetShopRepository интерфейс репозитория зоомагазинов
type PetShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PetShop, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события об отмене
type EventPublisher interface {
	AppointmentCancelled(ctx context.Context, appt *domain.Appointment) error
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
