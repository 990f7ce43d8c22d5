package get_available_slots

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListByPetShop получает записи магазина, пересекающиеся с интервалом фильтра
	ListByPetShop(ctx context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error)
}

// PetShopRepository интерфейс репозитория зоомагазинов
type PetShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PetShop, error)
}

// ServiceRepository интерфейс каталога услуг
type ServiceRepository interface {
	GetByIDs(ctx context.Context, petShopID uuid.UUID, ids []uuid.UUID) ([]*domain.Service, error)
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
