package petshops

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// PetShopRepository интерфейс репозитория зоомагазинов и их программ лояльности
type PetShopRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PetShop, error)
	UpdateWorkingHours(ctx context.Context, id uuid.UUID, wh domain.WorkingHours) error
	GetLoyaltyPlan(ctx context.Context, petShopID uuid.UUID) (*domain.LoyaltyPlan, error)
	UpsertLoyaltyPlan(ctx context.Context, plan *domain.LoyaltyPlan) (*domain.LoyaltyPlan, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
