package update_loyalty_plan

import (
	"context"

	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
)

type PetShopService interface {
	UpsertLoyaltyPlan(ctx context.Context, req *models.UpsertLoyaltyPlanRequest) (*models.LoyaltyPlanResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
