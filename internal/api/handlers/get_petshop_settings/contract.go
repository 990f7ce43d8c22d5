package get_petshop_settings

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
)

type PetShopService interface {
	GetSettings(ctx context.Context, petShopID uuid.UUID) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
