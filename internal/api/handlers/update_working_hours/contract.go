package update_working_hours

import (
	"context"

	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
)

type PetShopService interface {
	UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
