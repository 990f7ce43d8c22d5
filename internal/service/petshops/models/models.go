package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// UpdateWorkingHoursRequest запрос на замену рабочих часов.
// Ключ - номер дня недели (0 - воскресенье), отсутствующий день означает выходной
type UpdateWorkingHoursRequest struct {
	UserID       uuid.UUID           `json:"-"`
	PetShopID    uuid.UUID           `json:"-"`
	WorkingHours domain.WorkingHours `json:"workingHours"`
}

// UpsertLoyaltyPlanRequest запрос на создание или изменение программы лояльности
type UpsertLoyaltyPlanRequest struct {
	UserID        uuid.UUID       `json:"-"`
	PetShopID     uuid.UUID       `json:"-"`
	PointsPerReal decimal.Decimal `json:"pointsPerReal"`
}

// SettingsResponse настройки магазина, влияющие на запись
type SettingsResponse struct {
	PetShopID    uuid.UUID            `json:"petShopId"`
	Timezone     string               `json:"timezone"`
	WorkingHours domain.WorkingHours  `json:"workingHours"`
	LoyaltyPlan  *LoyaltyPlanResponse `json:"loyaltyPlan,omitempty"`
}

// LoyaltyPlanResponse ответ с программой лояльности
type LoyaltyPlanResponse struct {
	ID            uuid.UUID       `json:"id"`
	PetShopID     uuid.UUID       `json:"petShopId"`
	PointsPerReal decimal.Decimal `json:"pointsPerReal"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// FromDomainLoyaltyPlan конвертирует domain модель в DTO
func FromDomainLoyaltyPlan(p *domain.LoyaltyPlan) *LoyaltyPlanResponse {
	if p == nil {
		return nil
	}
	return &LoyaltyPlanResponse{
		ID:            p.ID,
		PetShopID:     p.PetShopID,
		PointsPerReal: p.PointsPerReal,
		UpdatedAt:     p.UpdatedAt,
	}
}
