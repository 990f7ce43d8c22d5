package petshops

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
)

// Service сервис настроек зоомагазина: рабочие часы и программа лояльности
type Service struct {
	petShopRepo PetShopRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(petShopRepo PetShopRepository, logger Logger) *Service {
	return &Service{
		petShopRepo: petShopRepo,
		logger:      logger,
	}
}

// GetSettings получает рабочие часы и программу лояльности магазина
func (s *Service) GetSettings(ctx context.Context, petShopID uuid.UUID) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: petShop=%s", petShopID)

	shop, err := s.getPetShop(ctx, "GetSettings", petShopID)
	if err != nil {
		return nil, err
	}

	plan, err := s.petShopRepo.GetLoyaltyPlan(ctx, petShopID)
	if err != nil && !errors.Is(err, petshopRepo.ErrLoyaltyPlanNotFound) {
		s.logger.Error("GetSettings: failed to get loyalty plan of petShop=%s: %v", petShopID, err)
		return nil, fmt.Errorf("%w: GetSettings - failed to get loyalty plan: %v", ErrInternal, err)
	}

	return &models.SettingsResponse{
		PetShopID:    shop.ID,
		Timezone:     shop.Timezone,
		WorkingHours: shop.WorkingHours,
		LoyaltyPlan:  models.FromDomainLoyaltyPlan(plan),
	}, nil
}

// UpdateWorkingHours заменяет рабочие часы магазина.
// Доступно только владельцу, новые часы проходят полную валидацию
func (s *Service) UpdateWorkingHours(ctx context.Context, req *models.UpdateWorkingHoursRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateWorkingHours: petShop=%s, days=%d, user=%s", req.PetShopID, len(req.WorkingHours), req.UserID)

	// 1. Валидируем входные данные
	if err := req.WorkingHours.Validate(); err != nil {
		s.logger.Warn("UpdateWorkingHours: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем права доступа
	shop, err := s.checkOwnerAccess(ctx, "UpdateWorkingHours", req.PetShopID, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Сохраняем
	if err := s.petShopRepo.UpdateWorkingHours(ctx, shop.ID, req.WorkingHours); err != nil {
		if errors.Is(err, petshopRepo.ErrPetShopNotFound) {
			return nil, &domain.NotFoundError{Resource: "pet shop", ID: shop.ID.String()}
		}
		s.logger.Error("UpdateWorkingHours: repository error for petShop=%s: %v", shop.ID, err)
		return nil, fmt.Errorf("%w: UpdateWorkingHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateWorkingHours: successfully updated working hours of petShop=%s", shop.ID)
	return &models.SettingsResponse{
		PetShopID:    shop.ID,
		Timezone:     shop.Timezone,
		WorkingHours: req.WorkingHours,
	}, nil
}

// UpsertLoyaltyPlan создает программу лояльности магазина или меняет pointsPerReal.
// Ноль отключает начисление, отрицательные значения запрещены
func (s *Service) UpsertLoyaltyPlan(ctx context.Context, req *models.UpsertLoyaltyPlanRequest) (*models.LoyaltyPlanResponse, error) {
	s.logger.Info("UpsertLoyaltyPlan: petShop=%s, pointsPerReal=%s, user=%s", req.PetShopID, req.PointsPerReal, req.UserID)

	if req.PointsPerReal.IsNegative() {
		s.logger.Warn("UpsertLoyaltyPlan: negative pointsPerReal=%s", req.PointsPerReal)
		return nil, fmt.Errorf("%w: pointsPerReal must not be negative", domain.ErrInvalidInput)
	}

	shop, err := s.checkOwnerAccess(ctx, "UpsertLoyaltyPlan", req.PetShopID, req.UserID)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertLoyaltyPlan - failed to generate id: %v", ErrInternal, err)
	}

	plan, err := s.petShopRepo.UpsertLoyaltyPlan(ctx, &domain.LoyaltyPlan{
		ID:            id,
		PetShopID:     shop.ID,
		PointsPerReal: req.PointsPerReal,
	})
	if err != nil {
		s.logger.Error("UpsertLoyaltyPlan: repository error for petShop=%s: %v", shop.ID, err)
		return nil, fmt.Errorf("%w: UpsertLoyaltyPlan - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertLoyaltyPlan: loyalty plan id=%s of petShop=%s saved", plan.ID, shop.ID)
	return models.FromDomainLoyaltyPlan(plan), nil
}

// Вспомогательные методы

func (s *Service) getPetShop(ctx context.Context, op string, petShopID uuid.UUID) (*domain.PetShop, error) {
	shop, err := s.petShopRepo.GetByID(ctx, petShopID)
	if err != nil {
		if errors.Is(err, petshopRepo.ErrPetShopNotFound) {
			s.logger.Warn("%s: pet shop id=%s not found", op, petShopID)
			return nil, &domain.NotFoundError{Resource: "pet shop", ID: petShopID.String()}
		}
		s.logger.Error("%s: failed to get pet shop id=%s: %v", op, petShopID, err)
		return nil, fmt.Errorf("%w: %s - failed to get pet shop: %v", ErrInternal, op, err)
	}
	return shop, nil
}

func (s *Service) checkOwnerAccess(ctx context.Context, op string, petShopID, userID uuid.UUID) (*domain.PetShop, error) {
	shop, err := s.getPetShop(ctx, op, petShopID)
	if err != nil {
		return nil, err
	}
	if !shop.IsOwnedBy(userID) {
		s.logger.Warn("%s: user=%s is not the owner of petShop=%s", op, userID, petShopID)
		return nil, ErrAccessDenied
	}
	return shop, nil
}
