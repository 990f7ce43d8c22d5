package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// Strategy резервирует или списывает ресурс оплаты для записи.
// Вызывается внутри транзакции записи: транзакция передается через ctx
type Strategy interface {
	Process(ctx context.Context, appt *domain.Appointment, pc Context) error
}

// Context данные, которые нужны стратегиям помимо самой записи
type Context struct {
	Services           []*domain.Service
	LoyaltyPromotionID *uuid.UUID
}

// SubscriptionCreditLedger реестр кредитов подписок
type SubscriptionCreditLedger interface {
	FindActiveCreditForUpdate(ctx context.Context, clientID, serviceID uuid.UUID) (*domain.SubscriptionCredit, error)
	DebitCredit(ctx context.Context, creditID uuid.UUID, amount int) error
}

// LoyaltyLedger реестр баллов лояльности и акций
type LoyaltyLedger interface {
	GetPromotionByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyPromotion, error)
	GetPointsForUpdate(ctx context.Context, clientID, petShopID uuid.UUID) (*domain.ClientLoyaltyPoints, error)
	DebitPoints(ctx context.Context, clientID, petShopID uuid.UUID, amount int64) error
}
