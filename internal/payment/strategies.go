package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	loyaltyRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/loyalty"
	subscriptionRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/subscription"
)

// MonetaryStrategy оплата деньгами: на момент записи резервировать нечего,
// расчет идет через внешний платежный сервис
type MonetaryStrategy struct{}

func (MonetaryStrategy) Process(context.Context, *domain.Appointment, Context) error {
	return nil
}

// SubscriptionCreditStrategy списывает по одному кредиту подписки на каждую услугу
type SubscriptionCreditStrategy struct {
	credits SubscriptionCreditLedger
}

func NewSubscriptionCreditStrategy(credits SubscriptionCreditLedger) *SubscriptionCreditStrategy {
	return &SubscriptionCreditStrategy{credits: credits}
}

func (s *SubscriptionCreditStrategy) Process(ctx context.Context, appt *domain.Appointment, pc Context) error {
	for _, service := range pc.Services {
		insufficient := &domain.InsufficientCreditsError{ServiceID: service.ID, ServiceName: service.Name}

		// Строка кредита блокируется до конца транзакции
		credit, err := s.credits.FindActiveCreditForUpdate(ctx, appt.ClientID, service.ID)
		if err != nil {
			if errors.Is(err, subscriptionRepo.ErrCreditNotFound) {
				return insufficient
			}
			return fmt.Errorf("%w: find credit for service %s: %v", ErrLedger, service.ID, err)
		}

		if !credit.HasCredits(1) {
			return insufficient
		}

		if err := s.credits.DebitCredit(ctx, credit.ID, 1); err != nil {
			if errors.Is(err, subscriptionRepo.ErrInsufficientCredits) {
				return insufficient
			}
			return fmt.Errorf("%w: debit credit %s: %v", ErrLedger, credit.ID, err)
		}
	}
	return nil
}

// LoyaltyCreditStrategy списывает pointsNeeded акции один раз на всю запись
type LoyaltyCreditStrategy struct {
	loyalty LoyaltyLedger
}

func NewLoyaltyCreditStrategy(loyalty LoyaltyLedger) *LoyaltyCreditStrategy {
	return &LoyaltyCreditStrategy{loyalty: loyalty}
}

func (s *LoyaltyCreditStrategy) Process(ctx context.Context, appt *domain.Appointment, pc Context) error {
	if pc.LoyaltyPromotionID == nil {
		return fmt.Errorf("%w: loyalty promotion id is required for %s", domain.ErrInvalidInput, domain.PaymentLoyaltyCredit)
	}
	promotionID := *pc.LoyaltyPromotionID

	promotion, err := s.loyalty.GetPromotionByID(ctx, promotionID)
	if err != nil {
		if errors.Is(err, loyaltyRepo.ErrPromotionNotFound) {
			return &domain.NotFoundError{Resource: "loyalty promotion", ID: promotionID.String()}
		}
		return fmt.Errorf("%w: get promotion %s: %v", ErrLedger, promotionID, err)
	}

	// Акция другого магазина не может быть использована
	if promotion.PetShopID != appt.PetShopID {
		return &domain.NotFoundError{Resource: "loyalty promotion", ID: promotionID.String()}
	}

	points, err := s.loyalty.GetPointsForUpdate(ctx, appt.ClientID, appt.PetShopID)
	if err != nil {
		if errors.Is(err, loyaltyRepo.ErrPointsNotFound) {
			return fmt.Errorf("%w: no points at this pet shop", domain.ErrInsufficientPoints)
		}
		return fmt.Errorf("%w: get points: %v", ErrLedger, err)
	}

	if points.Points < promotion.PointsNeeded {
		return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientPoints, points.Points, promotion.PointsNeeded)
	}

	if err := s.loyalty.DebitPoints(ctx, appt.ClientID, appt.PetShopID, promotion.PointsNeeded); err != nil {
		if errors.Is(err, loyaltyRepo.ErrInsufficientPoints) {
			return fmt.Errorf("%w: have %d, need %d", domain.ErrInsufficientPoints, points.Points, promotion.PointsNeeded)
		}
		return fmt.Errorf("%w: debit points: %v", ErrLedger, err)
	}

	return nil
}
