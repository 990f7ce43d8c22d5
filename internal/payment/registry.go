package payment

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// Registry сопоставляет тип оплаты и стратегию
type Registry struct {
	strategies map[domain.PaymentType]Strategy
}

// NewRegistry создает реестр со стратегиями для всех типов оплаты
func NewRegistry(credits SubscriptionCreditLedger, loyalty LoyaltyLedger) *Registry {
	r := &Registry{strategies: make(map[domain.PaymentType]Strategy, 3)}
	r.Register(domain.PaymentMonetary, MonetaryStrategy{})
	r.Register(domain.PaymentSubscriptionCredit, NewSubscriptionCreditStrategy(credits))
	r.Register(domain.PaymentLoyaltyCredit, NewLoyaltyCreditStrategy(loyalty))
	return r
}

// Register добавляет или заменяет стратегию
func (r *Registry) Register(paymentType domain.PaymentType, s Strategy) {
	r.strategies[paymentType] = s
}

// Get возвращает стратегию для типа оплаты
func (r *Registry) Get(paymentType domain.PaymentType) (Strategy, error) {
	s, ok := r.strategies[paymentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPaymentType, paymentType)
	}
	return s, nil
}

// Process выбирает стратегию по appt.PaymentType и выполняет её
func (r *Registry) Process(ctx context.Context, appt *domain.Appointment, pc Context) error {
	s, err := r.Get(appt.PaymentType)
	if err != nil {
		return err
	}
	return s.Process(ctx, appt, pc)
}
