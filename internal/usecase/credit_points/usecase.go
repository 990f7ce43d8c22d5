package credit_points

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/payment"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
)

// UseCase начисляет баллы лояльности за успешную денежную оплату записи.
// Повторная доставка события по той же записи ничего не начисляет
type UseCase struct {
	paymentRepo     PaymentRepository
	appointmentRepo AppointmentRepository
	planRepo        LoyaltyPlanRepository
	ledger          LoyaltyLedger
	txManager       TransactionManager
	metrics         Metrics
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	paymentRepo PaymentRepository,
	appointmentRepo AppointmentRepository,
	planRepo LoyaltyPlanRepository,
	ledger LoyaltyLedger,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		paymentRepo:     paymentRepo,
		appointmentRepo: appointmentRepo,
		planRepo:        planRepo,
		ledger:          ledger,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// Execute выполняет начисление
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreditPoints: appointment=%s, payment=%s", req.AppointmentID, req.PaymentID)

	if req.AppointmentID == uuid.Nil || req.PaymentID == uuid.Nil {
		return nil, fmt.Errorf("%w: appointmentId and paymentId are required", domain.ErrInvalidInput)
	}

	// 1. Платеж должен быть успешным и относиться к записи
	p, err := uc.paymentRepo.GetByID(ctx, req.PaymentID)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			uc.logger.Warn("CreditPoints: payment id=%s not found", req.PaymentID)
			return nil, &domain.NotFoundError{Resource: "payment", ID: req.PaymentID.String()}
		}
		uc.logger.Error("CreditPoints: failed to get payment id=%s: %v", req.PaymentID, err)
		return nil, fmt.Errorf("%w: failed to get payment: %v", ErrInternal, err)
	}
	if p.AppointmentID != req.AppointmentID {
		uc.logger.Warn("CreditPoints: payment id=%s belongs to appointment id=%s", p.ID, p.AppointmentID)
		return nil, ErrPaymentMismatch
	}
	if p.Status != domain.PaymentStatusSucceeded {
		uc.logger.Warn("CreditPoints: payment id=%s has status %s", p.ID, p.Status)
		return nil, ErrPaymentNotSucceeded
	}

	// 2. Получаем запись
	appt, err := uc.appointmentRepo.GetByID(ctx, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CreditPoints: appointment id=%s not found", req.AppointmentID)
			return nil, &domain.NotFoundError{Resource: "appointment", ID: req.AppointmentID.String()}
		}
		uc.logger.Error("CreditPoints: failed to get appointment id=%s: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// Баллы начисляются только за деньги
	if appt.PaymentType != domain.PaymentMonetary {
		uc.logger.Info("CreditPoints: appointment id=%s paid with %s, skipping", appt.ID, appt.PaymentType)
		return &Response{}, nil
	}

	// 3. Программа лояльности магазина
	plan, err := uc.planRepo.GetLoyaltyPlan(ctx, appt.PetShopID)
	if err != nil {
		if errors.Is(err, petshopRepo.ErrLoyaltyPlanNotFound) {
			uc.logger.Info("CreditPoints: pet shop id=%s has no loyalty plan", appt.PetShopID)
			return &Response{}, nil
		}
		uc.logger.Error("CreditPoints: failed to get loyalty plan: %v", err)
		return nil, fmt.Errorf("%w: failed to get loyalty plan: %v", ErrInternal, err)
	}

	points := plan.PointsFor(p.Amount)
	if points == 0 {
		uc.logger.Info("CreditPoints: nothing to credit for payment id=%s amount=%s", p.ID, p.Amount)
		return &Response{}, nil
	}

	// 4. Журнал начислений и баланс меняются в одной транзакции
	var recorded bool
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		recorded, err = uc.ledger.RecordAccrual(txCtx, appt.ID, p.ID, points)
		if err != nil {
			return fmt.Errorf("%w: failed to record accrual: %v", ErrInternal, err)
		}
		if !recorded {
			return nil
		}
		if err := uc.ledger.CreditPoints(txCtx, appt.ClientID, appt.PetShopID, points); err != nil {
			return fmt.Errorf("%w: failed to credit points: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("CreditPoints: appointment id=%s: %v", appt.ID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	if !recorded {
		uc.logger.Info("CreditPoints: appointment id=%s already credited", appt.ID)
		return &Response{AlreadyCredited: true}, nil
	}

	uc.metrics.PointsCredited(appt.PetShopID.String(), points)
	uc.logger.Info("CreditPoints: credited %d points to client=%s at petShop=%s", points, appt.ClientID, appt.PetShopID)

	return &Response{Points: points}, nil
}
