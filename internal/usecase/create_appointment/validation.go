package create_appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID == uuid.Nil {
		return fmt.Errorf("%w: clientId is required", domain.ErrInvalidInput)
	}

	if req.PetShopID == uuid.Nil {
		return fmt.Errorf("%w: petShopId is required", domain.ErrInvalidInput)
	}

	if req.PetID == uuid.Nil {
		return fmt.Errorf("%w: petId is required", domain.ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", domain.ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerBooking {
		return fmt.Errorf("%w: at most %d services per appointment", domain.ErrInvalidInput, domain.MaxServicesPerBooking)
	}

	seen := make(map[uuid.UUID]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id == uuid.Nil {
			return fmt.Errorf("%w: serviceIds must not contain empty ids", domain.ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate service %s", domain.ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", domain.ErrInvalidInput)
	}

	paymentType := domain.PaymentType(req.PaymentType)
	if !paymentType.IsValid() {
		return fmt.Errorf("%w: unknown paymentType %q", domain.ErrInvalidInput, req.PaymentType)
	}

	// Акция указывается только при оплате баллами
	if paymentType == domain.PaymentLoyaltyCredit && req.LoyaltyPromotionID == nil {
		return fmt.Errorf("%w: loyaltyPromotionId is required for %s", domain.ErrInvalidInput, paymentType)
	}
	if paymentType != domain.PaymentLoyaltyCredit && req.LoyaltyPromotionID != nil {
		return fmt.Errorf("%w: loyaltyPromotionId is only allowed for %s", domain.ErrInvalidInput, domain.PaymentLoyaltyCredit)
	}

	return nil
}

// validateNotice проверяет, что до начала записи осталось не меньше minNotice
func validateNotice(start, now time.Time, minNotice time.Duration) error {
	if start.Before(now.Add(minNotice)) {
		return fmt.Errorf("%w: must book at least %s in advance", ErrTooLateToBook, minNotice)
	}
	return nil
}

// validateHorizon проверяет, что день записи не дальше advanceBookingDays от сегодня.
// start и now должны быть в часовом поясе магазина, 0 - без ограничений
func validateHorizon(start, now time.Time, advanceBookingDays int) error {
	if advanceBookingDays == 0 {
		return nil
	}

	y, m, d := now.Date()
	limit := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, advanceBookingDays+1)
	if !start.Before(limit) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}
	return nil
}

// orderServices возвращает услуги в порядке ids. Если какой-то услуги нет, ok = false
func orderServices(ids []uuid.UUID, services []*domain.Service) ([]*domain.Service, bool) {
	byID := make(map[uuid.UUID]*domain.Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}

	ordered := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return nil, false
		}
		ordered = append(ordered, s)
	}
	return ordered, true
}

// dayBounds возвращает начало дня t и начало следующего дня в часовом поясе t
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

// rejectionReason метка для метрики отклоненных записей
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrResourceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrOutsideWorkingHours):
		return "outside_working_hours"
	case errors.Is(err, domain.ErrScheduleConflict):
		return "schedule_conflict"
	case errors.Is(err, domain.ErrInsufficientCredits):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	default:
		return "internal"
	}
}
