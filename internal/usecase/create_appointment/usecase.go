package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/internal/payment"
	"github.com/m04kA/SMC-PetShopService/internal/scheduling"
)

// UseCase use case для создания записи с расчетом оплаты
type UseCase struct {
	appointmentRepo AppointmentRepository
	petShopRepo     PetShopRepository
	serviceRepo     ServiceRepository
	payments        PaymentProcessor
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	opts            Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	petShopRepo PetShopRepository,
	serviceRepo ServiceRepository,
	payments PaymentProcessor,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	opts Options,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		petShopRepo:     petShopRepo,
		serviceRepo:     serviceRepo,
		payments:        payments,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		opts:            opts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute создает запись.
// Шаги 1-6 только читают данные и выполняются вне транзакции, чтобы быстро отклонять
// заведомо неверные запросы. Шаг 7 атомарный: блокировка расписания магазина, повторная
// проверка конфликтов, создание PENDING записи, списание ресурса оплаты и подтверждение
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: client=%s, petShop=%s, pet=%s, services=%d, start=%s, payment=%s",
		req.ClientID, req.PetShopID, req.PetID, len(req.ServiceIDs), req.StartTime.Format(time.RFC3339), req.PaymentType)

	result, services, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.AppointmentRejected(rejectionReason(err))
		return nil, err
	}

	uc.metrics.AppointmentCreated(string(result.PaymentType))
	uc.logger.Info("CreateAppointment: appointment id=%s confirmed, %s-%s",
		result.ID, result.StartTime.Format(time.RFC3339), result.EndTime.Format(time.RFC3339))

	// 8. Событие публикуется после коммита. Ошибка публикации не отменяет запись
	if err := uc.publisher.AppointmentConfirmed(ctx, result); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish confirmation for id=%s: %v", result.ID, err)
	}

	return toResponse(result, services), nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, []*domain.Service, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем зоомагазин
	shop, err := uc.petShopRepo.GetByID(ctx, req.PetShopID)
	if err != nil {
		if errors.Is(err, petshopRepo.ErrPetShopNotFound) {
			uc.logger.Warn("CreateAppointment: pet shop id=%s not found", req.PetShopID)
			return nil, nil, &domain.NotFoundError{Resource: "pet shop", ID: req.PetShopID.String()}
		}
		uc.logger.Error("CreateAppointment: failed to get pet shop id=%s: %v", req.PetShopID, err)
		return nil, nil, fmt.Errorf("%w: failed to get pet shop: %v", ErrInternal, err)
	}

	// 3. Получаем услуги магазина. Несовпадение количества значит, что часть ID чужие или удалены
	found, err := uc.serviceRepo.GetByIDs(ctx, shop.ID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	services, ok := orderServices(req.ServiceIDs, found)
	if !ok || len(found) != len(req.ServiceIDs) {
		uc.logger.Warn("CreateAppointment: requested %d services, found %d", len(req.ServiceIDs), len(found))
		return nil, nil, &domain.NotFoundError{Resource: "one or more services"}
	}

	// 4. Переводим время в часовой пояс магазина: рабочие часы заданы в местном времени
	totalMinutes := domain.TotalDuration(services)
	start := req.StartTime.In(shop.Location())
	end := start.Add(time.Duration(totalMinutes) * time.Minute)

	if err := validateNotice(start, now, uc.opts.MinNotice); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, nil, err
	}

	if err := validateHorizon(start, now.In(start.Location()), uc.opts.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, nil, err
	}

	// 5. Проверяем рабочие часы
	if err := scheduling.ValidateWorkingHours(start, totalMinutes, shop.WorkingHours); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return nil, nil, err
	}

	// 6. Предварительная проверка конфликтов по записям того же дня
	existing, err := uc.listSameDay(ctx, shop.ID, start)
	if err != nil {
		return nil, nil, err
	}
	if err := scheduling.ConflictError(shop.ID, start, end, existing); err != nil {
		uc.logger.Warn("CreateAppointment: pre-check: %v", err)
		return nil, nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to generate id: %v", ErrInternal, err)
	}

	appt := &domain.Appointment{
		ID:                 id,
		PetShopID:          shop.ID,
		PetID:              req.PetID,
		ClientID:           req.ClientID,
		StartTime:          start,
		EndTime:            end,
		DurationMinutes:    totalMinutes,
		Status:             domain.StatusPending,
		PaymentType:        domain.PaymentType(req.PaymentType),
		ServiceIDs:         req.ServiceIDs,
		LoyaltyPromotionID: req.LoyaltyPromotionID,
	}

	var result *domain.Appointment

	// 7. Атомарная часть
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 7.1. Блокируем расписание магазина до конца транзакции
		if err := uc.appointmentRepo.LockPetShopSchedule(txCtx, shop.ID); err != nil {
			uc.logger.Error("CreateAppointment: failed to lock schedule of pet shop id=%s: %v", shop.ID, err)
			return fmt.Errorf("%w: failed to lock schedule: %v", ErrInternal, err)
		}

		// 7.2. Повторная проверка под блокировкой - она и является окончательной
		existing, err := uc.listSameDay(txCtx, shop.ID, start)
		if err != nil {
			return err
		}
		if err := scheduling.ConflictError(shop.ID, start, end, existing); err != nil {
			uc.logger.Warn("CreateAppointment: %v", err)
			return err
		}

		// 7.3. Создаем запись в статусе PENDING
		created, err := uc.appointmentRepo.Create(txCtx, appt)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrScheduleConflict) {
				uc.logger.Warn("CreateAppointment: rejected by exclusion constraint")
				return &domain.ScheduleConflictError{}
			}
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 7.4. Списываем ресурс оплаты
		pc := payment.Context{Services: services, LoyaltyPromotionID: req.LoyaltyPromotionID}
		if err := uc.payments.Process(txCtx, created, pc); err != nil {
			if domain.IsBusinessError(err) {
				uc.logger.Warn("CreateAppointment: payment %s rejected: %v", created.PaymentType, err)
				return err
			}
			uc.logger.Error("CreateAppointment: payment %s failed: %v", created.PaymentType, err)
			return fmt.Errorf("%w: payment failed: %v", ErrInternal, err)
		}

		// 7.5. Подтверждаем запись
		if err := created.TransitionTo(domain.StatusConfirmed, now); err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		saved, err := uc.appointmentRepo.Save(txCtx, created)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to confirm appointment id=%s: %v", created.ID, err)
			return fmt.Errorf("%w: failed to confirm appointment: %v", ErrInternal, err)
		}

		result = saved
		return nil
	})

	if err != nil {
		var conflict *domain.ScheduleConflictError
		if errors.As(err, &conflict) && conflict.ExistingAppointmentID == uuid.Nil {
			return nil, nil, uc.resolveConflict(ctx, shop.ID, start, end)
		}
		if domain.IsBusinessError(err) || errors.Is(err, ErrInternal) {
			return nil, nil, err
		}
		// Ошибки коммита, отмена контекста и прочее неожиданное
		uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		return nil, nil, fmt.Errorf("%w: unexpected failure: %w", ErrInternal, err)
	}

	return result, services, nil
}

// resolveConflict ищет запись, из-за которой сработал exclusion constraint.
// Транзакция к этому моменту откачена, поэтому чтение идет вне её
func (uc *UseCase) resolveConflict(ctx context.Context, petShopID uuid.UUID, start, end time.Time) error {
	existing, err := uc.listSameDay(ctx, petShopID, start)
	if err != nil {
		return &domain.ScheduleConflictError{}
	}
	if err := scheduling.ConflictError(petShopID, start, end, existing); err != nil {
		uc.logger.Warn("CreateAppointment: %v", err)
		return err
	}
	return &domain.ScheduleConflictError{}
}

// listSameDay получает активные записи магазина за местный день start
func (uc *UseCase) listSameDay(ctx context.Context, petShopID uuid.UUID, start time.Time) ([]*domain.Appointment, error) {
	from, to := dayBounds(start)

	existing, err := uc.appointmentRepo.ListByPetShop(ctx, domain.AgendaFilter{
		PetShopID: petShopID,
		From:      from,
		To:        to,
	})
	if err != nil {
		uc.logger.Error("CreateAppointment: failed to list appointments of pet shop id=%s: %v", petShopID, err)
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}
	return existing, nil
}

func toResponse(appt *domain.Appointment, services []*domain.Service) *Response {
	total := decimal.Zero
	if appt.PaymentType == domain.PaymentMonetary {
		total = domain.TotalPrice(services)
	}

	return &Response{
		ID:                 appt.ID,
		PetShopID:          appt.PetShopID,
		PetID:              appt.PetID,
		ClientID:           appt.ClientID,
		ServiceIDs:         appt.ServiceIDs,
		StartTime:          appt.StartTime,
		EndTime:            appt.EndTime,
		DurationMinutes:    appt.DurationMinutes,
		Status:             string(appt.Status),
		PaymentType:        string(appt.PaymentType),
		LoyaltyPromotionID: appt.LoyaltyPromotionID,
		TotalPrice:         total,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}
}
