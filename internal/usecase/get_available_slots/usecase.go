package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/internal/scheduling"
	"github.com/m04kA/SMC-PetShopService/pkg/types"
)

// Options параметры генерации слотов
type Options struct {
	SlotStepMinutes    int           // Шаг перебора начал слотов
	MinNotice          time.Duration // Минимальное время до начала записи
	AdvanceBookingDays int           // Горизонт бронирования, 0 - без ограничений
}

// UseCase use case для получения доступных слотов для записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	petShopRepo     PetShopRepository
	serviceRepo     ServiceRepository
	opts            Options
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	petShopRepo PetShopRepository,
	serviceRepo ServiceRepository,
	opts Options,
	logger Logger,
) *UseCase {
	if opts.SlotStepMinutes <= 0 {
		opts.SlotStepMinutes = domain.DefaultSlotStepMinutes
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		petShopRepo:     petShopRepo,
		serviceRepo:     serviceRepo,
		opts:            opts,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: petShop=%s, services=%d, date=%s",
		req.PetShopID, len(req.ServiceIDs), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем зоомагазин
	shop, err := uc.petShopRepo.GetByID(ctx, req.PetShopID)
	if err != nil {
		if errors.Is(err, petshopRepo.ErrPetShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: pet shop id=%s not found", req.PetShopID)
			return nil, &domain.NotFoundError{Resource: "pet shop", ID: req.PetShopID.String()}
		}
		uc.logger.Error("GetAvailableSlots: failed to get pet shop id=%s: %v", req.PetShopID, err)
		return nil, fmt.Errorf("%w: failed to get pet shop: %v", ErrInternal, err)
	}

	// 3. Получаем услуги и суммарную длительность
	services, err := uc.serviceRepo.GetByIDs(ctx, shop.ID, req.ServiceIDs)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}
	if len(services) != len(req.ServiceIDs) {
		uc.logger.Warn("GetAvailableSlots: requested %d services, found %d", len(req.ServiceIDs), len(services))
		return nil, &domain.NotFoundError{Resource: "one or more services"}
	}
	totalMinutes := domain.TotalDuration(services)

	// 4. Дата трактуется в часовом поясе магазина
	loc := shop.Location()
	now := uc.timeProvider.Now().In(loc)
	day := localDay(req.Date, loc)

	if err := validateDate(day, now, uc.opts.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:            day,
		PetShopID:       shop.ID,
		ServiceIDs:      req.ServiceIDs,
		DurationMinutes: totalMinutes,
		Slots:           []Slot{},
	}

	if len(shop.WorkingHours.IntervalsFor(day.Weekday())) == 0 {
		uc.logger.Info("GetAvailableSlots: pet shop is closed on %s", day.Format(domain.DateFormat))
		return response, nil
	}

	// 5. Получаем активные записи на этот день
	existing, err := uc.appointmentRepo.ListByPetShop(ctx, domain.AgendaFilter{
		PetShopID: shop.ID,
		From:      day,
		To:        day.AddDate(0, 0, 1),
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 6. Генерируем слоты
	available := scheduling.AvailableSlots(scheduling.SlotQuery{
		PetShopID:    shop.ID,
		Day:          day,
		TotalMinutes: totalMinutes,
		StepMinutes:  uc.opts.SlotStepMinutes,
		NotBefore:    now.Add(uc.opts.MinNotice),
		WorkingHours: shop.WorkingHours,
		Existing:     existing,
	})

	for _, s := range available {
		response.Slots = append(response.Slots, Slot{
			StartTime:       types.NewTimeString(s.StartTime),
			EndTime:         endTimeString(s),
			StartsAt:        s.StartTime,
			DurationMinutes: s.DurationMinutes,
		})
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for petShop=%s, date=%s",
		len(response.Slots), shop.ID, day.Format(domain.DateFormat))

	return response, nil
}

// endTimeString местное время окончания. Слот, заканчивающийся ровно в полночь, дает "24:00"
func endTimeString(s domain.AvailableSlot) types.TimeString {
	end, err := types.NewTimeString(s.StartTime).AddMinutes(s.DurationMinutes)
	if err != nil {
		return types.NewTimeString(s.EndTime)
	}
	return end
}
