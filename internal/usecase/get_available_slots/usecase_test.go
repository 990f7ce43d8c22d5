package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/pkg/logger"
	"github.com/m04kA/SMC-PetShopService/pkg/types"
)

type stubAppointments struct {
	list   []*domain.Appointment
	filter domain.AgendaFilter
}

func (s *stubAppointments) ListByPetShop(_ context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error) {
	s.filter = filter
	return s.list, nil
}

type stubPetShops struct {
	shop *domain.PetShop
}

func (s *stubPetShops) GetByID(_ context.Context, id uuid.UUID) (*domain.PetShop, error) {
	if s.shop == nil || s.shop.ID != id {
		return nil, petshopRepo.ErrPetShopNotFound
	}
	return s.shop, nil
}

type stubServices struct {
	services map[uuid.UUID]*domain.Service
}

func (s *stubServices) GetByIDs(_ context.Context, petShopID uuid.UUID, ids []uuid.UUID) ([]*domain.Service, error) {
	var found []*domain.Service
	for _, id := range ids {
		if svc, ok := s.services[id]; ok && svc.PetShopID == petShopID {
			found = append(found, svc)
		}
	}
	return found, nil
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

func setup(now time.Time, opts Options) (*UseCase, *domain.PetShop, *domain.Service, *stubAppointments) {
	shop := &domain.PetShop{
		ID:       uuid.New(),
		Timezone: "UTC",
		WorkingHours: domain.WorkingHours{
			time.Tuesday: {
				{Start: "09:00", End: "12:00"},
				{Start: "13:00", End: "15:00"},
			},
		},
	}
	bath := &domain.Service{ID: uuid.New(), PetShopID: shop.ID, Name: "Banho", DurationMinutes: 60}
	appointments := &stubAppointments{}

	uc := NewUseCase(
		appointments,
		&stubPetShops{shop: shop},
		&stubServices{services: map[uuid.UUID]*domain.Service{bath.ID: bath}},
		opts,
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime{now: now}
	return uc, shop, bath, appointments
}

func startTimes(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_SkipsBookedAndLunchBreak(t *testing.T) {
	uc, shop, bath, appointments := setup(time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC), Options{SlotStepMinutes: 30})
	appointments.list = []*domain.Appointment{{
		ID:        uuid.New(),
		PetShopID: shop.ID,
		StartTime: time.Date(2025, 7, 22, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 7, 22, 11, 0, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,
	}}

	resp, err := uc.Execute(context.Background(), &Request{
		PetShopID:  shop.ID,
		ServiceIDs: []uuid.UUID{bath.ID},
		Date:       time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, []types.TimeString{"09:00", "11:00", "13:00", "13:30", "14:00"}, startTimes(resp.Slots))
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].EndTime)
	assert.True(t, time.Date(2025, 7, 22, 13, 0, 0, 0, time.UTC).Equal(resp.Slots[2].StartsAt))

	assert.True(t, resp.Date.Equal(appointments.filter.From))
	assert.True(t, resp.Date.AddDate(0, 0, 1).Equal(appointments.filter.To))
}

func TestExecute_TodayRespectsMinNotice(t *testing.T) {
	uc, shop, bath, _ := setup(time.Date(2025, 7, 22, 10, 10, 0, 0, time.UTC), Options{SlotStepMinutes: 30, MinNotice: time.Hour})

	resp, err := uc.Execute(context.Background(), &Request{
		PetShopID:  shop.ID,
		ServiceIDs: []uuid.UUID{bath.ID},
		Date:       time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, []types.TimeString{"13:00", "13:30", "14:00"}, startTimes(resp.Slots))
}

func TestExecute_ClosedDay(t *testing.T) {
	uc, shop, bath, _ := setup(time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC), Options{})

	resp, err := uc.Execute(context.Background(), &Request{
		PetShopID:  shop.ID,
		ServiceIDs: []uuid.UUID{bath.ID},
		Date:       time.Date(2025, 7, 23, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DateValidation(t *testing.T) {
	uc, shop, bath, _ := setup(time.Date(2025, 7, 22, 8, 0, 0, 0, time.UTC), Options{AdvanceBookingDays: 7})

	_, err := uc.Execute(context.Background(), &Request{
		PetShopID:  shop.ID,
		ServiceIDs: []uuid.UUID{bath.ID},
		Date:       time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		PetShopID:  shop.ID,
		ServiceIDs: []uuid.UUID{bath.ID},
		Date:       time.Date(2025, 7, 30, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_NotFoundAndInvalid(t *testing.T) {
	uc, shop, bath, _ := setup(time.Date(2025, 7, 21, 8, 0, 0, 0, time.UTC), Options{})
	day := time.Date(2025, 7, 22, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), &Request{PetShopID: uuid.New(), ServiceIDs: []uuid.UUID{bath.ID}, Date: day})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	_, err = uc.Execute(context.Background(), &Request{PetShopID: shop.ID, ServiceIDs: []uuid.UUID{uuid.New()}, Date: day})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	_, err = uc.Execute(context.Background(), &Request{PetShopID: shop.ID, Date: day})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{PetShopID: shop.ID, ServiceIDs: []uuid.UUID{bath.ID, bath.ID}, Date: day})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
