package credit_points

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	paymentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/payment"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/pkg/logger"
)

type store struct {
	mu           sync.Mutex
	payments     map[uuid.UUID]*domain.Payment
	appointments map[uuid.UUID]*domain.Appointment
	plans        map[uuid.UUID]*domain.LoyaltyPlan
	accruals     map[uuid.UUID]int64
	points       map[[2]uuid.UUID]int64
	creditErr    error
}

func newStore() *store {
	return &store{
		payments:     map[uuid.UUID]*domain.Payment{},
		appointments: map[uuid.UUID]*domain.Appointment{},
		plans:        map[uuid.UUID]*domain.LoyaltyPlan{},
		accruals:     map[uuid.UUID]int64{},
		points:       map[[2]uuid.UUID]int64{},
	}
}

func (s *store) GetByID(_ context.Context, id uuid.UUID) (*domain.Payment, error) {
	p, ok := s.payments[id]
	if !ok {
		return nil, paymentRepo.ErrPaymentNotFound
	}
	return p, nil
}

type appointmentsView struct{ s *store }

func (v appointmentsView) GetByID(_ context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, ok := v.s.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return a, nil
}

func (s *store) GetLoyaltyPlan(_ context.Context, petShopID uuid.UUID) (*domain.LoyaltyPlan, error) {
	p, ok := s.plans[petShopID]
	if !ok {
		return nil, petshopRepo.ErrLoyaltyPlanNotFound
	}
	return p, nil
}

func (s *store) RecordAccrual(_ context.Context, appointmentID, _ uuid.UUID, points int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accruals[appointmentID]; ok {
		return false, nil
	}
	s.accruals[appointmentID] = points
	return true, nil
}

func (s *store) CreditPoints(_ context.Context, clientID, petShopID uuid.UUID, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creditErr != nil {
		return s.creditErr
	}
	s.points[[2]uuid.UUID{clientID, petShopID}] += amount
	return nil
}

// Do откатывает журнал начислений при ошибке
func (s *store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	accruals := make(map[uuid.UUID]int64, len(s.accruals))
	for k, v := range s.accruals {
		accruals[k] = v
	}
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.accruals = accruals
		s.mu.Unlock()
		return err
	}
	return nil
}

type pointsMetrics struct {
	total int64
}

func (m *pointsMetrics) PointsCredited(_ string, points int64) {
	m.total += points
}

type fixture struct {
	s       *store
	uc      *UseCase
	metrics *pointsMetrics
	appt    *domain.Appointment
	payment *domain.Payment
}

func newFixture(t *testing.T, pointsPerReal string) *fixture {
	t.Helper()

	s := newStore()
	appt := &domain.Appointment{
		ID:          uuid.New(),
		PetShopID:   uuid.New(),
		ClientID:    uuid.New(),
		PaymentType: domain.PaymentMonetary,
		Status:      domain.StatusConfirmed,
	}
	p := &domain.Payment{
		ID:            uuid.New(),
		AppointmentID: appt.ID,
		Amount:        decimal.RequireFromString("85.50"),
		Status:        domain.PaymentStatusSucceeded,
	}
	s.appointments[appt.ID] = appt
	s.payments[p.ID] = p
	s.plans[appt.PetShopID] = &domain.LoyaltyPlan{PetShopID: appt.PetShopID, PointsPerReal: decimal.RequireFromString(pointsPerReal)}

	metrics := &pointsMetrics{}
	uc := NewUseCase(s, appointmentsView{s: s}, s, s, s, metrics, logger.NewNop())

	return &fixture{s: s, uc: uc, metrics: metrics, appt: appt, payment: p}
}

func (f *fixture) request() *Request {
	return &Request{AppointmentID: f.appt.ID, PaymentID: f.payment.ID}
}

func (f *fixture) balance() int64 {
	return f.s.points[[2]uuid.UUID{f.appt.ClientID, f.appt.PetShopID}]
}

func TestExecute_CreditsFlooredPoints(t *testing.T) {
	f := newFixture(t, "1.5")

	resp, err := f.uc.Execute(context.Background(), f.request())

	require.NoError(t, err)
	// 85.50 * 1.5 = 128.25
	assert.Equal(t, int64(128), resp.Points)
	assert.Equal(t, int64(128), f.balance())
	assert.Equal(t, int64(128), f.metrics.total)
}

func TestExecute_IsIdempotentPerAppointment(t *testing.T) {
	f := newFixture(t, "1")

	_, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)

	assert.True(t, resp.AlreadyCredited)
	assert.Equal(t, int64(85), f.balance())
	assert.Equal(t, int64(85), f.metrics.total)
}

func TestExecute_SkipsWithoutAccrual(t *testing.T) {
	t.Run("non monetary appointment", func(t *testing.T) {
		f := newFixture(t, "1")
		f.appt.PaymentType = domain.PaymentSubscriptionCredit

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Zero(t, resp.Points)
		assert.Zero(t, f.balance())
	})

	t.Run("no loyalty plan", func(t *testing.T) {
		f := newFixture(t, "1")
		delete(f.s.plans, f.appt.PetShopID)

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Zero(t, resp.Points)
	})

	t.Run("zero ratio", func(t *testing.T) {
		f := newFixture(t, "0")

		resp, err := f.uc.Execute(context.Background(), f.request())
		require.NoError(t, err)
		assert.Zero(t, resp.Points)
		assert.Empty(t, f.s.accruals)
	})
}

func TestExecute_RejectsPayment(t *testing.T) {
	t.Run("not succeeded", func(t *testing.T) {
		f := newFixture(t, "1")
		f.payment.Status = domain.PaymentStatusPending

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrPaymentNotSucceeded)
	})

	t.Run("other appointment", func(t *testing.T) {
		f := newFixture(t, "1")
		f.payment.AppointmentID = uuid.New()

		_, err := f.uc.Execute(context.Background(), f.request())
		assert.ErrorIs(t, err, ErrPaymentMismatch)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t, "1")

		_, err := f.uc.Execute(context.Background(), &Request{AppointmentID: f.appt.ID, PaymentID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})
}

func TestExecute_CreditFailureRollsBackAccrual(t *testing.T) {
	f := newFixture(t, "1")
	f.s.creditErr = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), f.request())
	assert.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.s.accruals)

	// Повторная доставка после сбоя начисляет баллы
	f.s.creditErr = nil
	resp, err := f.uc.Execute(context.Background(), f.request())
	require.NoError(t, err)
	assert.Equal(t, int64(85), resp.Points)
}
