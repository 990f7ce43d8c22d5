package create_appointment

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/appointment"
	loyaltyRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/loyalty"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	subscriptionRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/subscription"
)

type inTxKey struct{}

// memDB хранилище в памяти с откатом транзакций.
// txMu сериализует транзакции так же, как advisory lock расписания
type memDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	shops        map[uuid.UUID]*domain.PetShop
	services     map[uuid.UUID]*domain.Service
	appointments map[uuid.UUID]domain.Appointment
	credits      map[uuid.UUID]domain.SubscriptionCredit // по ID кредита
	promotions   map[uuid.UUID]*domain.LoyaltyPromotion
	points       map[[2]uuid.UUID]int64 // (client, shop) -> баланс

	lockCalls int
	createErr error
	saveErr   error

	// lateAppointment появляется в выборках начиная с третьего ListByPetShop,
	// как запись параллельной транзакции, закоммиченная после повторной проверки
	lateAppointment *domain.Appointment
	listCalls       int
}

type snapshot struct {
	appointments map[uuid.UUID]domain.Appointment
	credits      map[uuid.UUID]domain.SubscriptionCredit
	points       map[[2]uuid.UUID]int64
}

func newMemDB() *memDB {
	return &memDB{
		shops:        map[uuid.UUID]*domain.PetShop{},
		services:     map[uuid.UUID]*domain.Service{},
		appointments: map[uuid.UUID]domain.Appointment{},
		credits:      map[uuid.UUID]domain.SubscriptionCredit{},
		promotions:   map[uuid.UUID]*domain.LoyaltyPromotion{},
		points:       map[[2]uuid.UUID]int64{},
	}
}

func (db *memDB) snapshot() snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()

	s := snapshot{
		appointments: make(map[uuid.UUID]domain.Appointment, len(db.appointments)),
		credits:      make(map[uuid.UUID]domain.SubscriptionCredit, len(db.credits)),
		points:       make(map[[2]uuid.UUID]int64, len(db.points)),
	}
	for k, v := range db.appointments {
		s.appointments[k] = v
	}
	for k, v := range db.credits {
		s.credits[k] = v
	}
	for k, v := range db.points {
		s.points[k] = v
	}
	return s
}

func (db *memDB) restore(s snapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.appointments = s.appointments
	db.credits = s.credits
	db.points = s.points
}

func (db *memDB) appointmentList() []domain.Appointment {
	db.mu.Lock()
	defer db.mu.Unlock()
	list := make([]domain.Appointment, 0, len(db.appointments))
	for _, a := range db.appointments {
		list = append(list, a)
	}
	return list
}

func (db *memDB) creditBalance(id uuid.UUID) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.credits[id].RemainingCredits
}

func (db *memDB) pointsBalance(clientID, shopID uuid.UUID) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.points[[2]uuid.UUID{clientID, shopID}]
}

// fakeTxManager

type fakeTxManager struct {
	db *memDB
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.db.txMu.Lock()
	defer m.db.txMu.Unlock()

	snap := m.db.snapshot()
	err := fn(context.WithValue(ctx, inTxKey{}, true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		m.db.restore(snap)
	}
	return err
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(inTxKey{}).(bool)
	return v
}

// appointments

type fakeAppointments struct {
	db *memDB
}

func (r *fakeAppointments) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.createErr != nil {
		return nil, r.db.createErr
	}
	// Аналог exclusion constraint
	for _, existing := range r.db.appointments {
		if existing.PetShopID == appt.PetShopID && existing.IsActive() && existing.Overlaps(appt.StartTime, appt.EndTime) {
			return nil, appointmentRepo.ErrScheduleConflict
		}
	}

	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	r.db.appointments[appt.ID] = *appt
	return appt, nil
}

func (r *fakeAppointments) Save(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.saveErr != nil {
		return nil, r.db.saveErr
	}
	if _, ok := r.db.appointments[appt.ID]; !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	r.db.appointments[appt.ID] = *appt
	return appt, nil
}

func (r *fakeAppointments) ListByPetShop(_ context.Context, filter domain.AgendaFilter) ([]*domain.Appointment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.listCalls++

	var list []*domain.Appointment
	if late := r.db.lateAppointment; late != nil && r.db.listCalls > 2 && late.PetShopID == filter.PetShopID {
		list = append(list, late)
	}
	for _, a := range r.db.appointments {
		a := a
		if a.PetShopID != filter.PetShopID || !a.Overlaps(filter.From, filter.To) {
			continue
		}
		if !filter.IncludeCancelled && a.IsCancelled() {
			continue
		}
		list = append(list, &a)
	}
	return list, nil
}

func (r *fakeAppointments) LockPetShopSchedule(ctx context.Context, _ uuid.UUID) error {
	if !inTx(ctx) {
		return appointmentRepo.ErrTransaction
	}
	r.db.mu.Lock()
	r.db.lockCalls++
	r.db.mu.Unlock()
	return nil
}

// catalog

type fakePetShops struct {
	db  *memDB
	err error
}

func (r *fakePetShops) GetByID(_ context.Context, id uuid.UUID) (*domain.PetShop, error) {
	if r.err != nil {
		return nil, r.err
	}
	shop, ok := r.db.shops[id]
	if !ok {
		return nil, petshopRepo.ErrPetShopNotFound
	}
	return shop, nil
}

type fakeServices struct {
	db *memDB
}

func (r *fakeServices) GetByIDs(_ context.Context, petShopID uuid.UUID, ids []uuid.UUID) ([]*domain.Service, error) {
	var found []*domain.Service
	for _, id := range ids {
		if s, ok := r.db.services[id]; ok && s.PetShopID == petShopID {
			found = append(found, s)
		}
	}
	return found, nil
}

// ledgers

type fakeCredits struct {
	db *memDB
}

func (l *fakeCredits) FindActiveCreditForUpdate(_ context.Context, _, serviceID uuid.UUID) (*domain.SubscriptionCredit, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	for _, c := range l.db.credits {
		if c.ServiceID == serviceID {
			c := c
			return &c, nil
		}
	}
	return nil, subscriptionRepo.ErrCreditNotFound
}

func (l *fakeCredits) DebitCredit(_ context.Context, creditID uuid.UUID, amount int) error {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	c, ok := l.db.credits[creditID]
	if !ok || c.RemainingCredits < amount {
		return subscriptionRepo.ErrInsufficientCredits
	}
	c.RemainingCredits -= amount
	l.db.credits[creditID] = c
	return nil
}

type fakeLoyalty struct {
	db *memDB
}

func (l *fakeLoyalty) GetPromotionByID(_ context.Context, id uuid.UUID) (*domain.LoyaltyPromotion, error) {
	p, ok := l.db.promotions[id]
	if !ok {
		return nil, loyaltyRepo.ErrPromotionNotFound
	}
	return p, nil
}

func (l *fakeLoyalty) GetPointsForUpdate(_ context.Context, clientID, petShopID uuid.UUID) (*domain.ClientLoyaltyPoints, error) {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	p, ok := l.db.points[[2]uuid.UUID{clientID, petShopID}]
	if !ok {
		return nil, loyaltyRepo.ErrPointsNotFound
	}
	return &domain.ClientLoyaltyPoints{ClientID: clientID, PetShopID: petShopID, Points: p}, nil
}

func (l *fakeLoyalty) DebitPoints(_ context.Context, clientID, petShopID uuid.UUID, amount int64) error {
	l.db.mu.Lock()
	defer l.db.mu.Unlock()

	key := [2]uuid.UUID{clientID, petShopID}
	if l.db.points[key] < amount {
		return loyaltyRepo.ErrInsufficientPoints
	}
	l.db.points[key] -= amount
	return nil
}

// surroundings

type fakePublisher struct {
	mu        sync.Mutex
	confirmed []uuid.UUID
	err       error
}

func (p *fakePublisher) AppointmentConfirmed(_ context.Context, appt *domain.Appointment) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.confirmed = append(p.confirmed, appt.ID)
	return nil
}

type fakeMetrics struct {
	mu       sync.Mutex
	created  map[string]int
	rejected map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{created: map[string]int{}, rejected: map[string]int{}}
}

func (m *fakeMetrics) AppointmentCreated(paymentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[paymentType]++
}

func (m *fakeMetrics) AppointmentRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

var errBoom = errors.New("boom")
