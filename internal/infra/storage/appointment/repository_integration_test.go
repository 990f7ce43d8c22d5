package appointment

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetShopService/pkg/txmanager"
)

// Требует БД с примененной migrations/001_init.sql
func openTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dsn := os.Getenv("PETSHOP_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("PETSHOP_TEST_DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })

	return dbmetrics.Wrap(db, nil)
}

func createPetShop(t *testing.T, db *dbmetrics.DB) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO pet_shops (id, owner_id, name) VALUES ($1, $2, 'Integration Pets')`, id, uuid.New())
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), `DELETE FROM appointments WHERE pet_shop_id = $1`, id)
		_, _ = db.ExecContext(context.Background(), `DELETE FROM pet_shops WHERE id = $1`, id)
	})
	return id
}

func newAppointment(petShopID uuid.UUID, start time.Time, minutes int) *domain.Appointment {
	return &domain.Appointment{
		ID:              uuid.Must(uuid.NewV7()),
		PetShopID:       petShopID,
		PetID:           uuid.New(),
		ClientID:        uuid.New(),
		StartTime:       start,
		EndTime:         start.Add(time.Duration(minutes) * time.Minute),
		DurationMinutes: minutes,
		Status:          domain.StatusConfirmed,
		PaymentType:     domain.PaymentMonetary,
		ServiceIDs:      []uuid.UUID{uuid.New()},
	}
}

func TestRepository_ExclusionConstraint(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	shopID := createPetShop(t, db)
	start := time.Date(2030, 1, 8, 12, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, newAppointment(shopID, start, 60))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAppointment(shopID, start.Add(30*time.Minute), 60))
	assert.ErrorIs(t, err, ErrScheduleConflict)

	// Соседний слот разрешен
	_, err = repo.Create(ctx, newAppointment(shopID, start.Add(time.Hour), 30))
	require.NoError(t, err)

	// Отмена освобождает интервал
	now := time.Now()
	require.NoError(t, first.TransitionTo(domain.StatusCancelled, now))
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	_, err = repo.Create(ctx, newAppointment(shopID, start, 60))
	require.NoError(t, err)

	list, err := repo.ListByPetShop(ctx, domain.AgendaFilter{
		PetShopID: shopID,
		From:      start.Add(-time.Hour),
		To:        start.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancelledAt)
}

func TestRepository_LockRequiresTransaction(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	shopID := createPetShop(t, db)

	err := repo.LockPetShopSchedule(context.Background(), shopID)
	assert.ErrorIs(t, err, ErrTransaction)

	err = txmanager.NewTransactionManager(db).Do(context.Background(), func(txCtx context.Context) error {
		return repo.LockPetShopSchedule(txCtx, shopID)
	})
	assert.NoError(t, err)
}

func TestRepository_ConcurrentCreateUnderLock(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	tm := txmanager.NewTransactionManager(db)
	shopID := createPetShop(t, db)
	start := time.Date(2030, 1, 9, 12, 0, 0, 0, time.UTC)

	const workers = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tm.Do(context.Background(), func(txCtx context.Context) error {
				if err := repo.LockPetShopSchedule(txCtx, shopID); err != nil {
					return err
				}
				_, err := repo.Create(txCtx, newAppointment(shopID, start, 45))
				return err
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrScheduleConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}
