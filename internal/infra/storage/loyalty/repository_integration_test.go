package loyalty

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
		ctx := context.Background()
		_, _ = db.ExecContext(ctx,
			`DELETE FROM loyalty_accruals WHERE appointment_id IN (SELECT id FROM appointments WHERE pet_shop_id = $1)`, id)
		_, _ = db.ExecContext(ctx, `DELETE FROM appointments WHERE pet_shop_id = $1`, id)
		_, _ = db.ExecContext(ctx, `DELETE FROM pet_shops WHERE id = $1`, id)
	})
	return id
}

func createAppointment(t *testing.T, db *dbmetrics.DB, petShopID uuid.UUID) uuid.UUID {
	t.Helper()

	id := uuid.Must(uuid.NewV7())
	start := time.Date(2030, 2, 5, 12, 0, 0, 0, time.UTC)
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO appointments (id, pet_shop_id, pet_id, client_id, start_time, end_time, duration_minutes,
			status, payment_type, service_ids)
		 VALUES ($1, $2, $3, $4, $5, $6, 60, 'COMPLETED', 'MONETARY', ARRAY[$7::uuid])`,
		id, petShopID, uuid.New(), uuid.New(), start, start.Add(time.Hour), uuid.New())
	require.NoError(t, err)
	return id
}

func TestRepository_CreditAndDebitPoints(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	shopID := createPetShop(t, db)
	clientID := uuid.New()

	_, err := repo.GetPointsForUpdate(ctx, clientID, shopID)
	assert.ErrorIs(t, err, ErrPointsNotFound)

	require.NoError(t, repo.CreditPoints(ctx, clientID, shopID, 70))
	require.NoError(t, repo.CreditPoints(ctx, clientID, shopID, 30))

	points, err := repo.GetPointsForUpdate(ctx, clientID, shopID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), points.Points)

	assert.ErrorIs(t, repo.DebitPoints(ctx, clientID, shopID, 101), ErrInsufficientPoints)
	require.NoError(t, repo.DebitPoints(ctx, clientID, shopID, 100))
	assert.ErrorIs(t, repo.DebitPoints(ctx, clientID, shopID, 1), ErrInsufficientPoints)

	points, err = repo.GetPointsForUpdate(ctx, clientID, shopID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), points.Points)
}

func TestRepository_ConcurrentDebitPoints(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	tm := txmanager.NewTransactionManager(db)
	shopID := createPetShop(t, db)
	clientID := uuid.New()
	require.NoError(t, repo.CreditPoints(context.Background(), clientID, shopID, 50))

	const workers = 4
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
				if _, err := repo.GetPointsForUpdate(txCtx, clientID, shopID); err != nil {
					return err
				}
				return repo.DebitPoints(txCtx, clientID, shopID, 50)
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrInsufficientPoints)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestRepository_RecordAccrualOnce(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	shopID := createPetShop(t, db)
	appointmentID := createAppointment(t, db, shopID)

	recorded, err := repo.RecordAccrual(ctx, appointmentID, uuid.New(), 10)
	require.NoError(t, err)
	assert.True(t, recorded)

	recorded, err = repo.RecordAccrual(ctx, appointmentID, uuid.New(), 10)
	require.NoError(t, err)
	assert.False(t, recorded)
}
