package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetShopService/pkg/psqlbuilder"
)

var (
	// ErrCreditNotFound возвращается, когда у клиента нет активного кредита на услугу
	ErrCreditNotFound = errors.New("subscription.repository: credit not found")

	// ErrInsufficientCredits возвращается, когда списание уменьшило бы баланс ниже нуля
	ErrInsufficientCredits = errors.New("subscription.repository: insufficient credits")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("subscription.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("subscription.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("subscription.repository: failed to scan row")
)

// Repository реестр кредитов подписок
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория кредитов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindActiveCreditForUpdate ищет кредит клиента на услугу в активной подписке.
// Если подписок несколько, берется кредит с наибольшим остатком.
// Внутри транзакции строка кредита блокируется до её завершения
func (r *Repository) FindActiveCreditForUpdate(ctx context.Context, clientID, serviceID uuid.UUID) (*domain.SubscriptionCredit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"c.id",
		"c.subscription_id",
		"c.service_id",
		"c.remaining_credits",
	).
		From("subscription_credits c").
		Join("client_subscriptions s ON s.id = c.subscription_id").
		Where(squirrel.Eq{"s.client_id": clientID}).
		Where(squirrel.Eq{"s.status": domain.SubscriptionActive}).
		Where(squirrel.Eq{"c.service_id": serviceID}).
		OrderBy("c.remaining_credits DESC").
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF c")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveCreditForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var credit domain.SubscriptionCredit
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&credit.ID,
		&credit.SubscriptionID,
		&credit.ServiceID,
		&credit.RemainingCredits,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCreditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindActiveCreditForUpdate - scan credit: %v", ErrScanRow, err)
	}

	return &credit, nil
}

// DebitCredit атомарно уменьшает остаток на amount, если его хватает
func (r *Repository) DebitCredit(ctx context.Context, creditID uuid.UUID, amount int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("subscription_credits").
		Set("remaining_credits", squirrel.Expr("remaining_credits - ?", amount)).
		Where(squirrel.Eq{"id": creditID}).
		Where(squirrel.GtOrEq{"remaining_credits": amount}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DebitCredit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DebitCredit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DebitCredit - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientCredits
	}

	return nil
}
