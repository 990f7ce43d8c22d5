package loyalty

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

// Repository реестр баллов лояльности и акций
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория лояльности
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetPromotionByID получает акцию вместе с магазином её программы лояльности
func (r *Repository) GetPromotionByID(ctx context.Context, id uuid.UUID) (*domain.LoyaltyPromotion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"p.id",
		"p.loyalty_plan_id",
		"lp.pet_shop_id",
		"p.description",
		"p.points_needed",
		"p.service_credits",
	).
		From("loyalty_promotions p").
		Join("loyalty_plans lp ON lp.id = p.loyalty_plan_id").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPromotionByID - build select query: %v", ErrBuildQuery, err)
	}

	var promotion domain.LoyaltyPromotion
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&promotion.ID,
		&promotion.LoyaltyPlanID,
		&promotion.PetShopID,
		&promotion.Description,
		&promotion.PointsNeeded,
		&promotion.ServiceCredits,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPromotionByID - scan promotion: %v", ErrScanRow, err)
	}

	return &promotion, nil
}

// GetPointsForUpdate получает баланс клиента в магазине.
// Внутри транзакции строка блокируется до её завершения
func (r *Repository) GetPointsForUpdate(ctx context.Context, clientID, petShopID uuid.UUID) (*domain.ClientLoyaltyPoints, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("client_id", "pet_shop_id", "points").
		From("client_loyalty_points").
		Where(squirrel.Eq{"client_id": clientID, "pet_shop_id": petShopID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPointsForUpdate - build select query: %v", ErrBuildQuery, err)
	}

	var points domain.ClientLoyaltyPoints
	err = executor.QueryRowContext(ctx, query, args...).Scan(&points.ClientID, &points.PetShopID, &points.Points)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPointsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPointsForUpdate - scan points: %v", ErrScanRow, err)
	}

	return &points, nil
}

// DebitPoints атомарно списывает amount баллов, если их хватает
func (r *Repository) DebitPoints(ctx context.Context, clientID, petShopID uuid.UUID, amount int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("client_loyalty_points").
		Set("points", squirrel.Expr("points - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"client_id": clientID, "pet_shop_id": petShopID}).
		Where(squirrel.GtOrEq{"points": amount}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DebitPoints - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DebitPoints - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DebitPoints - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientPoints
	}

	return nil
}

// CreditPoints начисляет баллы, создавая баланс при необходимости
func (r *Repository) CreditPoints(ctx context.Context, clientID, petShopID uuid.UUID, amount int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("client_loyalty_points").
		Columns("client_id", "pet_shop_id", "points").
		Values(clientID, petShopID, amount).
		Suffix("ON CONFLICT (client_id, pet_shop_id) DO UPDATE SET " +
			"points = client_loyalty_points.points + EXCLUDED.points, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: CreditPoints - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: CreditPoints - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// RecordAccrual фиксирует начисление за запись. Возвращает false,
// если начисление по этой записи уже было
func (r *Repository) RecordAccrual(ctx context.Context, appointmentID, paymentID uuid.UUID, points int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("loyalty_accruals").
		Columns("appointment_id", "payment_id", "points").
		Values(appointmentID, paymentID, points).
		Suffix("ON CONFLICT (appointment_id) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: RecordAccrual - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: RecordAccrual - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: RecordAccrual - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected == 1, nil
}
