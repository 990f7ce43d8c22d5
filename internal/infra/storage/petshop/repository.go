package petshop

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

// Repository репозиторий зоомагазинов и их программ лояльности
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория зоомагазинов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает зоомагазин вместе с рабочими часами
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PetShop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"owner_id",
		"name",
		"timezone",
		"working_hours",
		"created_at",
		"updated_at",
	).
		From("pet_shops").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var shop domain.PetShop
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.OwnerID,
		&shop.Name,
		&shop.Timezone,
		&shop.WorkingHours,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPetShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan pet shop: %v", ErrScanRow, err)
	}

	return &shop, nil
}

// UpdateWorkingHours заменяет рабочие часы магазина
func (r *Repository) UpdateWorkingHours(ctx context.Context, id uuid.UUID, wh domain.WorkingHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("pet_shops").
		Set("working_hours", wh).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateWorkingHours - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPetShopNotFound
	}

	return nil
}

// GetLoyaltyPlan получает программу лояльности магазина
func (r *Repository) GetLoyaltyPlan(ctx context.Context, petShopID uuid.UUID) (*domain.LoyaltyPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"pet_shop_id",
		"points_per_real",
		"created_at",
		"updated_at",
	).
		From("loyalty_plans").
		Where(squirrel.Eq{"pet_shop_id": petShopID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetLoyaltyPlan - build select query: %v", ErrBuildQuery, err)
	}

	var plan domain.LoyaltyPlan
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&plan.ID,
		&plan.PetShopID,
		&plan.PointsPerReal,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLoyaltyPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLoyaltyPlan - scan plan: %v", ErrScanRow, err)
	}

	return &plan, nil
}

// UpsertLoyaltyPlan создает программу лояльности или обновляет pointsPerReal существующей
func (r *Repository) UpsertLoyaltyPlan(ctx context.Context, plan *domain.LoyaltyPlan) (*domain.LoyaltyPlan, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("loyalty_plans").
		Columns("id", "pet_shop_id", "points_per_real").
		Values(plan.ID, plan.PetShopID, plan.PointsPerReal).
		Suffix("ON CONFLICT (pet_shop_id) DO UPDATE SET points_per_real = EXCLUDED.points_per_real, updated_at = NOW()").
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertLoyaltyPlan - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertLoyaltyPlan - execute insert: %v", ErrExecQuery, err)
	}

	return plan, nil
}
