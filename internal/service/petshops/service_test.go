package petshops

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
	petshopRepo "github.com/m04kA/SMC-PetShopService/internal/infra/storage/petshop"
	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
	"github.com/m04kA/SMC-PetShopService/pkg/logger"
)

type memRepo struct {
	shop  *domain.PetShop
	plan  *domain.LoyaltyPlan
	saved domain.WorkingHours
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.PetShop, error) {
	if r.shop == nil || r.shop.ID != id {
		return nil, petshopRepo.ErrPetShopNotFound
	}
	return r.shop, nil
}

func (r *memRepo) UpdateWorkingHours(_ context.Context, _ uuid.UUID, wh domain.WorkingHours) error {
	r.saved = wh
	return nil
}

func (r *memRepo) GetLoyaltyPlan(_ context.Context, _ uuid.UUID) (*domain.LoyaltyPlan, error) {
	if r.plan == nil {
		return nil, petshopRepo.ErrLoyaltyPlanNotFound
	}
	return r.plan, nil
}

func (r *memRepo) UpsertLoyaltyPlan(_ context.Context, plan *domain.LoyaltyPlan) (*domain.LoyaltyPlan, error) {
	if r.plan != nil {
		plan.ID = r.plan.ID
	}
	r.plan = plan
	return plan, nil
}

func newService() (*Service, *memRepo) {
	repo := &memRepo{shop: &domain.PetShop{ID: uuid.New(), OwnerID: uuid.New(), Timezone: "UTC"}}
	return NewService(repo, logger.NewNop()), repo
}

func TestUpdateWorkingHours(t *testing.T) {
	svc, repo := newService()

	var req models.UpdateWorkingHoursRequest
	require.NoError(t, json.Unmarshal([]byte(`{"workingHours":{"2":[{"start":"09:00","end":"12:00"},{"start":"13:00","end":"18:00"}]}}`), &req))
	req.PetShopID = repo.shop.ID
	req.UserID = repo.shop.OwnerID

	resp, err := svc.UpdateWorkingHours(context.Background(), &req)
	require.NoError(t, err)
	assert.Len(t, resp.WorkingHours[time.Tuesday], 2)
	assert.Len(t, repo.saved[time.Tuesday], 2)
}

func TestUpdateWorkingHours_Rejects(t *testing.T) {
	svc, repo := newService()

	overlapping := domain.WorkingHours{time.Monday: {{Start: "09:00", End: "13:00"}, {Start: "12:00", End: "18:00"}}}
	_, err := svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: repo.shop.OwnerID, PetShopID: repo.shop.ID, WorkingHours: overlapping,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidWorkingHours)

	valid := domain.WorkingHours{time.Monday: {{Start: "09:00", End: "18:00"}}}
	_, err = svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: uuid.New(), PetShopID: repo.shop.ID, WorkingHours: valid,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateWorkingHours(context.Background(), &models.UpdateWorkingHoursRequest{
		UserID: repo.shop.OwnerID, PetShopID: uuid.New(), WorkingHours: valid,
	})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	assert.Nil(t, repo.saved)
}

func TestUpsertLoyaltyPlan(t *testing.T) {
	svc, repo := newService()

	resp, err := svc.UpsertLoyaltyPlan(context.Background(), &models.UpsertLoyaltyPlanRequest{
		UserID: repo.shop.OwnerID, PetShopID: repo.shop.ID, PointsPerReal: decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)
	firstID := resp.ID

	resp, err = svc.UpsertLoyaltyPlan(context.Background(), &models.UpsertLoyaltyPlanRequest{
		UserID: repo.shop.OwnerID, PetShopID: repo.shop.ID, PointsPerReal: decimal.Zero,
	})
	require.NoError(t, err)
	assert.Equal(t, firstID, resp.ID)
	assert.True(t, resp.PointsPerReal.IsZero())

	_, err = svc.UpsertLoyaltyPlan(context.Background(), &models.UpsertLoyaltyPlanRequest{
		UserID: repo.shop.OwnerID, PetShopID: repo.shop.ID, PointsPerReal: decimal.RequireFromString("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	settings, err := svc.GetSettings(context.Background(), repo.shop.ID)
	require.NoError(t, err)
	require.NotNil(t, settings.LoyaltyPlan)
	assert.Equal(t, firstID, settings.LoyaltyPlan.ID)
}
