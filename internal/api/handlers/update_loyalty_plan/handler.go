package update_loyalty_plan

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetShopService/internal/api/handlers"
	"github.com/m04kA/SMC-PetShopService/internal/api/middleware"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/internal/service/petshops"
	"github.com/m04kA/SMC-PetShopService/internal/service/petshops/models"
)

const (
	msgUnauthorized       = "пользователь не определен"
	msgInvalidPetShopID   = "некорректный ID магазина"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNegativeRatio      = "pointsPerReal не может быть отрицательным"
	msgPetShopNotFound    = "магазин не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service PetShopService
	logger  Logger
}

func NewHandler(service PetShopService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/petshops/{petShopId}/loyalty-plan
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	petShopID, err := uuid.Parse(mux.Vars(r)["petShopId"])
	if err != nil {
		h.logger.Warn("PUT /petshops/{id}/loyalty-plan - Invalid pet shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPetShopID)
		return
	}

	var req models.UpsertLoyaltyPlanRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /petshops/{id}/loyalty-plan - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.PetShopID = petShopID

	plan, err := h.service.UpsertLoyaltyPlan(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PUT /petshops/{id}/loyalty-plan - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgNegativeRatio)

		case errors.Is(err, domain.ErrResourceNotFound):
			h.logger.Warn("PUT /petshops/{id}/loyalty-plan - Pet shop not found: pet_shop_id=%s", petShopID)
			handlers.RespondNotFound(w, msgPetShopNotFound)

		case errors.Is(err, petshops.ErrAccessDenied):
			h.logger.Warn("PUT /petshops/{id}/loyalty-plan - Access denied: pet_shop_id=%s, user_id=%s", petShopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /petshops/{id}/loyalty-plan - Failed to save plan: pet_shop_id=%s, error=%v", petShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /petshops/{id}/loyalty-plan - Loyalty plan saved: pet_shop_id=%s, plan_id=%s", petShopID, plan.ID)
	handlers.RespondJSON(w, http.StatusOK, plan)
}
