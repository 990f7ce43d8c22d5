package update_working_hours

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
	msgInvalidHours       = "некорректные рабочие часы"
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

// Handle PUT /api/v1/petshops/{petShopId}/working-hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	petShopID, err := uuid.Parse(mux.Vars(r)["petShopId"])
	if err != nil {
		h.logger.Warn("PUT /petshops/{id}/working-hours - Invalid pet shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPetShopID)
		return
	}

	var req models.UpdateWorkingHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /petshops/{id}/working-hours - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.PetShopID = petShopID

	settings, err := h.service.UpdateWorkingHours(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidWorkingHours):
			h.logger.Warn("PUT /petshops/{id}/working-hours - Invalid working hours: %v", err)
			handlers.RespondBadRequest(w, msgInvalidHours+": "+err.Error())

		case errors.Is(err, domain.ErrResourceNotFound):
			h.logger.Warn("PUT /petshops/{id}/working-hours - Pet shop not found: pet_shop_id=%s", petShopID)
			handlers.RespondNotFound(w, msgPetShopNotFound)

		case errors.Is(err, petshops.ErrAccessDenied):
			h.logger.Warn("PUT /petshops/{id}/working-hours - Access denied: pet_shop_id=%s, user_id=%s", petShopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /petshops/{id}/working-hours - Failed to update: pet_shop_id=%s, error=%v", petShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /petshops/{id}/working-hours - Working hours updated: pet_shop_id=%s", petShopID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
