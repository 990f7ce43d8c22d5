package get_petshop_settings

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetShopService/internal/api/handlers"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

const (
	msgInvalidPetShopID = "некорректный ID магазина"
	msgPetShopNotFound  = "магазин не найден"
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

// Handle GET /api/v1/petshops/{petShopId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	petShopID, err := uuid.Parse(mux.Vars(r)["petShopId"])
	if err != nil {
		h.logger.Warn("GET /petshops/{id}/settings - Invalid pet shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPetShopID)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), petShopID)
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			h.logger.Warn("GET /petshops/{id}/settings - Pet shop not found: pet_shop_id=%s", petShopID)
			handlers.RespondNotFound(w, msgPetShopNotFound)
			return
		}
		h.logger.Error("GET /petshops/{id}/settings - Failed to get settings: pet_shop_id=%s, error=%v", petShopID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, settings)
}
