package get_agenda

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetShopService/internal/api/handlers"
	"github.com/m04kA/SMC-PetShopService/internal/api/middleware"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
	"github.com/m04kA/SMC-PetShopService/internal/service/appointments"
	"github.com/m04kA/SMC-PetShopService/internal/service/appointments/models"
)

const (
	msgUnauthorized       = "пользователь не определен"
	msgInvalidPetShopID   = "некорректный ID магазина"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidIncludeFlag = "некорректное значение includeCancelled"
	msgPetShopNotFound    = "магазин не найден"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/petshops/{petShopId}/agenda
// Query params: date (required, YYYY-MM-DD), includeCancelled (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	petShopID, err := uuid.Parse(mux.Vars(r)["petShopId"])
	if err != nil {
		h.logger.Warn("GET /petshops/{id}/agenda - Invalid pet shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPetShopID)
		return
	}

	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /petshops/{id}/agenda - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /petshops/{id}/agenda - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var includeCancelled bool
	if v := query.Get("includeCancelled"); v != "" {
		includeCancelled, err = strconv.ParseBool(v)
		if err != nil {
			h.logger.Warn("GET /petshops/{id}/agenda - Invalid includeCancelled: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIncludeFlag)
			return
		}
	}

	list, err := h.service.GetAgenda(r.Context(), &models.GetAgendaRequest{
		UserID:           userID,
		PetShopID:        petShopID,
		Date:             date,
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrResourceNotFound):
			h.logger.Warn("GET /petshops/{id}/agenda - Pet shop not found: pet_shop_id=%s", petShopID)
			handlers.RespondNotFound(w, msgPetShopNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /petshops/{id}/agenda - Access denied: pet_shop_id=%s, user_id=%s", petShopID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /petshops/{id}/agenda - Failed to get agenda: pet_shop_id=%s, error=%v", petShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, list)
}
