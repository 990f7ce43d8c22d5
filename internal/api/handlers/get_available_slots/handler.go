package get_available_slots

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PetShopService/internal/api/handlers"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-PetShopService/internal/usecase/get_available_slots"
)

const (
	msgInvalidPetShopID  = "некорректный ID магазина"
	msgMissingServiceIDs = "serviceIds обязателен"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast        = "дата в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
	msgNotFound          = "магазин или услуга не найдены"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/petshops/{petShopId}/available-slots
// Query params: serviceIds (required, через запятую), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	petShopID, err := uuid.Parse(mux.Vars(r)["petShopId"])
	if err != nil {
		h.logger.Warn("GET /petshops/{id}/available-slots - Invalid pet shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPetShopID)
		return
	}

	query := r.URL.Query()

	rawIDs := query.Get("serviceIds")
	if rawIDs == "" {
		h.logger.Warn("GET /petshops/{id}/available-slots - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	var serviceIDs []uuid.UUID
	for _, raw := range strings.Split(rawIDs, ",") {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			h.logger.Warn("GET /petshops/{id}/available-slots - Invalid service ID %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceIDs = append(serviceIDs, id)
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /petshops/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /petshops/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		PetShopID:  petShopID,
		ServiceIDs: serviceIDs,
		Date:       date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /petshops/{id}/available-slots - Date in past: pet_shop_id=%s, date=%s", petShopID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /petshops/{id}/available-slots - Date too far: pet_shop_id=%s, date=%s", petShopID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, domain.ErrResourceNotFound):
			h.logger.Warn("GET /petshops/{id}/available-slots - Not found: pet_shop_id=%s, reason=%v", petShopID, err)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("GET /petshops/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /petshops/{id}/available-slots - Failed to get slots: pet_shop_id=%s, error=%v", petShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /petshops/{id}/available-slots - Found %d slots: pet_shop_id=%s, date=%s",
		len(result.Slots), petShopID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
