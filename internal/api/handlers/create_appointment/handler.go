package create_appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/api/handlers"
	"github.com/m04kA/SMC-PetShopService/internal/api/middleware"
	"github.com/m04kA/SMC-PetShopService/internal/domain"
	createAppointment "github.com/m04kA/SMC-PetShopService/internal/usecase/create_appointment"
)

const (
	msgUnauthorized       = "пользователь не определен"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStartTime   = "некорректный формат времени начала, ожидается RFC 3339"
	msgTooLateToBook      = "слишком поздно для записи на это время"
	msgDateTooFar         = "дата слишком далеко в будущем"
	msgScheduleConflict   = "выбранное время уже занято"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// ConflictResponse тело ответа 409 с ID пересекающейся записи
type ConflictResponse struct {
	handlers.ErrorResponse
	ConflictingAppointmentID string `json:"conflictingAppointmentId,omitempty"`
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(clientID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *domain.ScheduleConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /appointments - Schedule conflict: client_id=%s, pet_shop_id=%s, existing=%s",
				clientID, req.PetShopID, conflict.ExistingAppointmentID)
			resp := ConflictResponse{
				ErrorResponse: handlers.ErrorResponse{Code: http.StatusConflict, Message: msgScheduleConflict},
			}
			if conflict.ExistingAppointmentID != uuid.Nil {
				resp.ConflictingAppointmentID = conflict.ExistingAppointmentID.String()
			}
			handlers.RespondJSON(w, http.StatusConflict, resp)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: client_id=%s, pet_shop_id=%s", clientID, req.PetShopID)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far: client_id=%s, pet_shop_id=%s", clientID, req.PetShopID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case domain.IsBusinessError(err):
			h.logger.Warn("POST /appointments - Rejected: client_id=%s, pet_shop_id=%s, reason=%v", clientID, req.PetShopID, err)
			handlers.RespondDomainError(w, err)

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: client_id=%s, pet_shop_id=%s, error=%v",
				clientID, req.PetShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%s, client_id=%s, pet_shop_id=%s",
		result.ID, clientID, req.PetShopID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
