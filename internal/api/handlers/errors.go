package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

const (
	msgNotFound          = "ресурс не найден"
	msgScheduleConflict  = "выбранное время уже занято"
	msgOutsideHours      = "запись выходит за рабочие часы магазина"
	msgInvalidTransition = "недопустимая смена статуса записи"
	msgNoCredits         = "недостаточно кредитов подписки"
	msgNoPoints          = "недостаточно баллов лояльности"
	msgInvalidHours      = "некорректные рабочие часы"
)

// StatusForDomainError сопоставляет бизнес-ошибку HTTP статусу и сообщению.
// ok = false, если err не бизнес-ошибка
func StatusForDomainError(err error) (status int, message string, ok bool) {
	var (
		notFound *domain.NotFoundError
		credits  *domain.InsufficientCreditsError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error(), true
	case errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, msgNotFound, true
	case errors.Is(err, domain.ErrScheduleConflict):
		return http.StatusConflict, msgScheduleConflict, true
	case errors.Is(err, domain.ErrOutsideWorkingHours):
		return http.StatusConflict, msgOutsideHours, true
	case errors.Is(err, domain.ErrInvalidStatusTransition):
		return http.StatusConflict, msgInvalidTransition, true
	case errors.As(err, &credits):
		return http.StatusUnprocessableEntity, msgNoCredits + ": " + credits.ServiceName, true
	case errors.Is(err, domain.ErrInsufficientCredits):
		return http.StatusUnprocessableEntity, msgNoCredits, true
	case errors.Is(err, domain.ErrInsufficientPoints):
		return http.StatusUnprocessableEntity, msgNoPoints, true
	case errors.Is(err, domain.ErrInvalidWorkingHours):
		return http.StatusBadRequest, msgInvalidHours + ": " + err.Error(), true
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}

// RespondDomainError отвечает статусом бизнес-ошибки. false, если err не бизнес-ошибка
func RespondDomainError(w http.ResponseWriter, err error) bool {
	status, message, ok := StatusForDomainError(err)
	if !ok {
		return false
	}
	RespondError(w, status, message)
	return true
}
