package create_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

var (
	// ErrTooLateToBook возвращается, когда запись нарушает минимальное время до начала
	ErrTooLateToBook = fmt.Errorf("%w: create_appointment: too late to book this slot", domain.ErrInvalidInput)

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = fmt.Errorf("%w: create_appointment: date is too far in the future", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
