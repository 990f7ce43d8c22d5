package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

var (
	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = fmt.Errorf("%w: date is in the past", domain.ErrInvalidInput)

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = fmt.Errorf("%w: date is too far in the future", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
