package credit_points

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

var (
	// ErrPaymentNotSucceeded возвращается, когда платеж еще не прошел или отклонен
	ErrPaymentNotSucceeded = fmt.Errorf("%w: payment has not succeeded", domain.ErrInvalidInput)

	// ErrPaymentMismatch возвращается, когда платеж относится к другой записи
	ErrPaymentMismatch = fmt.Errorf("%w: payment does not belong to appointment", domain.ErrInvalidInput)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
