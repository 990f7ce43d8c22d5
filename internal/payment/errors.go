package payment

import "errors"

var (
	// ErrUnsupportedPaymentType возвращается, если для типа оплаты нет стратегии
	ErrUnsupportedPaymentType = errors.New("payment: unsupported payment type")

	// ErrLedger возвращается при неожиданной ошибке реестра
	ErrLedger = errors.New("payment: ledger failure")
)
