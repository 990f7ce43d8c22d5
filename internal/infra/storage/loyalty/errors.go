package loyalty

import "errors"

var (
	// ErrPromotionNotFound возвращается, когда акция не найдена
	ErrPromotionNotFound = errors.New("loyalty.repository: promotion not found")

	// ErrPointsNotFound возвращается, когда у клиента нет баланса в магазине
	ErrPointsNotFound = errors.New("loyalty.repository: points balance not found")

	// ErrInsufficientPoints возвращается, когда списание уменьшило бы баланс ниже нуля
	ErrInsufficientPoints = errors.New("loyalty.repository: insufficient points")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("loyalty.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("loyalty.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("loyalty.repository: failed to scan row")
)
