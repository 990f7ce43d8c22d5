package petshop

import "errors"

var (
	// ErrPetShopNotFound возвращается, когда зоомагазин не найден
	ErrPetShopNotFound = errors.New("petshop.repository: pet shop not found")

	// ErrLoyaltyPlanNotFound возвращается, когда у магазина нет программы лояльности
	ErrLoyaltyPlanNotFound = errors.New("petshop.repository: loyalty plan not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("petshop.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("petshop.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("petshop.repository: failed to scan row")
)
