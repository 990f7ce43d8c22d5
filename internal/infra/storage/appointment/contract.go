package appointment

import (
	"github.com/m04kA/SMC-PetShopService/pkg/dbmetrics"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
