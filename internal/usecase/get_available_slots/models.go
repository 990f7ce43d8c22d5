package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	PetShopID  uuid.UUID   // ID зоомагазина
	ServiceIDs []uuid.UUID // Услуги, длительности суммируются
	Date       time.Time   // Дата (без времени), трактуется в часовом поясе магазина
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            time.Time // Начало дня в часовом поясе магазина
	PetShopID       uuid.UUID
	ServiceIDs      []uuid.UUID
	DurationMinutes int    // Суммарная длительность услуг
	Slots           []Slot // Свободные слоты по возрастанию времени
}

// Slot модель свободного слота
type Slot struct {
	StartTime       types.TimeString // Местное время начала, например "10:00"
	EndTime         types.TimeString
	StartsAt        time.Time // Момент начала для передачи в создание записи
	DurationMinutes int
}
