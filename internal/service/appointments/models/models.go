package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-PetShopService/internal/domain"
)

// Request модели

// GetClientAppointmentsRequest запрос на получение записей клиента
type GetClientAppointmentsRequest struct {
	ClientID uuid.UUID `json:"clientId"`
	Status   *string   `json:"status,omitempty"`
}

// GetAgendaRequest запрос на расписание магазина за день
type GetAgendaRequest struct {
	UserID           uuid.UUID `json:"userId"`
	PetShopID        uuid.UUID `json:"petShopId"`
	Date             time.Time `json:"date"`                       // Календарная дата в часовом поясе магазина
	IncludeCancelled bool      `json:"includeCancelled,omitempty"` // Включить отмененные записи
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	UserID uuid.UUID `json:"userId"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 uuid.UUID   `json:"id"`
	PetShopID          uuid.UUID   `json:"petShopId"`
	PetID              uuid.UUID   `json:"petId"`
	ClientID           uuid.UUID   `json:"clientId"`
	ServiceIDs         []uuid.UUID `json:"serviceIds"`
	StartTime          time.Time   `json:"startTime"`
	EndTime            time.Time   `json:"endTime"`
	DurationMinutes    int         `json:"durationMinutes"`
	Status             string      `json:"status"`
	PaymentType        string      `json:"paymentType"`
	LoyaltyPromotionID *uuid.UUID  `json:"loyaltyPromotionId,omitempty"`
	CancelledAt        *string     `json:"cancelledAt,omitempty"` // ISO 8601 format
	CreatedAt          time.Time   `json:"createdAt"`
	UpdatedAt          time.Time   `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		PetShopID:          a.PetShopID,
		PetID:              a.PetID,
		ClientID:           a.ClientID,
		ServiceIDs:         a.ServiceIDs,
		StartTime:          a.StartTime,
		EndTime:            a.EndTime,
		DurationMinutes:    a.DurationMinutes,
		Status:             string(a.Status),
		PaymentType:        string(a.PaymentType),
		LoyaltyPromotionID: a.LoyaltyPromotionID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(list []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(list)),
	}

	for _, a := range list {
		if r := FromDomainAppointment(a); r != nil {
			resp.Appointments = append(resp.Appointments, *r)
		}
	}

	return resp
}

// ToDomainAppointmentStatus конвертирует строку в domain.AppointmentStatus с валидацией
func ToDomainAppointmentStatus(status string) (domain.AppointmentStatus, error) {
	s := domain.AppointmentStatus(status)

	switch s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
		return s, nil
	}

	return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
}
