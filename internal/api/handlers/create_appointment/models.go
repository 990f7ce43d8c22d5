package create_appointment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	createAppointment "github.com/m04kA/SMC-PetShopService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP request model
type CreateAppointmentRequest struct {
	PetShopID          uuid.UUID   `json:"petShopId"`
	PetID              uuid.UUID   `json:"petId"`
	ServiceIDs         []uuid.UUID `json:"serviceIds"`
	StartTime          string      `json:"startTime"`   // "2025-07-22T10:00:00-03:00"
	PaymentType        string      `json:"paymentType"` // MONETARY, SUBSCRIPTION_CREDIT, LOYALTY_CREDIT
	LoyaltyPromotionID *uuid.UUID  `json:"loyaltyPromotionId,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID                 uuid.UUID       `json:"id"`
	PetShopID          uuid.UUID       `json:"petShopId"`
	PetID              uuid.UUID       `json:"petId"`
	ClientID           uuid.UUID       `json:"clientId"`
	ServiceIDs         []uuid.UUID     `json:"serviceIds"`
	StartTime          string          `json:"startTime"`
	EndTime            string          `json:"endTime"`
	DurationMinutes    int             `json:"durationMinutes"`
	Status             string          `json:"status"`
	PaymentType        string          `json:"paymentType"`
	LoyaltyPromotionID *uuid.UUID      `json:"loyaltyPromotionId,omitempty"`
	TotalPrice         decimal.Decimal `json:"totalPrice"`
	CreatedAt          string          `json:"createdAt"`
	UpdatedAt          string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(clientID uuid.UUID) (*createAppointment.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse startTime: %w", err)
	}

	return &createAppointment.Request{
		ClientID:           clientID,
		PetShopID:          r.PetShopID,
		PetID:              r.PetID,
		ServiceIDs:         r.ServiceIDs,
		StartTime:          startTime,
		PaymentType:        r.PaymentType,
		LoyaltyPromotionID: r.LoyaltyPromotionID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 resp.ID,
		PetShopID:          resp.PetShopID,
		PetID:              resp.PetID,
		ClientID:           resp.ClientID,
		ServiceIDs:         resp.ServiceIDs,
		StartTime:          resp.StartTime.Format(time.RFC3339),
		EndTime:            resp.EndTime.Format(time.RFC3339),
		DurationMinutes:    resp.DurationMinutes,
		Status:             resp.Status,
		PaymentType:        resp.PaymentType,
		LoyaltyPromotionID: resp.LoyaltyPromotionID,
		TotalPrice:         resp.TotalPrice,
		CreatedAt:          resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),
	}
}
