package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// PaymentType represents how an appointment is settled
type PaymentType string

const (
	PaymentMonetary           PaymentType = "MONETARY"
	PaymentSubscriptionCredit PaymentType = "SUBSCRIPTION_CREDIT"
	PaymentLoyaltyCredit      PaymentType = "LOYALTY_CREDIT"
)

// IsValid returns true for known payment types
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentMonetary, PaymentSubscriptionCredit, PaymentLoyaltyCredit:
		return true
	}
	return false
}

// allowedTransitions status machine: PENDING -> CONFIRMED -> COMPLETED, PENDING|CONFIRMED -> CANCELLED
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// Appointment represents a scheduled visit at a pet shop
type Appointment struct {
	ID        uuid.UUID
	PetShopID uuid.UUID
	PetID     uuid.UUID
	ClientID  uuid.UUID

	StartTime       time.Time
	EndTime         time.Time // persisted, never recomputed from services
	DurationMinutes int

	Status             AppointmentStatus
	PaymentType        PaymentType
	ServiceIDs         []uuid.UUID
	LoyaltyPromotionID *uuid.UUID

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CanTransitionTo returns true if the status machine allows moving to next
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo moves the appointment to next or returns ErrInvalidStatusTransition
func (a *Appointment) TransitionTo(next AppointmentStatus, now time.Time) error {
	if !a.CanTransitionTo(next) {
		return &InvalidTransitionError{From: a.Status, To: next}
	}
	a.Status = next
	a.UpdatedAt = now
	if next == StatusCancelled {
		cancelledAt := now
		a.CancelledAt = &cancelledAt
	}
	return nil
}

// IsActive returns true if the appointment occupies its time slot
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// Overlaps returns true if [start, end) intersects the appointment's [StartTime, EndTime)
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return start.Before(a.EndTime) && end.After(a.StartTime)
}

// HasParticipant returns true if userID is the client of the appointment
func (a *Appointment) HasParticipant(userID uuid.UUID) bool {
	return a.ClientID == userID
}

// AgendaFilter фильтр для получения записей зоомагазина
type AgendaFilter struct {
	PetShopID        uuid.UUID
	From             time.Time // включительно
	To               time.Time // не включительно
	IncludeCancelled bool
}
