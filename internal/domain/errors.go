package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrResourceNotFound        = errors.New("resource not found")
	ErrOutsideWorkingHours     = errors.New("appointment outside working hours")
	ErrScheduleConflict        = errors.New("schedule conflict")
	ErrInsufficientCredits     = errors.New("insufficient subscription credits")
	ErrInsufficientPoints      = errors.New("insufficient loyalty points")
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidWorkingHours     = errors.New("invalid working hours")
)

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// ScheduleConflictError references the pre-existing appointment
type ScheduleConflictError struct {
	ExistingAppointmentID uuid.UUID
}

func (e *ScheduleConflictError) Error() string {
	if e.ExistingAppointmentID == uuid.Nil {
		return "schedule conflict with an existing appointment"
	}
	return fmt.Sprintf("schedule conflict with appointment %s", e.ExistingAppointmentID)
}

func (e *ScheduleConflictError) Unwrap() error {
	return ErrScheduleConflict
}

// InsufficientCreditsError names the service without enough credits
type InsufficientCreditsError struct {
	ServiceID   uuid.UUID
	ServiceName string
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient subscription credits for service %q", e.ServiceName)
}

func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}

// InvalidTransitionError describes a rejected status change
type InvalidTransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change appointment status from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

var businessErrors = []error{
	ErrResourceNotFound,
	ErrOutsideWorkingHours,
	ErrScheduleConflict,
	ErrInsufficientCredits,
	ErrInsufficientPoints,
	ErrInvalidInput,
	ErrInvalidStatusTransition,
	ErrInvalidWorkingHours,
}

// IsBusinessError returns true if err is a business rule violation and not a server fault
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
