package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus represents the status of a client subscription
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
)

// SubscriptionCredit is a per (subscription, service) balance
type SubscriptionCredit struct {
	ID               uuid.UUID
	SubscriptionID   uuid.UUID
	ServiceID        uuid.UUID
	RemainingCredits int
}

// HasCredits returns true if at least n credits remain
func (c *SubscriptionCredit) HasCredits(n int) bool {
	return c != nil && c.RemainingCredits >= n
}

// LoyaltyPlan configures point accrual of a pet shop
type LoyaltyPlan struct {
	ID            uuid.UUID
	PetShopID     uuid.UUID
	PointsPerReal decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAccruing returns true if payments earn points under the plan
func (p *LoyaltyPlan) IsAccruing() bool {
	return p != nil && p.PointsPerReal.IsPositive()
}

// PointsFor returns floor(amount * pointsPerReal)
func (p *LoyaltyPlan) PointsFor(amount decimal.Decimal) int64 {
	if !p.IsAccruing() || !amount.IsPositive() {
		return 0
	}
	return amount.Mul(p.PointsPerReal).Floor().IntPart()
}

// LoyaltyPromotion is a redeemable offer of a loyalty plan
type LoyaltyPromotion struct {
	ID             uuid.UUID
	LoyaltyPlanID  uuid.UUID
	PetShopID      uuid.UUID
	Description    string
	PointsNeeded   int64
	ServiceCredits int
}

// ClientLoyaltyPoints is a per (client, pet shop) point balance
type ClientLoyaltyPoints struct {
	ClientID  uuid.UUID
	PetShopID uuid.UUID
	Points    int64
}

// PaymentStatus represents the state of a payment handled by the payment collaborator
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is a monetary payment for an appointment
type Payment struct {
	ID            uuid.UUID
	AppointmentID uuid.UUID
	Amount        decimal.Decimal
	Status        PaymentStatus
	CreatedAt     time.Time
}
