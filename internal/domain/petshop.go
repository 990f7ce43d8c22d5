package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PetShop represents a schedulable pet shop. The whole shop is a single resource
type PetShop struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Timezone     string // IANA, e.g. America/Sao_Paulo
	WorkingHours WorkingHours
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Location resolves the shop's timezone, falling back to UTC
func (p *PetShop) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsOwnedBy returns true if userID manages the shop
func (p *PetShop) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID == userID
}

// Service represents a bookable service of a pet shop
type Service struct {
	ID              uuid.UUID
	PetShopID       uuid.UUID
	Name            string
	DurationMinutes int
	Price           decimal.Decimal
}

// TotalDuration sums durations of services
func TotalDuration(services []*Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice sums prices of services
func TotalPrice(services []*Service) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Price)
	}
	return total
}
