package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating bounds for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a completed booking. At most one review
// exists per booking, enforced by the unique index on booking_id. Reviews are
// immutable after creation.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	BookingID  uuid.UUID `json:"booking_id" gorm:"type:char(36);uniqueIndex;not null"`
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:char(36);not null;index"`
	ProviderID uuid.UUID `json:"provider_id" gorm:"type:char(36);not null;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Booking Booking `json:"-" gorm:"foreignKey:BookingID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RatingSummary is the read-time aggregate over a provider's reviews. Avg is
// nil when the provider has no reviews. Never persisted.
type RatingSummary struct {
	Avg   *float64 `json:"avg"`
	Count int64    `json:"count"`
}
