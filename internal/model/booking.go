package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingStatus represents the status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusAccepted  BookingStatus = "accepted"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCompleted,
		BookingStatusRejected, BookingStatusCancelled:
		return true
	}
	return false
}

// BookingAction is a requested transition on a booking.
type BookingAction string

const (
	BookingActionAccept   BookingAction = "accept"
	BookingActionReject   BookingAction = "reject"
	BookingActionCancel   BookingAction = "cancel"
	BookingActionComplete BookingAction = "complete"
)

// ActorRole returns the role that is allowed to perform the action: the
// owning customer may cancel, the owning provider handles everything else.
func (a BookingAction) ActorRole() Role {
	if a == BookingActionCancel {
		return RoleCustomer
	}
	return RoleProvider
}

// transitions is the single authoritative transition table. Every status not
// present as a key is terminal.
var transitions = map[BookingStatus]map[BookingAction]BookingStatus{
	BookingStatusPending: {
		BookingActionAccept: BookingStatusAccepted,
		BookingActionReject: BookingStatusRejected,
		BookingActionCancel: BookingStatusCancelled,
	},
	BookingStatusAccepted: {
		BookingActionComplete: BookingStatusCompleted,
	},
}

// NextStatus resolves the status reached by applying action to from. ok is
// false when the edge is not in the transition table.
func NextStatus(from BookingStatus, action BookingAction) (to BookingStatus, ok bool) {
	to, ok = transitions[from][action]
	return to, ok
}

// TimeSlots is the fixed set of bookable time values.
var TimeSlots = []string{
	"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM",
	"01:00 PM", "02:00 PM", "03:00 PM", "04:00 PM", "05:00 PM",
}

// ValidTimeSlot reports whether slot is one of the recognized slot values.
func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Booking represents a service request from a customer to a provider for one
// date and time slot. customer_id, provider_id, category_id, date and
// time_slot are immutable after creation; only status moves.
type Booking struct {
	ID         uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	CustomerID uuid.UUID     `json:"customer_id" gorm:"type:char(36);not null;index"`
	ProviderID uuid.UUID     `json:"provider_id" gorm:"type:char(36);not null;index"`
	CategoryID *uuid.UUID    `json:"category_id" gorm:"type:char(36);index"`
	Date       time.Time     `json:"date" gorm:"type:date;not null"`
	TimeSlot   string        `json:"time_slot" gorm:"size:16;not null"`
	Notes      string        `json:"notes" gorm:"type:text"`
	Status     BookingStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	// Relations
	Customer User      `json:"-" gorm:"foreignKey:CustomerID"`
	Provider User      `json:"-" gorm:"foreignKey:ProviderID"`
	Category *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
