package model

import "github.com/google/uuid"

// Read-side projections assembled per query. Display names and category
// names are joined at read time, never stored on the underlying records.

// ProviderListing is a provider profile enriched with the display name and
// rating aggregate for directory views.
type ProviderListing struct {
	ProviderProfile
	FullName string        `json:"full_name"`
	Rating   RatingSummary `json:"rating"`
}

// BookingSummary is a booking enriched with the names a listing needs.
// HasReview is only meaningful for customer-facing listings.
type BookingSummary struct {
	Booking
	CustomerName string `json:"customer_name,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	CategoryName string `json:"category_name"`
	HasReview    bool   `json:"has_review"`
}

// UserSummary is the admin user-moderation projection.
type UserSummary struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`
}
