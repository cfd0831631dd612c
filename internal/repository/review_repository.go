package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	// Create inserts the review. The unique index on booking_id makes a
	// concurrent duplicate surface as gorm.ErrDuplicatedKey.
	Create(ctx context.Context, review *model.Review) error
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	// AggregateByProvider computes the rating summary at read time. Avg is
	// nil when the provider has no reviews.
	AggregateByProvider(ctx context.Context, providerID uuid.UUID) (model.RatingSummary, error)
	ReviewedBookingIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a new review.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ExistsForBooking reports whether the booking already has a review.
func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AggregateByProvider computes AVG and COUNT over the provider's reviews.
func (r *reviewRepository) AggregateByProvider(ctx context.Context, providerID uuid.UUID) (model.RatingSummary, error) {
	var row struct {
		Avg   *float64
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("provider_id = ?", providerID).
		Scan(&row).Error; err != nil {
		return model.RatingSummary{}, err
	}
	return model.RatingSummary{Avg: row.Avg, Count: row.Count}, nil
}

// ReviewedBookingIDs returns the booking IDs the customer has reviewed.
func (r *reviewRepository) ReviewedBookingIDs(ctx context.Context, customerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("customer_id = ?", customerID).
		Pluck("booking_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
