package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

// ReviewService is the review gate plus the rating aggregator. A review may
// be created only by the booking's customer, only for a completed booking,
// and at most once per booking.
type ReviewService interface {
	Submit(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, rating int, comment string) (*model.Review, error)
	// ComputeRating derives the provider's mean rating and review count at
	// read time. Never cached, never persisted.
	ComputeRating(ctx context.Context, providerID uuid.UUID) (model.RatingSummary, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, bookingRepo repository.BookingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, bookingRepo: bookingRepo}
}

// Submit checks the review gate preconditions and creates the review.
// The application-level existence check is advisory only; the unique index
// on booking_id is what makes concurrent duplicates impossible.
func (s *reviewService) Submit(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, rating int, comment string) (*model.Review, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}

	if ident.Role != model.RoleCustomer || ident.UserID != booking.CustomerID {
		return nil, errors.ErrForbidden
	}
	if booking.Status != model.BookingStatusCompleted {
		return nil, errors.ErrNotCompleted
	}

	exists, err := s.reviewRepo.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, errors.ErrAlreadyReviewed
	}

	if rating < model.MinRating || rating > model.MaxRating {
		return nil, errors.ErrInvalidRating
	}

	review := &model.Review{
		BookingID:  bookingID,
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the check-then-insert race to a concurrent submission.
			return nil, errors.ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// ComputeRating returns the read-time rating aggregate for a provider.
func (s *reviewService) ComputeRating(ctx context.Context, providerID uuid.UUID) (model.RatingSummary, error) {
	return s.reviewRepo.AggregateByProvider(ctx, providerID)
}
