package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
	"quickfix/internal/repository"
)

// CreateBookingInput carries the fields a customer submits for a new booking.
type CreateBookingInput struct {
	ProviderID uuid.UUID
	CategoryID *uuid.UUID
	Date       time.Time
	TimeSlot   string
	Notes      string
}

// BookingService is the booking lifecycle engine: creation, the central
// transition function, and the role-gated listings around it.
type BookingService interface {
	Create(ctx context.Context, ident auth.Identity, input CreateBookingInput) (*model.Booking, error)
	// Transition applies one action to one booking. Ownership is checked
	// before the state machine; the status write is a compare-and-set so
	// only one of two concurrent callers wins.
	Transition(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, action model.BookingAction) (*model.Booking, error)
	ListMine(ctx context.Context, ident auth.Identity) ([]model.BookingSummary, error)
	ListAssigned(ctx context.Context, ident auth.Identity) ([]model.BookingSummary, error)
	ListAll(ctx context.Context, ident auth.Identity, status *model.BookingStatus) ([]model.BookingSummary, error)
}

type bookingService struct {
	bookingRepo  repository.BookingRepository
	providerRepo repository.ProviderRepository
	userRepo     repository.UserRepository
	reviewRepo   repository.ReviewRepository
	// now is swappable in tests; date validation depends on it.
	now func() time.Time
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	providerRepo repository.ProviderRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		providerRepo: providerRepo,
		userRepo:     userRepo,
		reviewRepo:   reviewRepo,
		now:          time.Now,
	}
}

// Create validates and stores a new booking in status pending.
// Two customers may book the same provider/date/slot; slot exclusivity is
// intentionally not enforced, providers resolve conflicts via accept/reject.
func (s *bookingService) Create(ctx context.Context, ident auth.Identity, input CreateBookingInput) (*model.Booking, error) {
	if ident.Role != model.RoleCustomer {
		return nil, errors.ErrForbidden
	}

	if _, err := s.providerRepo.FindProfileByUserID(ctx, input.ProviderID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProviderNotFound
		}
		return nil, fmt.Errorf("find provider: %w", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	bookingDate := time.Date(input.Date.Year(), input.Date.Month(), input.Date.Day(), 0, 0, 0, 0, time.UTC)
	if bookingDate.Before(today) {
		return nil, errors.NewValidationError("date", "must not be in the past")
	}

	if !model.ValidTimeSlot(input.TimeSlot) {
		return nil, errors.NewValidationError("time_slot", "unknown time slot")
	}

	if input.CategoryID != nil {
		offered, err := s.providerRepo.OffersCategory(ctx, input.ProviderID, *input.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("check provider services: %w", err)
		}
		if !offered {
			return nil, errors.NewValidationError("category_id", "not offered by this provider")
		}
	}

	booking := &model.Booking{
		CustomerID: ident.UserID,
		ProviderID: input.ProviderID,
		CategoryID: input.CategoryID,
		Date:       bookingDate,
		TimeSlot:   input.TimeSlot,
		Notes:      input.Notes,
		Status:     model.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// Transition applies the action through the central transition table.
func (s *bookingService) Transition(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, action model.BookingAction) (*model.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}

	if err := authorizeTransition(ident, booking, action); err != nil {
		return nil, err
	}

	to, ok := model.NextStatus(booking.Status, action)
	if !ok {
		return nil, errors.NewTransitionError(string(booking.Status), string(action))
	}

	won, err := s.bookingRepo.UpdateStatusIf(ctx, bookingID, booking.Status, to)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !won {
		// Lost the race: a concurrent writer changed the status first.
		// Report the transition against the state it actually holds now.
		current, findErr := s.bookingRepo.FindByID(ctx, bookingID)
		if findErr == nil {
			return nil, errors.NewTransitionError(string(current.Status), string(action))
		}
		return nil, errors.NewTransitionError(string(booking.Status), string(action))
	}

	booking.Status = to
	return booking, nil
}

// authorizeTransition enforces ownership: the owning customer may cancel,
// the owning provider handles accept/reject/complete. Anyone else is
// forbidden regardless of booking state, admins included.
func authorizeTransition(ident auth.Identity, booking *model.Booking, action model.BookingAction) error {
	switch action.ActorRole() {
	case model.RoleCustomer:
		if ident.Role != model.RoleCustomer || ident.UserID != booking.CustomerID {
			return errors.ErrForbidden
		}
	case model.RoleProvider:
		if ident.Role != model.RoleProvider || ident.UserID != booking.ProviderID {
			return errors.ErrForbidden
		}
	default:
		return errors.ErrForbidden
	}
	return nil
}

// ListMine returns the calling customer's bookings enriched with provider
// names, category names, and the reviewed flag.
func (s *bookingService) ListMine(ctx context.Context, ident auth.Identity) ([]model.BookingSummary, error) {
	if ident.Role != model.RoleCustomer {
		return nil, errors.ErrForbidden
	}

	bookings, err := s.bookingRepo.ListByCustomer(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	reviewed, err := s.reviewRepo.ReviewedBookingIDs(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list reviewed bookings: %w", err)
	}
	reviewedSet := make(map[uuid.UUID]struct{}, len(reviewed))
	for _, id := range reviewed {
		reviewedSet[id] = struct{}{}
	}

	names, err := s.userNames(ctx, bookings, func(b model.Booking) uuid.UUID { return b.ProviderID })
	if err != nil {
		return nil, err
	}

	summaries := make([]model.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		_, hasReview := reviewedSet[b.ID]
		summaries = append(summaries, model.BookingSummary{
			Booking:      b,
			ProviderName: names[b.ProviderID],
			CategoryName: categoryName(b),
			HasReview:    hasReview,
		})
	}
	return summaries, nil
}

// ListAssigned returns the calling provider's bookings enriched with
// customer names and category names.
func (s *bookingService) ListAssigned(ctx context.Context, ident auth.Identity) ([]model.BookingSummary, error) {
	if ident.Role != model.RoleProvider {
		return nil, errors.ErrForbidden
	}

	bookings, err := s.bookingRepo.ListByProvider(ctx, ident.UserID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	names, err := s.userNames(ctx, bookings, func(b model.Booking) uuid.UUID { return b.CustomerID })
	if err != nil {
		return nil, err
	}

	summaries := make([]model.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		summaries = append(summaries, model.BookingSummary{
			Booking:      b,
			CustomerName: names[b.CustomerID],
			CategoryName: categoryName(b),
		})
	}
	return summaries, nil
}

// ListAll is the admin audit listing over every booking, optionally filtered
// by status, with both party names joined.
func (s *bookingService) ListAll(ctx context.Context, ident auth.Identity, status *model.BookingStatus) ([]model.BookingSummary, error) {
	if ident.Role != model.RoleAdmin {
		return nil, errors.ErrForbidden
	}

	bookings, err := s.bookingRepo.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	idSet := make(map[uuid.UUID]struct{}, len(bookings)*2)
	for _, b := range bookings {
		idSet[b.CustomerID] = struct{}{}
		idSet[b.ProviderID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find user names: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}

	summaries := make([]model.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		summaries = append(summaries, model.BookingSummary{
			Booking:      b,
			CustomerName: names[b.CustomerID],
			ProviderName: names[b.ProviderID],
			CategoryName: categoryName(b),
		})
	}
	return summaries, nil
}

// userNames batch-loads display names for one side of the bookings.
func (s *bookingService) userNames(ctx context.Context, bookings []model.Booking, pick func(model.Booking) uuid.UUID) (map[uuid.UUID]string, error) {
	idSet := make(map[uuid.UUID]struct{}, len(bookings))
	for _, b := range bookings {
		idSet[pick(b)] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find user names: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names, nil
}

func categoryName(b model.Booking) string {
	if b.Category != nil {
		return b.Category.Name
	}
	return "General"
}
