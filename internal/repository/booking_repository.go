package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"quickfix/internal/model"
)

// BookingRepository defines booking persistence operations.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	// UpdateStatusIf writes the new status only if the stored status still
	// equals from. Returns false when a concurrent writer got there first.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.Booking, error)
	ListAll(ctx context.Context, status *model.BookingStatus) ([]model.Booking, error)
}

type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking record.
func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID finds a booking by ID.
func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	var booking model.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateStatusIf performs the compare-and-set status write.
func (r *bookingRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByCustomer lists a customer's bookings, newest date first.
func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("customer_id = ?", customerID).
		Order("date DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByProvider lists a provider's bookings, newest date first.
func (r *bookingRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("provider_id = ?", providerID).
		Order("date DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListAll lists every booking, optionally filtered by status.
func (r *bookingRepository) ListAll(ctx context.Context, status *model.BookingStatus) ([]model.Booking, error) {
	q := r.db.WithContext(ctx).Preload("Category").Order("date DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var bookings []model.Booking
	if err := q.Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}
