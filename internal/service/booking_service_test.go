package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"quickfix/internal/auth"
	"quickfix/internal/errors"
	"quickfix/internal/model"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
}

func newBookingServiceForTest(
	bookingRepo *MockBookingRepository,
	providerRepo *MockProviderRepository,
	userRepo *MockUserRepository,
	reviewRepo *MockReviewRepository,
) *bookingService {
	svc := NewBookingService(bookingRepo, providerRepo, userRepo, reviewRepo).(*bookingService)
	svc.now = fixedNow
	return svc
}

func TestBookingService_Create(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()
	categoryID := uuid.New()
	customer := auth.Identity{UserID: customerID, Role: model.RoleCustomer}

	tests := []struct {
		name          string
		ident         auth.Identity
		input         CreateBookingInput
		setupMocks    func(*MockBookingRepository, *MockProviderRepository)
		expectedError error
		wantField     string
	}{
		{
			name:  "successful booking",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				CategoryID: &categoryID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
				Notes:      "leaky kitchen tap",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(&model.ProviderProfile{UserID: providerID}, nil)
				mProvider.On("OffersCategory", mock.Anything, providerID, categoryID).Return(true, nil)
				mBooking.On("Create", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)
			},
		},
		{
			name:  "same day booking allowed",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "05:00 PM",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(&model.ProviderProfile{UserID: providerID}, nil)
				mBooking.On("Create", mock.Anything, mock.AnythingOfType("*model.Booking")).Return(nil)
			},
		},
		{
			name:  "provider not found",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrProviderNotFound,
		},
		{
			name:  "past date rejected",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(&model.ProviderProfile{UserID: providerID}, nil)
			},
			wantField: "date",
		},
		{
			name:  "unknown time slot rejected",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "09:30 AM",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(&model.ProviderProfile{UserID: providerID}, nil)
			},
			wantField: "time_slot",
		},
		{
			name:  "category not offered by provider",
			ident: customer,
			input: CreateBookingInput{
				ProviderID: providerID,
				CategoryID: &categoryID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
			},
			setupMocks: func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {
				mProvider.On("FindProfileByUserID", mock.Anything, providerID).
					Return(&model.ProviderProfile{UserID: providerID}, nil)
				mProvider.On("OffersCategory", mock.Anything, providerID, categoryID).Return(false, nil)
			},
			wantField: "category_id",
		},
		{
			name:  "provider cannot create bookings",
			ident: auth.Identity{UserID: providerID, Role: model.RoleProvider},
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
			},
			setupMocks:    func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {},
			expectedError: errors.ErrForbidden,
		},
		{
			name:  "admin cannot create bookings",
			ident: auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin},
			input: CreateBookingInput{
				ProviderID: providerID,
				Date:       time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
				TimeSlot:   "10:00 AM",
			},
			setupMocks:    func(mBooking *MockBookingRepository, mProvider *MockProviderRepository) {},
			expectedError: errors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBooking := new(MockBookingRepository)
			mockProvider := new(MockProviderRepository)
			tt.setupMocks(mockBooking, mockProvider)

			svc := newBookingServiceForTest(mockBooking, mockProvider, new(MockUserRepository), new(MockReviewRepository))
			booking, err := svc.Create(context.Background(), tt.ident, tt.input)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, booking)
			case tt.wantField != "":
				var validationErr *errors.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				assert.Equal(t, tt.wantField, validationErr.Field)
				assert.Nil(t, booking)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, booking)
				assert.Equal(t, model.BookingStatusPending, booking.Status)
				assert.Equal(t, tt.ident.UserID, booking.CustomerID)
				assert.Equal(t, tt.input.ProviderID, booking.ProviderID)
				assert.Equal(t, tt.input.TimeSlot, booking.TimeSlot)
			}

			mockBooking.AssertExpectations(t)
			mockProvider.AssertExpectations(t)
		})
	}
}

func TestBookingService_Transition(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()
	bookingID := uuid.New()
	customer := auth.Identity{UserID: customerID, Role: model.RoleCustomer}
	provider := auth.Identity{UserID: providerID, Role: model.RoleProvider}

	pendingBooking := func() *model.Booking {
		return &model.Booking{
			ID:         bookingID,
			CustomerID: customerID,
			ProviderID: providerID,
			Status:     model.BookingStatusPending,
		}
	}

	tests := []struct {
		name           string
		ident          auth.Identity
		action         model.BookingAction
		setupMocks     func(*MockBookingRepository)
		expectedStatus model.BookingStatus
		expectedError  error
		wantTransition bool
	}{
		{
			name:   "provider accepts pending booking",
			ident:  provider,
			action: model.BookingActionAccept,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
				m.On("UpdateStatusIf", mock.Anything, bookingID, model.BookingStatusPending, model.BookingStatusAccepted).
					Return(true, nil)
			},
			expectedStatus: model.BookingStatusAccepted,
		},
		{
			name:   "provider rejects pending booking",
			ident:  provider,
			action: model.BookingActionReject,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
				m.On("UpdateStatusIf", mock.Anything, bookingID, model.BookingStatusPending, model.BookingStatusRejected).
					Return(true, nil)
			},
			expectedStatus: model.BookingStatusRejected,
		},
		{
			name:   "customer cancels pending booking",
			ident:  customer,
			action: model.BookingActionCancel,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
				m.On("UpdateStatusIf", mock.Anything, bookingID, model.BookingStatusPending, model.BookingStatusCancelled).
					Return(true, nil)
			},
			expectedStatus: model.BookingStatusCancelled,
		},
		{
			name:   "provider completes accepted booking",
			ident:  provider,
			action: model.BookingActionComplete,
			setupMocks: func(m *MockBookingRepository) {
				b := pendingBooking()
				b.Status = model.BookingStatusAccepted
				m.On("FindByID", mock.Anything, bookingID).Return(b, nil)
				m.On("UpdateStatusIf", mock.Anything, bookingID, model.BookingStatusAccepted, model.BookingStatusCompleted).
					Return(true, nil)
			},
			expectedStatus: model.BookingStatusCompleted,
		},
		{
			name:   "booking not found",
			ident:  provider,
			action: model.BookingActionAccept,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrBookingNotFound,
		},
		{
			name:   "customer cannot accept",
			ident:  customer,
			action: model.BookingActionAccept,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:   "provider cannot cancel",
			ident:  provider,
			action: model.BookingActionCancel,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:   "another provider cannot accept",
			ident:  auth.Identity{UserID: uuid.New(), Role: model.RoleProvider},
			action: model.BookingActionAccept,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:   "another customer cannot cancel",
			ident:  auth.Identity{UserID: uuid.New(), Role: model.RoleCustomer},
			action: model.BookingActionCancel,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:   "admin cannot transition",
			ident:  auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin},
			action: model.BookingActionAccept,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			expectedError: errors.ErrForbidden,
		},
		{
			name:   "complete on pending is a transition conflict",
			ident:  provider,
			action: model.BookingActionComplete,
			setupMocks: func(m *MockBookingRepository) {
				m.On("FindByID", mock.Anything, bookingID).Return(pendingBooking(), nil)
			},
			wantTransition: true,
		},
		{
			name:   "cancel on completed is a transition conflict",
			ident:  customer,
			action: model.BookingActionCancel,
			setupMocks: func(m *MockBookingRepository) {
				b := pendingBooking()
				b.Status = model.BookingStatusCompleted
				m.On("FindByID", mock.Anything, bookingID).Return(b, nil)
			},
			wantTransition: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBooking := new(MockBookingRepository)
			tt.setupMocks(mockBooking)

			svc := newBookingServiceForTest(mockBooking, new(MockProviderRepository), new(MockUserRepository), new(MockReviewRepository))
			booking, err := svc.Transition(context.Background(), tt.ident, bookingID, tt.action)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, booking)
			case tt.wantTransition:
				var transitionErr *errors.TransitionError
				assert.ErrorAs(t, err, &transitionErr)
				assert.Nil(t, booking)
			default:
				assert.NoError(t, err)
				assert.NotNil(t, booking)
				assert.Equal(t, tt.expectedStatus, booking.Status)
			}

			mockBooking.AssertExpectations(t)
		})
	}
}

func TestBookingService_Transition_LostRace(t *testing.T) {
	// The booking is read as pending but a concurrent reject lands first.
	// The conditional update matches zero rows and the conflict is reported
	// against the status the booking actually holds.
	customerID := uuid.New()
	providerID := uuid.New()
	bookingID := uuid.New()

	mockBooking := new(MockBookingRepository)
	mockBooking.On("FindByID", mock.Anything, bookingID).Return(&model.Booking{
		ID:         bookingID,
		CustomerID: customerID,
		ProviderID: providerID,
		Status:     model.BookingStatusPending,
	}, nil).Once()
	mockBooking.On("UpdateStatusIf", mock.Anything, bookingID, model.BookingStatusPending, model.BookingStatusAccepted).
		Return(false, nil)
	mockBooking.On("FindByID", mock.Anything, bookingID).Return(&model.Booking{
		ID:         bookingID,
		CustomerID: customerID,
		ProviderID: providerID,
		Status:     model.BookingStatusRejected,
	}, nil).Once()

	svc := newBookingServiceForTest(mockBooking, new(MockProviderRepository), new(MockUserRepository), new(MockReviewRepository))
	booking, err := svc.Transition(context.Background(),
		auth.Identity{UserID: providerID, Role: model.RoleProvider}, bookingID, model.BookingActionAccept)

	assert.Nil(t, booking)
	var transitionErr *errors.TransitionError
	assert.True(t, stderrors.As(err, &transitionErr))
	assert.Equal(t, string(model.BookingStatusRejected), transitionErr.From)
	assert.Equal(t, string(model.BookingActionAccept), transitionErr.Action)
	mockBooking.AssertExpectations(t)
}

func TestBookingService_ListMine(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()
	reviewedID := uuid.New()
	category := model.Category{ID: uuid.New(), Name: "Plumbing"}

	bookings := []model.Booking{
		{ID: reviewedID, CustomerID: customerID, ProviderID: providerID, Status: model.BookingStatusCompleted, Category: &category},
		{ID: uuid.New(), CustomerID: customerID, ProviderID: providerID, Status: model.BookingStatusPending},
	}

	mockBooking := new(MockBookingRepository)
	mockBooking.On("ListByCustomer", mock.Anything, customerID).Return(bookings, nil)
	mockReview := new(MockReviewRepository)
	mockReview.On("ReviewedBookingIDs", mock.Anything, customerID).Return([]uuid.UUID{reviewedID}, nil)
	mockUser := new(MockUserRepository)
	mockUser.On("FindByIDs", mock.Anything, []uuid.UUID{providerID}).
		Return([]model.User{{ID: providerID, FullName: "Sam Fixer"}}, nil)

	svc := newBookingServiceForTest(mockBooking, new(MockProviderRepository), mockUser, mockReview)
	summaries, err := svc.ListMine(context.Background(), auth.Identity{UserID: customerID, Role: model.RoleCustomer})

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)
	assert.Equal(t, "Sam Fixer", summaries[0].ProviderName)
	assert.Equal(t, "Plumbing", summaries[0].CategoryName)
	assert.True(t, summaries[0].HasReview)
	assert.Equal(t, "General", summaries[1].CategoryName)
	assert.False(t, summaries[1].HasReview)
	mockBooking.AssertExpectations(t)
	mockReview.AssertExpectations(t)
	mockUser.AssertExpectations(t)
}

func TestBookingService_ListMine_Forbidden(t *testing.T) {
	svc := newBookingServiceForTest(new(MockBookingRepository), new(MockProviderRepository), new(MockUserRepository), new(MockReviewRepository))
	summaries, err := svc.ListMine(context.Background(), auth.Identity{UserID: uuid.New(), Role: model.RoleProvider})
	assert.ErrorIs(t, err, errors.ErrForbidden)
	assert.Nil(t, summaries)
}

func TestBookingService_ListAssigned(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()

	mockBooking := new(MockBookingRepository)
	mockBooking.On("ListByProvider", mock.Anything, providerID).Return([]model.Booking{
		{ID: uuid.New(), CustomerID: customerID, ProviderID: providerID, Status: model.BookingStatusAccepted},
	}, nil)
	mockUser := new(MockUserRepository)
	mockUser.On("FindByIDs", mock.Anything, []uuid.UUID{customerID}).
		Return([]model.User{{ID: customerID, FullName: "Dana Doe"}}, nil)

	svc := newBookingServiceForTest(mockBooking, new(MockProviderRepository), mockUser, new(MockReviewRepository))
	summaries, err := svc.ListAssigned(context.Background(), auth.Identity{UserID: providerID, Role: model.RoleProvider})

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "Dana Doe", summaries[0].CustomerName)
	mockBooking.AssertExpectations(t)
	mockUser.AssertExpectations(t)
}

func TestBookingService_ListAll(t *testing.T) {
	customerID := uuid.New()
	providerID := uuid.New()
	status := model.BookingStatusPending

	mockBooking := new(MockBookingRepository)
	mockBooking.On("ListAll", mock.Anything, &status).Return([]model.Booking{
		{ID: uuid.New(), CustomerID: customerID, ProviderID: providerID, Status: status},
	}, nil)
	mockUser := new(MockUserRepository)
	mockUser.On("FindByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return([]model.User{
		{ID: customerID, FullName: "Dana Doe"},
		{ID: providerID, FullName: "Sam Fixer"},
	}, nil)

	svc := newBookingServiceForTest(mockBooking, new(MockProviderRepository), mockUser, new(MockReviewRepository))

	summaries, err := svc.ListAll(context.Background(), auth.Identity{UserID: uuid.New(), Role: model.RoleAdmin}, &status)
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "Dana Doe", summaries[0].CustomerName)
	assert.Equal(t, "Sam Fixer", summaries[0].ProviderName)

	_, err = svc.ListAll(context.Background(), auth.Identity{UserID: customerID, Role: model.RoleCustomer}, nil)
	assert.ErrorIs(t, err, errors.ErrForbidden)
	mockBooking.AssertExpectations(t)
}
